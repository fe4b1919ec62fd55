// Command add-attendant creates an attendant account from the terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/spec-kit/attendant-desk/internal/config"
	"github.com/spec-kit/attendant-desk/internal/domain"
	"github.com/spec-kit/attendant-desk/internal/observability"
	"github.com/spec-kit/attendant-desk/internal/persistence"
	"github.com/spec-kit/attendant-desk/internal/repository"
	"github.com/spec-kit/attendant-desk/internal/service"
	apperrors "github.com/spec-kit/attendant-desk/pkg/util/errorutil"
)

var (
	errPasswordMismatch = errors.New("as senhas não coincidem")
	errMissingFields    = errors.New("todos os campos são obrigatórios")
)

type registerFunc func(ctx context.Context, in service.RegisterInput) (*domain.Attendant, error)

// prompter reads answers from a line reader; secrets come from readSecret,
// which disables echo when stdin is a terminal.
type prompter struct {
	lines      *bufio.Reader
	out        io.Writer
	readSecret func() (string, error)
}

func newPrompter(in *os.File, out io.Writer) *prompter {
	p := &prompter{lines: bufio.NewReader(in), out: out}
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		p.readSecret = func() (string, error) {
			raw, err := term.ReadPassword(fd)
			fmt.Fprintln(out)
			return string(raw), err
		}
	} else {
		p.readSecret = p.readLine
	}
	return p
}

func (p *prompter) readLine() (string, error) {
	line, err := p.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *prompter) ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	v, err := p.readLine()
	return strings.TrimSpace(v), err
}

func (p *prompter) askSecret(label string) (string, error) {
	fmt.Fprint(p.out, label)
	return p.readSecret()
}

// collect gathers and checks the new attendant's details.
func (p *prompter) collect() (service.RegisterInput, error) {
	var in service.RegisterInput
	var err error
	if in.Name, err = p.ask("Nome de usuário: "); err != nil {
		return in, err
	}
	if in.Email, err = p.ask("Email: "); err != nil {
		return in, err
	}
	if in.Sector, err = p.ask("Setor (Geral/Financeiro) [Geral]: "); err != nil {
		return in, err
	}
	if in.Password, err = p.askSecret("Senha: "); err != nil {
		return in, err
	}
	confirm, err := p.askSecret("Confirme a senha: ")
	if err != nil {
		return in, err
	}

	if in.Password != confirm {
		return in, errPasswordMismatch
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return in, errMissingFields
	}
	return in, nil
}

func run(ctx context.Context, p *prompter, register registerFunc) error {
	fmt.Fprintln(p.out, "--- Adicionar Novo Atendente ---")
	in, err := p.collect()
	if err != nil {
		return err
	}
	attendant, err := register(ctx, in)
	if err != nil {
		var de *apperrors.DomainError
		if errors.As(err, &de) && de.HTTPStatus < 500 {
			return errors.New(de.Message)
		}
		return fmt.Errorf("falha ao adicionar atendente: %w", err)
	}
	fmt.Fprintf(p.out, "\n>>> Atendente '%s' adicionado com sucesso! (%s) <<<\n", attendant.Name, attendant.Sector)
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AttendantRepo:     repository.NewAttendantRepository(pg.PoolHandle()),
		PasswordResetRepo: repository.NewPasswordResetRepository(pg.PoolHandle()),
		Logger:            logger,
	})

	if err := run(ctx, newPrompter(os.Stdin, os.Stdout), authService.Register); err != nil {
		fmt.Fprintf(os.Stderr, "\nERRO: %v\n", err)
		pg.Close()
		os.Exit(1)
	}
}
