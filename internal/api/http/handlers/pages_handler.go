package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendant-desk/internal/api/dto"
	"github.com/spec-kit/attendant-desk/internal/auth"
	"github.com/spec-kit/attendant-desk/internal/service"
	"github.com/spec-kit/attendant-desk/internal/web/flash"
	"github.com/spec-kit/attendant-desk/internal/web/views"
	apperrors "github.com/spec-kit/attendant-desk/pkg/util/errorutil"
)

// PagesHandler serves the server-rendered pages.
type PagesHandler struct {
	auth       *service.AuthService
	middleware *auth.AuthMiddleware
	cookie     SessionCookie
}

// NewPagesHandler constructs handler.
func NewPagesHandler(authService *service.AuthService, middleware *auth.AuthMiddleware, cookie SessionCookie) *PagesHandler {
	return &PagesHandler{auth: authService, middleware: middleware, cookie: cookie}
}

// LoginRequired is the RequirePage denial handler.
func (h *PagesHandler) LoginRequired(c *fiber.Ctx) error {
	return redirectWithNotice(c, "/login", flash.KindInfo, "Você precisa estar logado para acessar esta página.")
}

// LoginForm handles GET /login.
func (h *PagesHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, http.StatusOK, views.LoginPage(pageState(c), ""))
}

// Login handles POST /login.
func (h *PagesHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return render(c, http.StatusBadRequest, views.LoginPage(withNotice(views.Page{}, flash.KindDanger, service.MsgInvalidCredentials), ""))
	}
	_, token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		status := apperrors.ToDomainError(err).HTTPStatus
		return render(c, status, views.LoginPage(withNotice(views.Page{}, flash.KindDanger, errorMessage(err)), req.Email))
	}
	h.cookie.set(c, token, exp)
	return c.Redirect("/", fiber.StatusSeeOther)
}

// RegisterForm handles GET /register.
func (h *PagesHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, http.StatusOK, views.RegisterPage(pageState(c), views.RegisterForm{}))
}

// Register handles POST /register.
func (h *PagesHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return render(c, http.StatusBadRequest, views.RegisterPage(withNotice(views.Page{}, flash.KindDanger, "Dados inválidos."), views.RegisterForm{}))
	}
	form := views.RegisterForm{Name: req.Name, Email: req.Email, Sector: req.Sector}
	_, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Sector: req.Sector,
	})
	if err != nil {
		de := apperrors.ToDomainError(err)
		kind := flash.KindDanger
		if de.HTTPStatus == http.StatusConflict {
			kind = flash.KindWarning
		}
		return render(c, de.HTTPStatus, views.RegisterPage(withNotice(views.Page{}, kind, de.Message), form))
	}
	return redirectWithNotice(c, "/login", flash.KindSuccess, "Cadastro realizado com sucesso! Faça login para continuar.")
}

// Logout handles GET /logout.
func (h *PagesHandler) Logout(c *fiber.Ctx) error {
	if principal, err := h.middleware.Authenticate(c); err == nil {
		if err := h.auth.Logout(c.UserContext(), principal.Claims); err != nil {
			return err
		}
	}
	h.cookie.clear(c)
	return redirectWithNotice(c, "/login", flash.KindInfo, "Você foi desconectado.")
}

// ForgotPasswordForm handles GET /forgot_password.
func (h *PagesHandler) ForgotPasswordForm(c *fiber.Ctx) error {
	return render(c, http.StatusOK, views.ForgotPasswordPage(pageState(c)))
}

// ForgotPassword handles POST /forgot_password.
func (h *PagesHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	_ = c.BodyParser(&req)
	if err := h.auth.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		de := apperrors.ToDomainError(err)
		if de.HTTPStatus >= http.StatusInternalServerError {
			return err
		}
		return render(c, de.HTTPStatus, views.ForgotPasswordPage(withNotice(views.Page{}, flash.KindDanger, de.Message)))
	}
	return redirectWithNotice(c, "/forgot_password", flash.KindInfo, "Se o e-mail estiver cadastrado, um link de redefinição foi enviado.")
}

// ResetPasswordForm handles GET /reset_password/:token.
func (h *PagesHandler) ResetPasswordForm(c *fiber.Ctx) error {
	token := c.Params("token")
	if _, err := h.auth.ValidateResetToken(c.UserContext(), token); err != nil {
		return h.invalidResetLink(c, err)
	}
	return render(c, http.StatusOK, views.ResetPasswordPage(pageState(c), token))
}

// ResetPassword handles POST /reset_password/:token.
func (h *PagesHandler) ResetPassword(c *fiber.Ctx) error {
	token := c.Params("token")
	if _, err := h.auth.ValidateResetToken(c.UserContext(), token); err != nil {
		return h.invalidResetLink(c, err)
	}
	var req dto.ResetPasswordRequest
	_ = c.BodyParser(&req)
	if err := h.auth.ResetPassword(c.UserContext(), token, req.NewPassword, req.ConfirmPassword); err != nil {
		de := apperrors.ToDomainError(err)
		if de.Message == service.MsgInvalidResetLink {
			return h.invalidResetLink(c, err)
		}
		if de.HTTPStatus >= http.StatusInternalServerError {
			return err
		}
		return render(c, de.HTTPStatus, views.ResetPasswordPage(withNotice(views.Page{}, flash.KindDanger, de.Message), token))
	}
	return redirectWithNotice(c, "/login", flash.KindSuccess, "Sua senha foi redefinida com sucesso! Faça login.")
}

func (h *PagesHandler) invalidResetLink(c *fiber.Ctx, err error) error {
	var de *apperrors.DomainError
	if errors.As(err, &de) && de.HTTPStatus >= http.StatusInternalServerError {
		return err
	}
	return redirectWithNotice(c, "/login", flash.KindDanger, service.MsgInvalidResetLink)
}

// Dashboard handles GET /.
func (h *PagesHandler) Dashboard(c *fiber.Ctx) error {
	attendant, err := currentAttendant(c)
	if err != nil {
		return h.LoginRequired(c)
	}
	return render(c, http.StatusOK, views.DashboardPage(pageState(c), views.Dashboard{
		Name:   attendant.Name,
		Sector: string(attendant.Sector),
	}))
}
