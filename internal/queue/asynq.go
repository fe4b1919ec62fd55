package queue

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/spec-kit/attendant-desk/internal/config"
)

// Client enqueues tasks onto Redis.
type Client struct {
	client   *asynq.Client
	maxRetry int
}

// NewClient constructs a client from redis connection options.
func NewClient(opt asynq.RedisClientOpt, cfg config.QueueConfig) *Client {
	return &Client{client: asynq.NewClient(opt), maxRetry: cfg.MaxRetry}
}

// EnqueuePasswordReset schedules a reset email on the mail queue.
func (c *Client) EnqueuePasswordReset(ctx context.Context, p PasswordResetEmail) (string, error) {
	task, err := NewPasswordResetEmailTask(p)
	if err != nil {
		return "", err
	}
	opts := []asynq.Option{asynq.Queue(QueueMail)}
	if c.maxRetry > 0 {
		opts = append(opts, asynq.MaxRetry(c.maxRetry))
	}
	info, err := c.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

// Close releases the Redis connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Server runs task handlers.
type Server struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewServer builds a server consuming the configured queue weights.
func NewServer(opt asynq.RedisClientOpt, cfg config.QueueConfig, logger *zap.Logger) *Server {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	queues := parseQueueWeights(cfg.Queues)
	if len(queues) == 0 {
		queues = map[string]int{"default": 1, QueueMail: 2}
	}
	if _, ok := queues[QueueMail]; !ok {
		queues[QueueMail] = 1
	}

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
		Logger:      logger.Sugar(),
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			logger.Warn("task failed",
				zap.String("type", task.Type()),
				zap.Int("retry", retried),
				zap.Int("max_retry", maxRetry),
				zap.Error(err))
		}),
	})
	return &Server{server: srv, mux: asynq.NewServeMux()}
}

// Register binds a handler to a task type.
func (s *Server) Register(taskType string, h asynq.HandlerFunc) {
	s.mux.HandleFunc(taskType, h)
}

// Run starts processing and blocks until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.server.Start(s.mux); err != nil {
		if errors.Is(err, asynq.ErrServerClosed) {
			return nil
		}
		return err
	}
	<-ctx.Done()
	s.server.Shutdown()
	return nil
}

// parseQueueWeights parses strings like "mail=2,default=1" into a map.
func parseQueueWeights(s string) map[string]int {
	res := make(map[string]int)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		name := strings.TrimSpace(kv[0])
		if name == "" {
			continue
		}
		w := 1
		if len(kv) == 2 {
			if i, err := strconv.Atoi(strings.TrimSpace(kv[1])); err == nil && i > 0 {
				w = i
			}
		}
		res[name] = w
	}
	return res
}
