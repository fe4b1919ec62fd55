package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/attendant-desk/internal/events"
)

// publishEvent hands event to the dispatcher. Handler failures are logged;
// the operation that raised the event has already succeeded.
func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil && logger != nil {
		logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

func preview(body string) string {
	const max = 80
	r := []rune(body)
	if len(r) <= max {
		return body
	}
	return string(r[:max]) + "…"
}
