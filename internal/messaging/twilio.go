package messaging

import (
	"context"
	"errors"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/spec-kit/attendant-desk/internal/config"
	"github.com/spec-kit/attendant-desk/internal/domain"
)

// TwilioSender sends WhatsApp messages through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
	logger *zap.Logger
}

// NewTwilioSender builds a sender from the account credentials.
func NewTwilioSender(cfg config.TwilioConfig, logger *zap.Logger) (*TwilioSender, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.PhoneNumber == "" {
		return nil, errors.New("twilio credentials not configured")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSender{
		client: client,
		from:   domain.WhatsAppAddress(cfg.PhoneNumber),
		logger: logger,
	}, nil
}

// Send creates a message resource. The SDK call does not take a context, so
// cancellation is only honoured before the request is issued.
func (s *TwilioSender) Send(ctx context.Context, msg OutboundMessage) (string, error) {
	if err := validate(msg); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(domain.WhatsAppAddress(msg.To))
	if msg.Body != "" {
		params.SetBody(msg.Body)
	}
	if len(msg.MediaURLs) > 0 {
		params.SetMediaUrl(msg.MediaURLs)
	}

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		s.logger.Warn("twilio send failed",
			zap.String("to", domain.WhatsAppAddress(msg.To)),
			zap.Int("media", len(msg.MediaURLs)),
			zap.Error(err))
		return "", err
	}

	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	s.logger.Debug("twilio message created", zap.String("sid", sid), zap.String("to", domain.WhatsAppAddress(msg.To)))
	return sid, nil
}
