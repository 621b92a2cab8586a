// Package email sends transactional mail through the Resend HTTP API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sekhonkennels/kennel-portal/internal/common"
	"github.com/sekhonkennels/kennel-portal/internal/config"
)

const resendEndpoint = "https://api.resend.com/emails"

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	From    string
}

// Sender delivers messages. Handlers treat delivery as best effort.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ResendSender posts messages to the Resend API. With no API key
// configured it logs a warning and drops the message, so local
// environments work without credentials.
type ResendSender struct {
	apiKey     string
	from       string
	adminEmail string
	httpClient *http.Client
	logger     *common.Logger
	endpoint   string
}

func NewResendSender(cfg *config.EmailConfig, logger *common.Logger) *ResendSender {
	return &ResendSender{
		apiKey:     cfg.APIKey,
		from:       cfg.From,
		adminEmail: cfg.AdminEmail,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		endpoint:   resendEndpoint,
	}
}

// AdminEmail is the configured back office recipient.
func (s *ResendSender) AdminEmail() string {
	return s.adminEmail
}

type resendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if s.apiKey == "" {
		s.logger.Warn().
			Str("subject", msg.Subject).
			Msg("Email API key not configured, skipping email")
		return fmt.Errorf("email not configured")
	}

	from := msg.From
	if from == "" {
		from = s.from
	}
	body, err := json.Marshal(resendRequest{
		From:    from,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("send email: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
