// Package mailer delivers OTP codes through an HTTP mail API.
// Delivery is a notify-only side channel: callers decide whether a send
// failure is fatal to the surrounding flow.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/egyw/foodify-auth/internal/config"
	"github.com/egyw/foodify-auth/internal/logger"
	"github.com/go-resty/resty/v2"
)

// sendRequest is the mail API payload (Resend-compatible).
type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID string `json:"id"`
}

// Mailer posts OTP mails to the configured provider.
type Mailer struct {
	client *resty.Client
	from   string
	logger *logger.Logger
}

// NewMailer constructs a [Mailer] from the mail configuration.
func NewMailer(cfg config.Mailer, logger *logger.Logger) *Mailer {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetTimeout(10 * time.Second)

	return &Mailer{
		client: client,
		from:   cfg.From,
		logger: logger,
	}
}

// SendOTPEmail delivers a one-time code to the given address, mentioning
// how long the code stays valid. Returns an error on any transport or
// provider failure; the caller applies the delivery-failure policy.
func (m *Mailer) SendOTPEmail(ctx context.Context, toEmail, otp string, ttl time.Duration) error {
	log := logger.FromContext(ctx)

	body := sendRequest{
		From:    m.from,
		To:      []string{toEmail},
		Subject: "Your Foodify verification code",
		HTML: fmt.Sprintf(`<div style="font-family: sans-serif; text-align: center;">
  <h2>Login verification</h2>
  <p>Use the code below to finish signing in. It is valid for %d minutes.</p>
  <h1 style="letter-spacing: 5px; background-color: #f0f0f0; padding: 20px;">%s</h1>
  <p>If you did not request this code, please ignore this email.</p>
</div>`, int(ttl.Minutes()), otp),
	}

	var result sendResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/emails")
	if err != nil {
		log.Err(err).Str("to", toEmail).Msg("error sending OTP email")
		return fmt.Errorf("error sending OTP email: %w", err)
	}

	if resp.IsError() {
		log.Error().Str("to", toEmail).Int("status", resp.StatusCode()).Msg("mail provider rejected OTP email")
		return fmt.Errorf("mail provider rejected OTP email: status %d", resp.StatusCode())
	}

	log.Debug().Str("to", toEmail).Str("mail_id", result.ID).Msg("OTP email sent")
	return nil
}
