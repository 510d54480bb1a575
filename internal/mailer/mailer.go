// edufy-erp/internal/mailer/mailer.go

// Package mailer sends transactional mail through SendGrid. Without an API
// key every send becomes a logged no-op, so local and CI environments work
// without credentials (same pattern as the optional Redis cache).
package mailer

import (
	"log/slog"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type settings struct {
	apiKey    string
	fromName  string
	fromEmail string
}

// currentSettings reads the environment on every call rather than at
// package init, so values loaded from .env by godotenv in main are seen.
func currentSettings() settings {
	return settings{
		apiKey:    os.Getenv("SENDGRID_API_KEY"),
		fromName:  envOr("MAIL_FROM_NAME", "Edufy"),
		fromEmail: envOr("MAIL_FROM_EMAIL", "noreply@edufy.ma"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Send delivers a plain-text mail. Failures are logged, never returned:
// mail is always a best-effort side channel in this app.
func Send(toName, toEmail, subject, body string) {
	cfg := currentSettings()
	if cfg.apiKey == "" {
		slog.Warn("SENDGRID_API_KEY not set, skipping mail", "to", toEmail, "subject", subject)
		return
	}

	from := mail.NewEmail(cfg.fromName, cfg.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	client := sendgrid.NewSendClient(cfg.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		slog.Error("Failed to send mail", "error", err, "to", toEmail)
		return
	}
	if resp.StatusCode >= 400 {
		slog.Error("Mail provider rejected message", "status", resp.StatusCode, "to", toEmail)
		return
	}
	slog.Info("Mail sent", "to", toEmail, "subject", subject)
}
