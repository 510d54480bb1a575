package mailer

import "testing"

// Settings must reflect the environment at send time: godotenv only loads
// .env after this package's init has already run.
func TestSettingsReadAtCallTime(t *testing.T) {
	t.Setenv("SENDGRID_API_KEY", "SG.set-after-init")
	t.Setenv("MAIL_FROM_NAME", "Front Desk")
	t.Setenv("MAIL_FROM_EMAIL", "desk@academy.ma")

	cfg := currentSettings()
	if cfg.apiKey != "SG.set-after-init" {
		t.Errorf("apiKey = %q, want the value set after init", cfg.apiKey)
	}
	if cfg.fromName != "Front Desk" || cfg.fromEmail != "desk@academy.ma" {
		t.Errorf("from = %q <%s>, want Front Desk <desk@academy.ma>", cfg.fromName, cfg.fromEmail)
	}
}

func TestSettingsDefaults(t *testing.T) {
	t.Setenv("SENDGRID_API_KEY", "")
	t.Setenv("MAIL_FROM_NAME", "")
	t.Setenv("MAIL_FROM_EMAIL", "")

	cfg := currentSettings()
	if cfg.apiKey != "" {
		t.Errorf("apiKey = %q, want empty", cfg.apiKey)
	}
	if cfg.fromName != "Edufy" || cfg.fromEmail != "noreply@edufy.ma" {
		t.Errorf("defaults = %q <%s>, want Edufy <noreply@edufy.ma>", cfg.fromName, cfg.fromEmail)
	}
}
