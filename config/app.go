// edufy-erp/config/app.go
package config

import (
	"log/slog"
	"os"
	"strconv"
)

// JwtKey signs the auth tokens. Override JWT_SECRET in every real deploy.
var JwtKey = []byte(envOr("JWT_SECRET", "edufy-dev-secret"))

// DefaultOrgID is the tenant that legacy rows and unauthenticated writes
// (public booking form) belong to.
var DefaultOrgID uint = 1

// AccountEmailDomain is the fallback domain for auto-provisioned logins
// when the organization has no domain configured.
var AccountEmailDomain = envOr("ACCOUNT_EMAIL_DOMAIN", "edufy.ma")

// LoadAppSettings reads the optional app-level environment overrides.
// Called from main after godotenv has loaded the .env file.
func LoadAppSettings() {
	if v := os.Getenv("DEFAULT_ORG_ID"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			slog.Warn("Invalid DEFAULT_ORG_ID, keeping default", "value", v)
		} else {
			DefaultOrgID = uint(id)
		}
	}
	JwtKey = []byte(envOr("JWT_SECRET", "edufy-dev-secret"))
	AccountEmailDomain = envOr("ACCOUNT_EMAIL_DOMAIN", "edufy.ma")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
