package config

import (
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	HTTPTimeout time.Duration
	CORSOrigins []string

	MetaAccessToken string
	MetaAdAccountID string
	MetaAPIBase     string

	KlaviyoAPIKey   string
	KlaviyoListID   string
	KlaviyoAPIBase  string
	KlaviyoRevision string

	LandingPagesBaseURL string
}

// FromEnv reads the process environment, loading a .env file first when one exists.
func FromEnv() Config {
	_ = godotenv.Load()

	to := 30 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil && d >= 0 {
			to = d
		}
	}
	return Config{
		Port:        envOr("PORT", "8080"),
		Env:         envOr("ENV", "development"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		HTTPTimeout: to,
		CORSOrigins: csv(envOr("CORS_ALLOWED_ORIGINS", "*")),

		MetaAccessToken: os.Getenv("META_ACCESS_TOKEN"),
		MetaAdAccountID: os.Getenv("META_AD_ACCOUNT_ID"),
		MetaAPIBase:     envOr("META_API_BASE", "https://graph.facebook.com/v21.0"),

		KlaviyoAPIKey:   os.Getenv("KLAVIYO_API_KEY"),
		KlaviyoListID:   os.Getenv("KLAVIYO_LIST_ID"),
		KlaviyoAPIBase:  envOr("KLAVIYO_API_BASE", "https://a.klaviyo.com/api"),
		KlaviyoRevision: envOr("KLAVIYO_REVISION", "2024-10-15"),

		LandingPagesBaseURL: envOr("LANDING_PAGES_BASE_URL", "https://pages.dailygrowthmap.com"),
	}
}

// Missing returns the names of required credentials that are not set.
// Nothing refuses to start because of them; dependent calls fail upstream.
func (c Config) Missing() []string {
	var out []string
	for k, v := range map[string]string{
		"META_ACCESS_TOKEN":  c.MetaAccessToken,
		"META_AD_ACCOUNT_ID": c.MetaAdAccountID,
		"KLAVIYO_API_KEY":    c.KlaviyoAPIKey,
		"KLAVIYO_LIST_ID":    c.KlaviyoListID,
	} {
		if strings.TrimSpace(v) == "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csv(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
