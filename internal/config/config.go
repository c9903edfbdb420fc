package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// PlaceholderModelKey is the value shipped in the example .env. It selects
// fallback-only mode the same way an empty key does.
const PlaceholderModelKey = "your_openrouter_api_key_here"

type Config struct {
	Port     int
	LogLevel string

	DatabaseURL string

	ModelAPIKey     string
	ModelBaseURL    string
	Model           string
	ModelReferer    string
	ModelTitle      string
	ModelTimeout    time.Duration
	ModelRatePerMin float64

	MailUser     string
	MailPassword string
	MailFromName string
	SMTPHost     string
	SMTPPort     int

	NatsURL   string
	NatsToken string

	SlackBotToken string
	SlackChannel  string

	CORSOrigins []string

	BackgroundWorkers int
	BackgroundQueue   int
}

func Load() Config {
	return Config{
		Port:              envInt("PORT", 5000),
		LogLevel:          envStr("LOG_LEVEL", "info"),
		DatabaseURL:       envStr("DATABASE_URL", "sqlite://folio.db"),
		ModelAPIKey:       envStr("OPENROUTER_API_KEY", ""),
		ModelBaseURL:      envStr("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		Model:             envStr("OPENROUTER_MODEL", "upstage/solar-pro-3:free"),
		ModelReferer:      envStr("OPENROUTER_REFERER", "http://localhost:5173"),
		ModelTitle:        envStr("OPENROUTER_TITLE", "Zeeshan Portfolio Chatbot"),
		ModelTimeout:      envDuration("MODEL_TIMEOUT", 20*time.Second),
		ModelRatePerMin:   envFloat("MODEL_RATE_PER_MIN", 30),
		MailUser:          envStr("EMAIL_USER", ""),
		MailPassword:      envStr("EMAIL_APP_PASSWORD", ""),
		MailFromName:      envStr("EMAIL_FROM_NAME", "MD Zeeshan"),
		SMTPHost:          envStr("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:          envInt("SMTP_PORT", 587),
		NatsURL:           envStr("NATS_URL", ""),
		NatsToken:         envStr("NATS_TOKEN", ""),
		SlackBotToken:     envStr("SLACK_BOT_TOKEN", ""),
		SlackChannel:      envStr("SLACK_CONTACT_CHANNEL", ""),
		CORSOrigins:       envList("CORS_ORIGINS", []string{"*"}),
		BackgroundWorkers: envInt("BACKGROUND_WORKERS", 4),
		BackgroundQueue:   envInt("BACKGROUND_QUEUE", 64),
	}
}

// ModelConfigured reports whether a usable model credential is present.
func (c Config) ModelConfigured() bool {
	key := strings.TrimSpace(c.ModelAPIKey)
	return key != "" && key != PlaceholderModelKey
}

// MailConfigured reports whether acknowledgment mail can be sent.
func (c Config) MailConfigured() bool {
	return c.MailUser != "" && c.MailPassword != ""
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.SlackChannel != ""
}

func envStr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return fallback
}

// envDuration accepts Go duration strings ("15s") or a bare number of seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
