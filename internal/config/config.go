package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// SMTPConfig holds the mail transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                         string
	MongoURI                     string
	MongoDatabase                string
	FormCollection               string
	ElementCollection            string
	EntryCollection              string
	FailedNotificationCollection string
	Timeout                      time.Duration
	SiteName                     string
	TemplateDir                  string
	SMTP                         SMTPConfig
	RecaptchaSecret              string
	RecaptchaEndpoint            string
	RecaptchaTimeout             time.Duration
	FlashCookieSecret            []byte
	FlashCookieSecure            bool
	JWTConfigs                   []JWTConfig
	JWTAudience                  string
	AllowedOrigins               []string
	ServerLog                    *log.Logger
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	recaptchaTimeout := 5 * time.Second
	if raw := strings.TrimSpace(os.Getenv("RECAPTCHA_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			recaptchaTimeout = parsed
		}
	}

	smtpTimeout := 15 * time.Second
	if raw := strings.TrimSpace(os.Getenv("SMTP_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			smtpTimeout = parsed
		}
	}

	smtpPort := 587
	if raw := strings.TrimSpace(os.Getenv("SMTP_PORT")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			smtpPort = parsed
		}
	}

	flashSecret := strings.TrimSpace(os.Getenv("FLASH_COOKIE_SECRET"))
	if flashSecret == "" {
		log.Fatal("FLASH_COOKIE_SECRET must be configured")
	}
	flashSecure := strings.EqualFold(strings.TrimSpace(os.Getenv("FLASH_COOKIE_SECURE")), "true")

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("ADMIN_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("ADMIN_JWT_ISSUER", "formloop-auth"),
			Secret: []byte(secret),
		})
	}
	if len(jwtConfigs) == 0 {
		log.Fatal("JWT secrets not configured. Set ADMIN_JWT_SECRET.")
	}
	jwtAudience := strings.TrimSpace(os.Getenv("ADMIN_JWT_AUDIENCE"))

	allowedOrigins := parseList("API_ALLOWED_ORIGINS", []string{"*"})

	cfg := Config{
		Addr:                         envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:                     envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:                envOrDefault("MONGO_DB", "formloop"),
		FormCollection:               envOrDefault("FORM_COLLECTION", "forms"),
		ElementCollection:            envOrDefault("ELEMENT_COLLECTION", "elements"),
		EntryCollection:              envOrDefault("ENTRY_COLLECTION", "form_entries"),
		FailedNotificationCollection: envOrDefault("FAILED_NOTIFICATION_COLLECTION", "failed_notifications"),
		Timeout:                      timeout,
		SiteName:                     envOrDefault("SITE_NAME", "Formloop"),
		TemplateDir:                  envOrDefault("TEMPLATE_DIR", "templates"),
		SMTP: SMTPConfig{
			Host:     strings.TrimSpace(os.Getenv("SMTP_HOST")),
			Port:     smtpPort,
			Username: strings.TrimSpace(os.Getenv("SMTP_USERNAME")),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     strings.TrimSpace(os.Getenv("SMTP_FROM")),
			Timeout:  smtpTimeout,
		},
		RecaptchaSecret:   strings.TrimSpace(os.Getenv("RECAPTCHA_SECRET")),
		RecaptchaEndpoint: strings.TrimSpace(os.Getenv("RECAPTCHA_ENDPOINT")),
		RecaptchaTimeout:  recaptchaTimeout,
		FlashCookieSecret: []byte(flashSecret),
		FlashCookieSecure: flashSecure,
		JWTConfigs:        jwtConfigs,
		JWTAudience:       jwtAudience,
		AllowedOrigins:    allowedOrigins,
		ServerLog:         log.New(os.Stdout, "[formloop-api] ", log.LstdFlags|log.Lshortfile),
	}

	cfg.ServerLog.Printf("loaded config: templateDir=%q smtpHost=%q recaptchaEnabled=%t", cfg.TemplateDir, cfg.SMTP.Host, cfg.RecaptchaSecret != "")

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
