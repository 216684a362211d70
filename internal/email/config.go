package email

import (
	"time"

	"findtern_backend/internal/config"
)

// SMTPConfig содержит конфигурацию SMTP сервера
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *SMTPConfig {
	return &SMTPConfig{
		Host:    "localhost",
		Port:    587,
		Timeout: 30 * time.Second,
	}
}

// FromAppConfig собирает SMTPConfig из секции email
func FromAppConfig(cfg *config.Config) *SMTPConfig {
	c := DefaultConfig()
	if cfg.Email.SMTPHost != "" {
		c.Host = cfg.Email.SMTPHost
	}
	if cfg.Email.SMTPPort != 0 {
		c.Port = cfg.Email.SMTPPort
	}
	c.Username = cfg.Email.SMTPUsername
	c.Password = cfg.Email.SMTPPassword
	c.FromEmail = cfg.Email.FromEmail
	c.FromName = cfg.Email.FromName
	return c
}
