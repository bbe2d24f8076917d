package config

import (
	"fmt"
	"time"
)

// HTTPConfig представляет конфигурацию HTTP сервера.
type HTTPConfig struct {
	Host         string          `yaml:"host" env:"NOTES_HTTP_HOST" env-default:"0.0.0.0"`
	Port         int             `yaml:"port" env:"NOTES_HTTP_PORT" env-default:"3000"`
	ReadTimeout  time.Duration   `yaml:"read_timeout" env:"NOTES_HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration   `yaml:"write_timeout" env:"NOTES_HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration   `yaml:"idle_timeout" env:"NOTES_HTTP_IDLE_TIMEOUT" env-default:"60s"`
	BodyLimit    int             `yaml:"body_limit" env:"NOTES_HTTP_BODY_LIMIT" env-default:"1048576"`
	CORSOrigins  []string        `yaml:"cors_origins" env:"NOTES_HTTP_CORS_ORIGINS" env-default:"*" env-separator:","`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig настраивает ограничение частоты запросов к серверу.
// Ограничение выключено, если RPS равен нулю.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" env:"NOTES_HTTP_RATE_LIMIT_RPS" env-default:"0"`
	Burst int     `yaml:"burst" env:"NOTES_HTTP_RATE_LIMIT_BURST" env-default:"20"`
}

// Enabled сообщает, включено ли ограничение частоты.
func (c *RateLimitConfig) Enabled() bool {
	return c.RPS > 0
}

// GetAddress возвращает адрес HTTP сервера.
func (c *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
