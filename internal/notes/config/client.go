package config

import (
	"context"
	"fmt"
	"time"

	pkgconfig "gonotes/pkg/config"
)

// ClientPathEnv - переменная окружения с путем к файлу конфигурации клиента.
const ClientPathEnv = "NOTESCTL_CONFIG_PATH"

// ClientConfig содержит настройки клиента командной строки.
type ClientConfig struct {
	BaseURL  string        `yaml:"base_url" env:"NOTESCTL_BASE_URL" env-default:"http://localhost:3000/api"`
	Timeout  time.Duration `yaml:"timeout" env:"NOTESCTL_TIMEOUT" env-default:"10s"`
	PageSize int           `yaml:"page_size" env:"NOTESCTL_PAGE_SIZE" env-default:"10"`
	LogLevel string        `yaml:"log_level" env:"NOTESCTL_LOGGER_LEVEL" env-default:"warn"`
}

// LoadClient загружает конфигурацию клиента.
func LoadClient(ctx context.Context, path string) (*ClientConfig, error) {
	cfg, err := pkgconfig.Load[ClientConfig](ctx, "notesctl", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}
	return cfg, nil
}
