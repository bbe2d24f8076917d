package config

import (
	"strings"

	"gonotes/pkg/logger"
)

// LoggingConfig содержит настройки логирования.
// Mode также определяет, попадают ли подробности ошибок хранилища в ответы API.
type LoggingConfig struct {
	Level string `yaml:"level" env:"NOTES_LOGGER_LEVEL" env-default:"info"`
	Mode  string `yaml:"mode" env:"NOTES_LOGGER_MODE" env-default:"development"`
}

// GetEnvironment переводит режим в окружение logger. Любой режим, кроме production, считается разработкой.
func (l *LoggingConfig) GetEnvironment() logger.Environment {
	if strings.EqualFold(strings.TrimSpace(l.Mode), string(logger.Production)) {
		return logger.Production
	}
	return logger.Development
}

// ExposeErrorDetail сообщает, можно ли отдавать клиенту текст ошибки хранилища.
func (l *LoggingConfig) ExposeErrorDetail() bool {
	return l.GetEnvironment() == logger.Development
}
