// Package config предоставляет функциональность для загрузки конфигурации
// из файла или переменных окружения.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"gonotes/pkg/logger"
)

const (
	msgLoadingConfiguration    = "loading configuration"
	msgConfigurationLoaded     = "configuration loaded successfully"
	msgFailedLoadConfiguration = "failed to load configuration"
	msgConfigFileMissing       = "configuration file not found, using environment"

	errFailedLoadConfiguration = "failed to load configuration"

	attrService = "service"
	attrPath    = "path"
)

// Load заполняет структуру T из файла path (yaml, json, toml или env),
// если он задан и существует, иначе только из переменных окружения.
// Переменные окружения имеют приоритет над значениями из файла.
func Load[T any](ctx context.Context, serviceName, path string) (*T, error) {
	log := logger.Log(ctx)

	log.Info(ctx, msgLoadingConfiguration,
		zap.String(attrService, serviceName),
		zap.String(attrPath, path))

	var cfg T
	var err error

	switch {
	case path == "":
		err = cleanenv.ReadEnv(&cfg)
	default:
		if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
			log.Warn(ctx, msgConfigFileMissing, zap.String(attrPath, path))
			err = cleanenv.ReadEnv(&cfg)
		} else {
			err = cleanenv.ReadConfig(path, &cfg)
		}
	}

	if err != nil {
		log.Error(ctx, msgFailedLoadConfiguration,
			zap.String(attrService, serviceName),
			zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, err)
	}

	log.Info(ctx, msgConfigurationLoaded, zap.String(attrService, serviceName))

	return &cfg, nil
}
