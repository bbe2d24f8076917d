package http

import (
	"context"
	"fmt"
	"net"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gonotes/internal/notes/config"
	"gonotes/pkg/logger"
)

// Server представляет HTTP сервер заметок.
type Server struct {
	app      *fiber.App
	address  string
	listener net.Listener
}

// NewServer создает сервер для уже настроенного приложения fiber.
func NewServer(cfg *config.HTTPConfig, app *fiber.App) *Server {
	return &Server{
		app:     app,
		address: cfg.GetAddress(),
	}
}

// Start открывает сокет и обслуживает запросы в отдельной горутине.
func (s *Server) Start(ctx context.Context) error {
	log := logger.Log(ctx)

	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener

	log.Info(ctx, "HTTP server started", zap.String("address", listener.Addr().String()))

	go func() {
		if err := s.app.Listener(listener, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
			log.Error(ctx, "failed to serve HTTP", zap.Error(err))
		}
	}()

	return nil
}

// Addr возвращает фактический адрес сервера после Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.address
	}
	return s.listener.Addr().String()
}

// Stop дожидается завершения активных запросов и останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	log := logger.Log(ctx)
	log.Info(ctx, "stopping HTTP server")

	if err := s.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	return nil
}
