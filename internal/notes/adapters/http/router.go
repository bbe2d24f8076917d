// Package http содержит HTTP сервер сервиса заметок.
package http

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gonotes/internal/notes/adapters/http/middleware"
	"gonotes/internal/notes/app/dto"
	"gonotes/internal/notes/config"
	"gonotes/internal/notes/ports/services"
)

// NotesPrefixes - префиксы, под которыми доступны маршруты заметок.
var NotesPrefixes = []string{"/notes", "/api/notes"}

// RouterOptions настраивает маршрутизатор.
type RouterOptions struct {
	CORSOrigins       []string
	RateLimit         config.RateLimitConfig
	ExposeErrorDetail bool
}

// NewApp создает приложение fiber с таймаутами из конфигурации.
func NewApp(cfg *config.HTTPConfig) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "gonotes",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: NewErrorHandler(),
	})
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, notesService services.NoteService, opts RouterOptions) {
	handler := NewHandler(notesService, opts.ExposeErrorDetail)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())
	app.Use(middleware.NewMetricsMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  opts.CORSOrigins,
		AllowMethods:  []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodOptions},
		AllowHeaders:  []string{fiber.HeaderContentType, middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
	}))

	app.Get("/health", Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Один ограничитель на все префиксы, чтобы лимит был общим.
	var rateLimit fiber.Handler
	if opts.RateLimit.Enabled() {
		rateLimit = middleware.NewRateLimitMiddleware(opts.RateLimit.RPS, opts.RateLimit.Burst)
	}

	for _, prefix := range NotesPrefixes {
		notes := app.Group(prefix)
		if rateLimit != nil {
			notes.Use(rateLimit)
		}
		notes.Get("/", handler.ListNotes)
		notes.Get("/:id", handler.GetNote)
		notes.Post("/", handler.CreateNote)
		notes.Put("/:id", handler.UpdateNote)
		notes.Delete("/:id", handler.DeleteNote)
	}

	// Обработчик для несуществующих маршрутов.
	app.Use(func(ctx fiber.Ctx) error {
		return ctx.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: ErrMsgRouteNotFound})
	})
}
