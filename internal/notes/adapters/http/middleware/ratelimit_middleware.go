package middleware

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"gonotes/internal/notes/app/dto"
	"gonotes/pkg/logger"
)

// MsgTooManyRequests - тело ответа при превышении лимита.
const MsgTooManyRequests = "Too many requests"

// NewRateLimitMiddleware ограничивает частоту запросов ко всему серверу.
// rps - запросов в секунду, burst - допустимый кратковременный всплеск.
func NewRateLimitMiddleware(rps float64, burst int) fiber.Handler {
	if burst <= 0 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(ctx fiber.Ctx) error {
		if !limiter.Allow() {
			requestCtx := RequestContext(ctx)
			logger.Log(requestCtx).Warn(requestCtx, "rate limit exceeded",
				zap.String("path", ctx.Path()),
				zap.String("ip", ctx.IP()))
			RateLimitedTotal.Inc()

			return ctx.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error: MsgTooManyRequests,
			})
		}
		return ctx.Next()
	}
}
