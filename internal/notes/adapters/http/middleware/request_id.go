// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"gonotes/pkg/logger"
)

// Заголовок и ключ Locals для контекста запроса.
const (
	HeaderRequestID = "X-Request-ID"
	LocalsContext   = "requestContext"
)

// NewRequestIDMiddleware присваивает запросу идентификатор (из X-Request-ID или новый)
// и сохраняет контекст с этим идентификатором в Locals.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := logger.NewRequestIDContext(ctx.Context(), ctx.Get(HeaderRequestID))

		requestID, _ := logger.GetRequestID(requestCtx)
		ctx.Set(HeaderRequestID, requestID)
		ctx.Locals(LocalsContext, requestCtx)

		return ctx.Next()
	}
}

// RequestContext возвращает контекст запроса с идентификатором запроса.
func RequestContext(ctx fiber.Ctx) context.Context {
	if requestCtx, ok := ctx.Locals(LocalsContext).(context.Context); ok {
		return requestCtx
	}
	return ctx.Context()
}
