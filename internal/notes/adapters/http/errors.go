package http

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gonotes/internal/notes/adapters/http/middleware"
	"gonotes/internal/notes/app/dto"
	"gonotes/internal/notes/domain/entities"
	"gonotes/pkg/logger"
)

// Сообщения об ошибках в ответах.
const (
	ErrMsgInvalidNoteID       = "Invalid note ID"
	ErrMsgInvalidPage         = "Page must be a positive integer"
	ErrMsgInvalidLimit        = "Limit must be a positive integer"
	ErrMsgInvalidInput        = "Invalid input"
	ErrMsgInvalidRequestBody  = "Invalid JSON body"
	ErrMsgNoteNotFound        = "Note not found"
	ErrMsgConflict            = "A note with this title already exists"
	ErrMsgRequiredFieldsEmpty = "Required fields are missing"
	ErrMsgRouteNotFound       = "Route not found"
	ErrMsgGenericStorage      = "Internal server error"
)

// errorWriter переводит ошибки домена в HTTP ответы.
type errorWriter struct {
	exposeDetail bool
}

func (w errorWriter) write(ctx fiber.Ctx, err error) error {
	var verr *entities.ValidationError

	switch {
	case errors.As(err, &verr):
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{Errors: verr.Errors})
	case errors.Is(err, entities.ErrValidation):
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: ErrMsgRequiredFieldsEmpty})
	case errors.Is(err, entities.ErrInvalidNoteID):
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: ErrMsgInvalidNoteID})
	case errors.Is(err, entities.ErrInvalidPage):
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: ErrMsgInvalidPage})
	case errors.Is(err, entities.ErrInvalidLimit):
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: ErrMsgInvalidLimit})
	case errors.Is(err, entities.ErrInvalidInput):
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: ErrMsgInvalidInput})
	case errors.Is(err, entities.ErrNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: ErrMsgNoteNotFound})
	case errors.Is(err, entities.ErrConflict):
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: ErrMsgConflict})
	}

	requestCtx := middleware.RequestContext(ctx)
	logger.Log(requestCtx).Error(requestCtx, "unhandled storage error", zap.Error(err))

	message := ErrMsgGenericStorage
	if w.exposeDetail {
		message = err.Error()
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error:   dto.MsgStorageError,
		Message: message,
	})
}

// NewErrorHandler возвращает обработчик ошибок fiber для ошибок, не обработанных в хендлерах.
func NewErrorHandler() fiber.ErrorHandler {
	return func(ctx fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := dto.MsgInternal

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		requestCtx := middleware.RequestContext(ctx)
		logger.Log(requestCtx).Warn(requestCtx, "request error",
			zap.Int("status", code),
			zap.Error(err))

		return ctx.Status(code).JSON(dto.ErrorResponse{Error: message})
	}
}
