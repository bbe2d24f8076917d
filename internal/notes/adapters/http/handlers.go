package http

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gonotes/internal/notes/adapters/http/middleware"
	"gonotes/internal/notes/app/dto"
	"gonotes/internal/notes/domain/entities"
	"gonotes/internal/notes/ports/services"
	"gonotes/pkg/logger"
)

// Константы сообщений для логирования.
const (
	LogHandlerCreateNote = "handling create note request"
	LogHandlerGetNote    = "handling get note request"
	LogHandlerListNotes  = "handling list notes request"
	LogHandlerUpdateNote = "handling update note request"
	LogHandlerDeleteNote = "handling delete note request"

	errSendResponse = "error sending response"
)

// Handler обработчик HTTP-запросов для работы с заметками.
type Handler struct {
	notes  services.NoteService
	errors errorWriter
}

// NewHandler создает новый экземпляр обработчика заметок.
// exposeErrorDetail включает текст ошибки хранилища в ответы 500.
func NewHandler(notes services.NoteService, exposeErrorDetail bool) *Handler {
	return &Handler{
		notes:  notes,
		errors: errorWriter{exposeDetail: exposeErrorDetail},
	}
}

// ListNotes обрабатывает запрос списка заметок с фильтрами и пагинацией.
func (h *Handler) ListNotes(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.ListNotes"))
	log.Debug(requestCtx, LogHandlerListNotes)

	page, err := h.notes.ListNotes(requestCtx, entities.ListParams{
		Page:     ctx.Query("page"),
		Limit:    ctx.Query("limit"),
		Category: ctx.Query("category"),
		Search:   ctx.Query("search"),
		Favorite: ctx.Query("favorite"),
	})
	if err != nil {
		return h.errors.write(ctx, err)
	}

	if err := ctx.JSON(dto.NewListNotesResponse(page)); err != nil {
		return fmt.Errorf("%s: %w", errSendResponse, err)
	}
	return nil
}

// GetNote обрабатывает запрос на получение заметки по ID.
func (h *Handler) GetNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.GetNote"))
	log.Debug(requestCtx, LogHandlerGetNote, zap.String("noteID", ctx.Params("id")))

	note, err := h.notes.GetNote(requestCtx, ctx.Params("id"))
	if err != nil {
		return h.errors.write(ctx, err)
	}

	if err := ctx.JSON(note); err != nil {
		return fmt.Errorf("%s: %w", errSendResponse, err)
	}
	return nil
}

// CreateNote обрабатывает запрос на создание новой заметки.
func (h *Handler) CreateNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.CreateNote"))
	log.Debug(requestCtx, LogHandlerCreateNote)

	var req dto.NoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: ErrMsgInvalidRequestBody})
	}

	note, err := h.notes.CreateNote(requestCtx, req)
	if err != nil {
		return h.errors.write(ctx, err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(note); err != nil {
		return fmt.Errorf("%s: %w", errSendResponse, err)
	}
	return nil
}

// UpdateNote обрабатывает запрос на полное обновление заметки.
func (h *Handler) UpdateNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.UpdateNote"))
	log.Debug(requestCtx, LogHandlerUpdateNote, zap.String("noteID", ctx.Params("id")))

	if _, err := entities.ParseNoteID(ctx.Params("id")); err != nil {
		return h.errors.write(ctx, err)
	}

	var req dto.NoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: ErrMsgInvalidRequestBody})
	}

	note, err := h.notes.UpdateNote(requestCtx, ctx.Params("id"), req)
	if err != nil {
		return h.errors.write(ctx, err)
	}

	if err := ctx.JSON(note); err != nil {
		return fmt.Errorf("%s: %w", errSendResponse, err)
	}
	return nil
}

// DeleteNote обрабатывает запрос на удаление заметки.
func (h *Handler) DeleteNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.DeleteNote"))
	log.Debug(requestCtx, LogHandlerDeleteNote, zap.String("noteID", ctx.Params("id")))

	note, err := h.notes.DeleteNote(requestCtx, ctx.Params("id"))
	if err != nil {
		return h.errors.write(ctx, err)
	}

	if err := ctx.JSON(dto.DeleteNoteResponse{Message: dto.MsgNoteDeleted, Note: note}); err != nil {
		return fmt.Errorf("%s: %w", errSendResponse, err)
	}
	return nil
}

// Health отвечает на проверку работоспособности.
func Health(ctx fiber.Ctx) error {
	return ctx.JSON(dto.HealthResponse{Status: dto.StatusOK, Message: dto.MsgServerIsUp})
}
