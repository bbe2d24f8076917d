// Package app implements application business logic for the notes service.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"gonotes/internal/notes/domain/entities"
	"gonotes/internal/notes/ports/cache"
	"gonotes/internal/notes/ports/repositories"
	"gonotes/pkg/logger"
)

// Константы сообщений.
const (
	errListNotes  = "failed to list notes"
	errGetNote    = "failed to get note"
	errCreateNote = "failed to create note"
	errUpdateNote = "failed to update note"
	errDeleteNote = "failed to delete note"

	logCacheReadFailed       = "page cache read failed, using store"
	logCacheWriteFailed      = "page cache write failed"
	logCacheInvalidateFailed = "page cache invalidation failed"
)

// domainKinds - ошибки, которые слой приложения передает дальше без изменений.
var domainKinds = []error{
	entities.ErrInvalidInput,
	entities.ErrValidation,
	entities.ErrNotFound,
	entities.ErrConflict,
	entities.ErrStorage,
}

// NoteUseCase представляет собой бизнес-логику работы с заметками.
type NoteUseCase struct {
	noteRepo  repositories.NoteRepository
	listCache cache.ListCache
}

// Option настраивает NoteUseCase.
type Option func(*NoteUseCase)

// WithListCache включает кэширование страниц списка.
func WithListCache(c cache.ListCache) Option {
	return func(uc *NoteUseCase) {
		if c != nil {
			uc.listCache = c
		}
	}
}

// NewNoteUseCase создает новый экземпляр NoteUseCase.
func NewNoteUseCase(noteRepo repositories.NoteRepository, opts ...Option) *NoteUseCase {
	uc := &NoteUseCase{
		noteRepo:  noteRepo,
		listCache: cache.NopListCache{},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ListNotes возвращает страницу заметок, отфильтрованную по сырым параметрам запроса.
func (uc *NoteUseCase) ListNotes(ctx context.Context, params entities.ListParams) (*entities.NotePage, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.ListNotes"))

	query, err := entities.ParseListQuery(params)
	if err != nil {
		log.Debug(ctx, "invalid list parameters", zap.Error(err))
		return nil, err
	}

	cached, gen, err := uc.listCache.Get(ctx, query)
	switch {
	case err != nil:
		log.Warn(ctx, logCacheReadFailed, zap.Error(err))
	case cached != nil:
		return cached, nil
	}

	notes, total, err := uc.noteRepo.List(ctx, query)
	if err != nil {
		return nil, wrap(errListNotes, err)
	}

	page := &entities.NotePage{
		Notes: notes,
		Total: total,
		Page:  query.Page,
		Limit: query.Limit,
	}

	if err := uc.listCache.Set(ctx, gen, query, page); err != nil {
		log.Warn(ctx, logCacheWriteFailed, zap.Error(err))
	}

	return page, nil
}

// GetNote возвращает заметку по ID.
func (uc *NoteUseCase) GetNote(ctx context.Context, rawID string) (*entities.Note, error) {
	id, err := entities.ParseNoteID(rawID)
	if err != nil {
		return nil, err
	}

	note, err := uc.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(errGetNote, err)
	}

	return note, nil
}

// CreateNote проверяет поля и создает заметку.
func (uc *NoteUseCase) CreateNote(ctx context.Context, in entities.NoteInput) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.CreateNote"))

	valid, err := entities.ValidateNoteInput(in)
	if err != nil {
		log.Debug(ctx, "note input rejected", zap.Error(err))
		return nil, err
	}

	note, err := uc.noteRepo.Create(ctx, valid)
	if err != nil {
		return nil, wrap(errCreateNote, err)
	}

	uc.invalidate(ctx)
	log.Info(ctx, "note created", zap.Int64("noteID", note.ID))

	return note, nil
}

// UpdateNote полностью заменяет изменяемые поля заметки.
func (uc *NoteUseCase) UpdateNote(ctx context.Context, rawID string, in entities.NoteInput) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.UpdateNote"))

	id, err := entities.ParseNoteID(rawID)
	if err != nil {
		return nil, err
	}

	valid, err := entities.ValidateNoteInput(in)
	if err != nil {
		log.Debug(ctx, "note input rejected", zap.Error(err))
		return nil, err
	}

	note, err := uc.noteRepo.Update(ctx, id, valid)
	if err != nil {
		return nil, wrap(errUpdateNote, err)
	}

	uc.invalidate(ctx)
	log.Info(ctx, "note updated", zap.Int64("noteID", note.ID))

	return note, nil
}

// DeleteNote удаляет заметку и возвращает ее последнее состояние.
func (uc *NoteUseCase) DeleteNote(ctx context.Context, rawID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.DeleteNote"))

	id, err := entities.ParseNoteID(rawID)
	if err != nil {
		return nil, err
	}

	note, err := uc.noteRepo.Delete(ctx, id)
	if err != nil {
		return nil, wrap(errDeleteNote, err)
	}

	uc.invalidate(ctx)
	log.Info(ctx, "note deleted", zap.Int64("noteID", note.ID))

	return note, nil
}

func (uc *NoteUseCase) invalidate(ctx context.Context) {
	if err := uc.listCache.Invalidate(ctx); err != nil {
		logger.Log(ctx).Warn(ctx, logCacheInvalidateFailed, zap.Error(err))
	}
}

// wrap добавляет контекст к ошибке. Ошибки вне известных видов считаются ошибками хранилища.
func wrap(msg string, err error) error {
	for _, kind := range domainKinds {
		if errors.Is(err, kind) {
			return fmt.Errorf("%s: %w", msg, err)
		}
	}
	return fmt.Errorf("%s: %w: %w", msg, entities.ErrStorage, err)
}
