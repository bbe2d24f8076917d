// Package repositories defines repository interfaces for the notes service.
package repositories

import (
	"context"

	"gonotes/internal/notes/domain/entities"
)

// NoteRepository определяет интерфейс для работы с хранилищем заметок.
type NoteRepository interface {
	// Create сохраняет заметку и возвращает ее с присвоенными id и временными метками.
	Create(ctx context.Context, in entities.NoteInput) (*entities.Note, error)
	// GetByID возвращает entities.ErrNotFound, если заметки нет.
	GetByID(ctx context.Context, id int64) (*entities.Note, error)
	// List возвращает страницу заметок и общее количество по тому же фильтру.
	List(ctx context.Context, query entities.ListQuery) ([]*entities.Note, int, error)
	// Update переписывает все изменяемые поля и обновляет updated_at.
	Update(ctx context.Context, id int64, in entities.NoteInput) (*entities.Note, error)
	// Delete удаляет заметку и возвращает ее последнее состояние.
	Delete(ctx context.Context, id int64) (*entities.Note, error)
}
