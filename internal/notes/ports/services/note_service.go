// Package services defines service interfaces for the notes service.
package services

import (
	"context"

	"gonotes/internal/notes/domain/entities"
)

// NoteService определяет операции над заметками, доступные транспортному слою.
type NoteService interface {
	ListNotes(ctx context.Context, params entities.ListParams) (*entities.NotePage, error)
	GetNote(ctx context.Context, rawID string) (*entities.Note, error)
	CreateNote(ctx context.Context, in entities.NoteInput) (*entities.Note, error)
	UpdateNote(ctx context.Context, rawID string, in entities.NoteInput) (*entities.Note, error)
	DeleteNote(ctx context.Context, rawID string) (*entities.Note, error)
}
