// Package entities defines the domain entities for the notes service.
package entities

import "time"

// Ограничения полей заметки.
const (
	TitleMaxLength    = 255
	CategoryMaxLength = 100
)

// Note представляет собой заметку.
type Note struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	IsFavorite bool      `json:"is_favorite"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NoteInput содержит изменяемые поля заметки в том виде, в котором их прислал клиент.
type NoteInput struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Category   string `json:"category"`
	IsFavorite *bool  `json:"is_favorite,omitempty"`
}

// NewNote создает заметку из уже проверенных полей.
func NewNote(in NoteInput) *Note {
	now := time.Now()
	return &Note{
		Title:      in.Title,
		Content:    in.Content,
		Category:   in.Category,
		IsFavorite: in.Favorite(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Favorite возвращает флаг избранного, false если он не передан.
func (in NoteInput) Favorite() bool {
	return in.IsFavorite != nil && *in.IsFavorite
}

// Apply переписывает все изменяемые поля заметки и обновляет UpdatedAt.
func (n *Note) Apply(in NoteInput) {
	n.Title = in.Title
	n.Content = in.Content
	n.Category = in.Category
	n.IsFavorite = in.Favorite()
	n.UpdatedAt = time.Now()
}

// Input возвращает изменяемые поля заметки.
func (n *Note) Input() NoteInput {
	favorite := n.IsFavorite
	return NoteInput{
		Title:      n.Title,
		Content:    n.Content,
		Category:   n.Category,
		IsFavorite: &favorite,
	}
}
