// Package dto содержит объекты передачи данных HTTP API заметок.
// Одни и те же типы используются сервером для ответов и клиентом для их разбора.
package dto

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"gonotes/internal/notes/domain/entities"
)

// ErrInvalidResponse возвращается, если тело ответа не соответствует схеме.
var ErrInvalidResponse = errors.New("invalid response body")

// Сообщения ответов.
const (
	MsgNoteDeleted  = "Note deleted successfully"
	MsgServerIsUp   = "Server is running"
	StatusOK        = "ok"
	MsgInternal     = "Internal server error"
	MsgStorageError = "Database error"
)

// NoteRequest - тело запросов создания и обновления заметки.
type NoteRequest = entities.NoteInput

// Pagination содержит сведения о странице.
type Pagination struct {
	Total       int `json:"total" validate:"gte=0"`
	TotalPages  int `json:"totalPages" validate:"gte=0"`
	CurrentPage int `json:"currentPage" validate:"gte=1"`
	Limit       int `json:"limit" validate:"gte=1"`
}

// ListNotesResponse - единственная схема ответа на запрос списка.
type ListNotesResponse struct {
	Notes      []*entities.Note `json:"notes" validate:"required,dive,required"`
	Pagination *Pagination      `json:"pagination" validate:"required"`
}

// NewListNotesResponse строит ответ из страницы заметок.
func NewListNotesResponse(page *entities.NotePage) *ListNotesResponse {
	notes := page.Notes
	if notes == nil {
		notes = make([]*entities.Note, 0)
	}
	return &ListNotesResponse{
		Notes: notes,
		Pagination: &Pagination{
			Total:       page.Total,
			TotalPages:  page.TotalPages(),
			CurrentPage: page.Page,
			Limit:       page.Limit,
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate проверяет, что ответ содержит список заметок и сведения о пагинации.
func (r *ListNotesResponse) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return nil
}

// Page переводит ответ в страницу домена.
func (r *ListNotesResponse) Page() *entities.NotePage {
	return &entities.NotePage{
		Notes: r.Notes,
		Total: r.Pagination.Total,
		Page:  r.Pagination.CurrentPage,
		Limit: r.Pagination.Limit,
	}
}

// DeleteNoteResponse - ответ на удаление заметки.
type DeleteNoteResponse struct {
	Message string         `json:"message"`
	Note    *entities.Note `json:"note" validate:"required"`
}

// Validate проверяет, что ответ содержит удаленную заметку.
func (r *DeleteNoteResponse) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return nil
}

// ErrorResponse - тело ответа с одной ошибкой.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ValidationErrorResponse - тело ответа со списком ошибок полей.
type ValidationErrorResponse struct {
	Errors []entities.FieldError `json:"errors"`
}

// HealthResponse - ответ проверки работоспособности.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
