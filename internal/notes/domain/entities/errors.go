package entities

import (
	"errors"
	"fmt"
	"strings"
)

// Виды ошибок домена. Все прочие ошибки являются производными от них.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("note not found")
	ErrConflict     = errors.New("a note with this title already exists")
	ErrStorage      = errors.New("storage error")
)

// Производные ошибки.
var (
	ErrInvalidNoteID        = fmt.Errorf("%w: invalid note id", ErrInvalidInput)
	ErrInvalidPage          = fmt.Errorf("%w: page must be a positive integer", ErrInvalidInput)
	ErrInvalidLimit         = fmt.Errorf("%w: limit must be a positive integer", ErrInvalidInput)
	ErrRequiredFieldMissing = fmt.Errorf("%w: required fields are missing", ErrValidation)
)

// FieldErrorType - тип записи об ошибке поля.
const FieldErrorType = "error"

// FieldError описывает нарушение правила для одного поля.
type FieldError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

// ValidationError содержит все нарушенные правила, а не только первое.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

// Is позволяет сопоставлять ValidationError с ErrValidation через errors.Is.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Fields возвращает имена полей с ошибками в порядке их обнаружения.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		fields = append(fields, fe.Field)
	}
	return fields
}
