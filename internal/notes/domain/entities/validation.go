package entities

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// noteRules описывает правила для изменяемых полей после обрезки пробелов.
type noteRules struct {
	Title    string `json:"title" validate:"required,max=255"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category" validate:"required,max=100"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateNoteInput обрезает пробелы в строковых полях и проверяет их.
// Возвращает нормализованные поля или *ValidationError со всеми нарушениями сразу.
func ValidateNoteInput(in NoteInput) (NoteInput, error) {
	normalized := NoteInput{
		Title:      strings.TrimSpace(in.Title),
		Content:    strings.TrimSpace(in.Content),
		Category:   strings.TrimSpace(in.Category),
		IsFavorite: in.IsFavorite,
	}

	err := validate.Struct(noteRules{
		Title:    normalized.Title,
		Content:  normalized.Content,
		Category: normalized.Category,
	})
	if err == nil {
		return normalized, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NoteInput{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	verr := &ValidationError{Errors: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		verr.Errors = append(verr.Errors, FieldError{
			Type:    FieldErrorType,
			Message: fieldMessage(fe.Field(), fe.Tag(), fe.Param()),
			Field:   fe.Field(),
		})
	}
	return NoteInput{}, verr
}

func fieldMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", field, param)
	default:
		return field + " is invalid"
	}
}
