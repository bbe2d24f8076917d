// Package client содержит HTTP клиент API заметок и синхронизатор списка на стороне клиента.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3/client"
	"go.uber.org/zap"

	"gonotes/internal/notes/app/dto"
	"gonotes/internal/notes/domain/entities"
	"gonotes/pkg/logger"
)

// Константы сообщений об ошибках.
const (
	errSendRequest    = "failed to send request"
	errDecodeResponse = "failed to decode response"
)

// Filters - фильтры списка, которые хранит клиент.
type Filters struct {
	Category     string
	Search       string
	FavoriteOnly bool
}

// API описывает операции HTTP API заметок.
type API interface {
	List(ctx context.Context, filters Filters, page, limit int) (*entities.NotePage, error)
	Get(ctx context.Context, id int64) (*entities.Note, error)
	Create(ctx context.Context, in entities.NoteInput) (*entities.Note, error)
	Update(ctx context.Context, id int64, in entities.NoteInput) (*entities.Note, error)
	Delete(ctx context.Context, id int64) (*entities.Note, error)
}

// APIError - ответ сервера с кодом ошибки.
// Через errors.Is сопоставляется с видом ошибки домена по коду ответа.
type APIError struct {
	Status  int
	Message string
	Fields  []entities.FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		msgs := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			msgs = append(msgs, f.Message)
		}
		return fmt.Sprintf("status %d: %s", e.Status, strings.Join(msgs, "; "))
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// Unwrap возвращает вид ошибки домена, соответствующий ответу.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == 404:
		return entities.ErrNotFound
	case e.Status == 400 && len(e.Fields) > 0:
		return entities.ErrValidation
	case e.Status >= 400 && e.Status < 500:
		return entities.ErrInvalidInput
	default:
		return entities.ErrStorage
	}
}

// HTTPAPI реализует API поверх клиента fiber.
type HTTPAPI struct {
	client *client.Client
}

// NewHTTPAPI создает клиент API с базовым адресом вида http://host:port/api.
func NewHTTPAPI(baseURL string, timeout time.Duration) *HTTPAPI {
	c := client.New()
	c.SetBaseURL(strings.TrimRight(baseURL, "/"))
	c.SetTimeout(timeout)
	return &HTTPAPI{client: c}
}

func notePath(id int64) string {
	return "/notes/" + strconv.FormatInt(id, 10)
}

// List запрашивает страницу заметок.
func (a *HTTPAPI) List(ctx context.Context, filters Filters, page, limit int) (*entities.NotePage, error) {
	params := map[string]string{
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(limit),
	}
	if filters.Category != "" {
		params["category"] = filters.Category
	}
	if filters.Search != "" {
		params["search"] = filters.Search
	}
	if filters.FavoriteOnly {
		params["favorite"] = entities.FavoriteFilterValue
	}

	resp, err := a.client.Get("/notes", client.Config{Ctx: ctx, Param: params})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errSendRequest, err)
	}
	defer resp.Close()

	var body dto.ListNotesResponse
	if err := decode(ctx, resp, &body); err != nil {
		return nil, err
	}
	if err := body.Validate(); err != nil {
		return nil, err
	}

	return body.Page(), nil
}

// Get запрашивает одну заметку.
func (a *HTTPAPI) Get(ctx context.Context, id int64) (*entities.Note, error) {
	resp, err := a.client.Get(notePath(id), client.Config{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errSendRequest, err)
	}
	defer resp.Close()

	return decodeNote(ctx, resp)
}

// Create создает заметку.
func (a *HTTPAPI) Create(ctx context.Context, in entities.NoteInput) (*entities.Note, error) {
	resp, err := a.client.Post("/notes", client.Config{Ctx: ctx, Body: in})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errSendRequest, err)
	}
	defer resp.Close()

	return decodeNote(ctx, resp)
}

// Update заменяет изменяемые поля заметки.
func (a *HTTPAPI) Update(ctx context.Context, id int64, in entities.NoteInput) (*entities.Note, error) {
	resp, err := a.client.Put(notePath(id), client.Config{Ctx: ctx, Body: in})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errSendRequest, err)
	}
	defer resp.Close()

	return decodeNote(ctx, resp)
}

// Delete удаляет заметку и возвращает ее последнее состояние.
func (a *HTTPAPI) Delete(ctx context.Context, id int64) (*entities.Note, error) {
	resp, err := a.client.Delete(notePath(id), client.Config{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errSendRequest, err)
	}
	defer resp.Close()

	var body dto.DeleteNoteResponse
	if err := decode(ctx, resp, &body); err != nil {
		return nil, err
	}
	if err := body.Validate(); err != nil {
		return nil, err
	}
	return body.Note, nil
}

func decodeNote(ctx context.Context, resp *client.Response) (*entities.Note, error) {
	var note entities.Note
	if err := decode(ctx, resp, &note); err != nil {
		return nil, err
	}
	if note.ID <= 0 {
		return nil, fmt.Errorf("%w: note id is missing", dto.ErrInvalidResponse)
	}
	return &note, nil
}

// decode разбирает успешный ответ в v, а ответ с ошибкой в *APIError.
func decode(ctx context.Context, resp *client.Response, v any) error {
	status := resp.StatusCode()
	body := resp.Body()

	if status >= 400 {
		apiErr := &APIError{Status: status}

		var fields dto.ValidationErrorResponse
		var single dto.ErrorResponse
		switch {
		case json.Unmarshal(body, &fields) == nil && len(fields.Errors) > 0:
			apiErr.Fields = fields.Errors
		case json.Unmarshal(body, &single) == nil && single.Error != "":
			apiErr.Message = single.Error
			if single.Message != "" {
				apiErr.Message += ": " + single.Message
			}
		default:
			apiErr.Message = strings.TrimSpace(string(body))
		}

		logger.Log(ctx).Debug(ctx, "api request failed",
			zap.Int("status", status),
			zap.String("error", apiErr.Error()))
		return apiErr
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%s: %w: %w", errDecodeResponse, dto.ErrInvalidResponse, err)
	}
	return nil
}

// IsAPIError сообщает, является ли err ответом сервера с ошибкой.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
