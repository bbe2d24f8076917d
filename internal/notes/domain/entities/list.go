package entities

import (
	"math"
	"strconv"
)

// Значения пагинации по умолчанию.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// FavoriteFilterValue - единственное значение параметра favorite, включающее фильтр.
const FavoriteFilterValue = "true"

// ListParams содержит сырые параметры запроса списка.
type ListParams struct {
	Page     string
	Limit    string
	Category string
	Search   string
	Favorite string
}

// NoteFilter - спецификация фильтра, общая для запроса страницы и запроса количества.
type NoteFilter struct {
	Category     string `json:"category,omitempty"`
	Search       string `json:"search,omitempty"`
	FavoriteOnly bool   `json:"favorite_only,omitempty"`
}

// ListQuery - проверенный запрос страницы заметок.
type ListQuery struct {
	Filter NoteFilter
	Page   int
	Limit  int
}

// Offset возвращает смещение первой строки страницы.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// NotePage - одна страница заметок и сведения о пагинации.
type NotePage struct {
	Notes []*Note
	Total int
	Page  int
	Limit int
}

// TotalPages возвращает количество страниц при текущем размере страницы.
func (p *NotePage) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// ParseListQuery проверяет сырые параметры и применяет значения по умолчанию.
func ParseListQuery(params ListParams) (ListQuery, error) {
	page, err := parsePositive(params.Page, DefaultPage)
	if err != nil {
		return ListQuery{}, ErrInvalidPage
	}

	limit, err := parsePositive(params.Limit, DefaultLimit)
	if err != nil {
		return ListQuery{}, ErrInvalidLimit
	}

	// Смещение (page-1)*limit должно помещаться в int.
	if page-1 > math.MaxInt/limit {
		return ListQuery{}, ErrInvalidPage
	}

	return ListQuery{
		Filter: NoteFilter{
			Category:     params.Category,
			Search:       params.Search,
			FavoriteOnly: params.Favorite == FavoriteFilterValue,
		},
		Page:  page,
		Limit: limit,
	}, nil
}

// ParseNoteID разбирает идентификатор заметки, который должен быть положительным целым.
func ParseNoteID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidNoteID
	}
	return id, nil
}

func parsePositive(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, strconv.ErrRange
	}
	return v, nil
}
