// Package cache определяет интерфейсы для кэширования страниц заметок.
package cache

import (
	"context"

	"gonotes/internal/notes/domain/entities"
)

// Generation - поколение кэша. Каждая инвалидация начинает новое поколение.
type Generation int64

// ListCache кэширует страницы списка заметок.
// Get возвращает nil страницу при промахе и поколение, в котором был выполнен поиск.
// Set записывает страницу только в это поколение, поэтому страница, прочитанная
// до изменения данных, не попадает в кэш после инвалидации.
type ListCache interface {
	Get(ctx context.Context, query entities.ListQuery) (*entities.NotePage, Generation, error)
	Set(ctx context.Context, gen Generation, query entities.ListQuery, page *entities.NotePage) error
	Invalidate(ctx context.Context) error
	Close() error
}

// NopListCache - кэш, который ничего не хранит. Используется, когда Redis отключен.
type NopListCache struct{}

// Get всегда возвращает промах.
func (NopListCache) Get(context.Context, entities.ListQuery) (*entities.NotePage, Generation, error) {
	return nil, 0, nil
}

// Set ничего не делает.
func (NopListCache) Set(context.Context, Generation, entities.ListQuery, *entities.NotePage) error {
	return nil
}

// Invalidate ничего не делает.
func (NopListCache) Invalidate(context.Context) error { return nil }

// Close ничего не делает.
func (NopListCache) Close() error { return nil }
