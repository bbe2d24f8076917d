package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"gonotes/internal/notes/domain/entities"
	"gonotes/pkg/logger"
)

// Ошибки синхронизатора списка.
var (
	ErrFetchInProgress = errors.New("list fetch already in progress")
	ErrStoreClosed     = errors.New("list store is closed")
	ErrNoteNotInPage   = errors.New("note is not on the current page")
	// ErrRefresh означает, что изменение выполнено, но повторная загрузка страницы не удалась.
	ErrRefresh = errors.New("failed to refresh page after mutation")
)

// State - снимок состояния синхронизатора.
type State struct {
	Notes      []*entities.Note
	Total      int
	Page       int
	PageSize   int
	Loading    bool
	Err        error
	Filters    Filters
	LastUpdate time.Time
}

// TotalPages возвращает количество страниц при текущем размере страницы.
func (s State) TotalPages() int {
	page := entities.NotePage{Total: s.Total, Limit: s.PageSize}
	return page.TotalPages()
}

// StoreOption настраивает ListStore.
type StoreOption func(*ListStore)

// WithPageSize задает размер страницы.
func WithPageSize(size int) StoreOption {
	return func(s *ListStore) {
		if size > 0 {
			s.state.PageSize = size
		}
	}
}

// WithClock подменяет источник времени для LastUpdate.
func WithClock(now func() time.Time) StoreOption {
	return func(s *ListStore) {
		s.now = now
	}
}

// ListStore хранит на клиенте одну страницу заметок и перезагружает ее после каждого изменения.
// Одновременно выполняется не более одной загрузки списка, изменения не ограничены.
type ListStore struct {
	api API
	now func() time.Time

	mu       sync.Mutex
	state    State
	inFlight bool
	// settled закрывается, когда текущая загрузка списка завершается.
	settled chan struct{}
	closed  bool
}

// NewListStore создает синхронизатор поверх API.
func NewListStore(api API, opts ...StoreOption) *ListStore {
	s := &ListStore{
		api: api,
		now: time.Now,
		state: State{
			Page:     entities.DefaultPage,
			PageSize: entities.DefaultLimit,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchPage загружает страницу. filters, если не nil, заменяет сохраненные фильтры;
// page больше нуля заменяет текущую страницу. При ошибке прежнее состояние не меняется,
// кроме флага загрузки и последней ошибки.
// Если загрузка уже выполняется, сразу возвращает ErrFetchInProgress без запроса к серверу.
func (s *ListStore) FetchPage(ctx context.Context, filters *Filters, page int) error {
	log := logger.Log(ctx).With(zap.String("method", "ListStore.FetchPage"))

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	if s.inFlight {
		s.mu.Unlock()
		log.Debug(ctx, "fetch skipped, another fetch is in flight")
		return ErrFetchInProgress
	}
	s.inFlight = true
	s.settled = make(chan struct{})
	s.state.Loading = true
	reqFilters, reqPage, reqLimit := s.state.Filters, s.state.Page, s.state.PageSize
	if filters != nil {
		reqFilters = *filters
	}
	if page > 0 {
		reqPage = page
	}
	s.mu.Unlock()

	result, err := s.api.List(ctx, reqFilters, reqPage, reqLimit)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.inFlight = false
	close(s.settled)
	s.settled = nil
	s.state.Loading = false

	if err != nil {
		s.state.Err = err
		log.Warn(ctx, "fetch failed", zap.Int("page", reqPage), zap.Error(err))
		return err
	}

	s.state.Filters = reqFilters
	s.state.Notes = result.Notes
	s.state.Total = result.Total
	s.state.Page = result.Page
	s.state.PageSize = result.Limit
	s.state.Err = nil
	s.state.LastUpdate = s.now()

	log.Debug(ctx, "page fetched",
		zap.Int("page", result.Page),
		zap.Int("notes", len(result.Notes)),
		zap.Int("total", result.Total))
	return nil
}

// Create создает заметку и перезагружает текущую страницу.
func (s *ListStore) Create(ctx context.Context, in entities.NoteInput) (*entities.Note, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	note, err := s.api.Create(ctx, in)
	if err != nil {
		s.recordError(err)
		return nil, err
	}

	return note, s.refresh(ctx)
}

// Update заменяет поля заметки и перезагружает текущую страницу.
func (s *ListStore) Update(ctx context.Context, id int64, in entities.NoteInput) (*entities.Note, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	note, err := s.api.Update(ctx, id, in)
	if err != nil {
		s.recordError(err)
		return nil, err
	}

	return note, s.refresh(ctx)
}

// ToggleFavorite инвертирует флаг избранного у заметки с текущей страницы.
// Локальное состояние меняется только через последующую перезагрузку страницы.
func (s *ListStore) ToggleFavorite(ctx context.Context, id int64) (*entities.Note, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	held, ok := s.find(id)
	if !ok {
		s.recordError(ErrNoteNotInPage)
		return nil, ErrNoteNotInPage
	}

	in := held.Input()
	flipped := !held.IsFavorite
	in.IsFavorite = &flipped

	return s.Update(ctx, id, in)
}

// Delete удаляет заметку и перезагружает текущую страницу.
// Если удалена последняя заметка на странице после первой, вызывающий сам запрашивает предыдущую.
func (s *ListStore) Delete(ctx context.Context, id int64) (*entities.Note, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	note, err := s.api.Delete(ctx, id)
	if err != nil {
		s.recordError(err)
		return nil, err
	}

	return note, s.refresh(ctx)
}

// Get загружает одну заметку, не меняя текущую страницу.
func (s *ListStore) Get(ctx context.Context, id int64) (*entities.Note, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	note, err := s.api.Get(ctx, id)
	if err != nil {
		s.recordError(err)
		return nil, err
	}
	return note, nil
}

// refresh перезагружает текущую страницу после изменения.
// Если загрузка уже выполняется, ее ответ мог быть получен до изменения,
// поэтому refresh дожидается ее завершения и запрашивает страницу заново.
func (s *ListStore) refresh(ctx context.Context) error {
	for {
		err := s.FetchPage(ctx, nil, 0)
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, ErrFetchInProgress):
			return fmt.Errorf("%w: %w", ErrRefresh, err)
		}

		if err := s.waitSettled(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrRefresh, err)
		}
	}
}

// waitSettled ждет завершения текущей загрузки списка, если она есть.
func (s *ListStore) waitSettled(ctx context.Context) error {
	s.mu.Lock()
	settled := s.settled
	s.mu.Unlock()

	if settled == nil {
		return nil
	}

	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ListStore) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

func (s *ListStore) recordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = err
}

func (s *ListStore) find(id int64) (*entities.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.state.Notes {
		if n.ID == id {
			cp := *n
			return &cp, true
		}
	}
	return nil, false
}

// Snapshot возвращает копию текущего состояния.
func (s *ListStore) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Notes = make([]*entities.Note, len(s.state.Notes))
	copy(st.Notes, s.state.Notes)
	return st
}

// Notes возвращает заметки текущей страницы.
func (s *ListStore) Notes() []*entities.Note {
	return s.Snapshot().Notes
}

// Loading сообщает, выполняется ли загрузка списка.
func (s *ListStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Loading
}

// Err возвращает последнюю ошибку.
func (s *ListStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Err
}

// ClearError сбрасывает последнюю ошибку.
func (s *ListStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = nil
}

// LastUpdate возвращает время последней успешной загрузки.
func (s *ListStore) LastUpdate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LastUpdate
}

// Categories возвращает категории заметок текущей страницы в порядке первого появления.
func (s *ListStore) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(s.state.Notes))
	categories := make([]string, 0, len(s.state.Notes))
	for _, n := range s.state.Notes {
		if _, ok := seen[n.Category]; ok {
			continue
		}
		seen[n.Category] = struct{}{}
		categories = append(categories, n.Category)
	}
	return categories
}

// Favorites возвращает избранные заметки текущей страницы.
func (s *ListStore) Favorites() []*entities.Note {
	return s.filter(func(n *entities.Note) bool { return n.IsFavorite })
}

// NotesByCategory возвращает заметки текущей страницы из категории.
func (s *ListStore) NotesByCategory(category string) []*entities.Note {
	return s.filter(func(n *entities.Note) bool { return n.Category == category })
}

func (s *ListStore) filter(keep func(*entities.Note) bool) []*entities.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*entities.Note, 0, len(s.state.Notes))
	for _, n := range s.state.Notes {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}

// Close завершает работу синхронизатора. Последующие вызовы возвращают ErrStoreClosed.
func (s *ListStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.state.Notes = nil
}
