package app_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gonotes/internal/notes/domain/entities"
)

// memoryRepo - хранилище заметок в памяти с той же семантикой фильтров и порядка, что и Postgres.
type memoryRepo struct {
	mu     sync.Mutex
	notes  map[int64]*entities.Note
	nextID int64
	now    func() time.Time
}

func newMemoryRepo() *memoryRepo {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick int64
	return &memoryRepo{
		notes: make(map[int64]*entities.Note),
		now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
	}
}

func (r *memoryRepo) Create(_ context.Context, in entities.NoteInput) (*entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notes {
		if n.Title == in.Title {
			return nil, entities.ErrConflict
		}
	}

	r.nextID++
	now := r.now()
	note := entities.NewNote(in)
	note.ID = r.nextID
	note.CreatedAt = now
	note.UpdatedAt = now
	r.notes[note.ID] = note

	cp := *note
	return &cp, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, entities.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *memoryRepo) List(_ context.Context, q entities.ListQuery) ([]*entities.Note, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]*entities.Note, 0, len(r.notes))
	for _, n := range r.notes {
		if q.Filter.Category != "" && n.Category != q.Filter.Category {
			continue
		}
		if q.Filter.Search != "" {
			term := strings.ToLower(q.Filter.Search)
			if !strings.Contains(strings.ToLower(n.Title), term) && !strings.Contains(strings.ToLower(n.Content), term) {
				continue
			}
		}
		if q.Filter.FavoriteOnly && !n.IsFavorite {
			continue
		}
		cp := *n
		matched = append(matched, &cp)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := min(q.Offset(), total)
	end := min(start+q.Limit, total)

	return matched[start:end], total, nil
}

func (r *memoryRepo) Update(_ context.Context, id int64, in entities.NoteInput) (*entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, entities.ErrNotFound
	}

	created, updated := n.CreatedAt, n.UpdatedAt
	n.Apply(in)
	n.CreatedAt = created
	n.UpdatedAt = r.now()
	if n.UpdatedAt.Before(updated) {
		n.UpdatedAt = updated
	}

	cp := *n
	return &cp, nil
}

func (r *memoryRepo) Delete(_ context.Context, id int64) (*entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, entities.ErrNotFound
	}
	delete(r.notes, id)
	return n, nil
}
