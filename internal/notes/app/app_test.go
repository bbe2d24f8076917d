package app_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"gonotes/internal/notes/app"
	"gonotes/internal/notes/domain/entities"
	"gonotes/internal/notes/ports/cache"
)

var ErrDatabaseOperation = errors.New("database operation failed")

type mockNoteRepository struct {
	mock.Mock
}

func (m *mockNoteRepository) Create(ctx context.Context, in entities.NoteInput) (*entities.Note, error) {
	args := m.Called(ctx, in)
	note, _ := args.Get(0).(*entities.Note)
	return note, args.Error(1)
}

func (m *mockNoteRepository) GetByID(ctx context.Context, id int64) (*entities.Note, error) {
	args := m.Called(ctx, id)
	note, _ := args.Get(0).(*entities.Note)
	return note, args.Error(1)
}

func (m *mockNoteRepository) List(ctx context.Context, query entities.ListQuery) ([]*entities.Note, int, error) {
	args := m.Called(ctx, query)
	notes, _ := args.Get(0).([]*entities.Note)
	return notes, args.Int(1), args.Error(2)
}

func (m *mockNoteRepository) Update(ctx context.Context, id int64, in entities.NoteInput) (*entities.Note, error) {
	args := m.Called(ctx, id, in)
	note, _ := args.Get(0).(*entities.Note)
	return note, args.Error(1)
}

func (m *mockNoteRepository) Delete(ctx context.Context, id int64) (*entities.Note, error) {
	args := m.Called(ctx, id)
	note, _ := args.Get(0).(*entities.Note)
	return note, args.Error(1)
}

type mockListCache struct {
	mock.Mock
}

func (m *mockListCache) Get(ctx context.Context, query entities.ListQuery) (*entities.NotePage, cache.Generation, error) {
	args := m.Called(ctx, query)
	page, _ := args.Get(0).(*entities.NotePage)
	return page, args.Get(1).(cache.Generation), args.Error(2)
}

func (m *mockListCache) Set(ctx context.Context, gen cache.Generation, query entities.ListQuery, page *entities.NotePage) error {
	return m.Called(ctx, gen, query, page).Error(0)
}

func (m *mockListCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockListCache) Close() error {
	return m.Called().Error(0)
}

func boolPtr(v bool) *bool { return &v }

func validInput() entities.NoteInput {
	return entities.NoteInput{Title: "Plan", Content: "Write the plan", Category: "work"}
}

func TestNewNoteUseCase(t *testing.T) {
	uc := app.NewNoteUseCase(new(mockNoteRepository))
	assert.NotNil(t, uc)

	uc = app.NewNoteUseCase(new(mockNoteRepository), app.WithListCache(nil))
	assert.NotNil(t, uc)
}

func TestCreateNote(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	tests := []struct {
		name        string
		input       entities.NoteInput
		setupMocks  func(*mockNoteRepository, *mockListCache)
		expectedErr error
		checkNote   func(*testing.T, *entities.Note)
	}{
		{
			name:  "successful creation trims fields and invalidates cache",
			input: entities.NoteInput{Title: "  Plan  ", Content: " Write the plan ", Category: " work "},
			setupMocks: func(repo *mockNoteRepository, c *mockListCache) {
				repo.On("Create", mock.Anything, validInput()).
					Return(&entities.Note{ID: 1, Title: "Plan", Content: "Write the plan", Category: "work", CreatedAt: now, UpdatedAt: now}, nil).Once()
				c.On("Invalidate", mock.Anything).Return(nil).Once()
			},
			checkNote: func(t *testing.T, n *entities.Note) {
				assert.Equal(t, int64(1), n.ID)
				assert.False(t, n.IsFavorite)
			},
		},
		{
			name:        "validation error reports every field",
			input:       entities.NoteInput{},
			setupMocks:  func(*mockNoteRepository, *mockListCache) {},
			expectedErr: entities.ErrValidation,
		},
		{
			name:  "conflict from store",
			input: validInput(),
			setupMocks: func(repo *mockNoteRepository, _ *mockListCache) {
				repo.On("Create", mock.Anything, validInput()).Return(nil, entities.ErrConflict).Once()
			},
			expectedErr: entities.ErrConflict,
		},
		{
			name:  "unknown store error becomes storage error",
			input: validInput(),
			setupMocks: func(repo *mockNoteRepository, _ *mockListCache) {
				repo.On("Create", mock.Anything, validInput()).Return(nil, ErrDatabaseOperation).Once()
			},
			expectedErr: entities.ErrStorage,
		},
		{
			name:  "cache invalidation failure does not fail the request",
			input: validInput(),
			setupMocks: func(repo *mockNoteRepository, c *mockListCache) {
				repo.On("Create", mock.Anything, validInput()).
					Return(&entities.Note{ID: 2, Title: "Plan", CreatedAt: now, UpdatedAt: now}, nil).Once()
				c.On("Invalidate", mock.Anything).Return(ErrDatabaseOperation).Once()
			},
			checkNote: func(t *testing.T, n *entities.Note) {
				assert.Equal(t, int64(2), n.ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockNoteRepository)
			c := new(mockListCache)
			tt.setupMocks(repo, c)

			uc := app.NewNoteUseCase(repo, app.WithListCache(c))
			note, err := uc.CreateNote(ctx, tt.input)

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, note)
			} else {
				require.NoError(t, err)
				tt.checkNote(t, note)
			}

			repo.AssertExpectations(t)
			c.AssertExpectations(t)
		})
	}
}

func TestCreateNote_ValidationErrorDetails(t *testing.T) {
	uc := app.NewNoteUseCase(new(mockNoteRepository))

	_, err := uc.CreateNote(context.Background(), entities.NoteInput{Title: "   ", Content: "", Category: ""})

	var verr *entities.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"title", "content", "category"}, verr.Fields())
	for _, fe := range verr.Errors {
		assert.Equal(t, entities.FieldErrorType, fe.Type)
	}
}

func TestGetNote(t *testing.T) {
	ctx := context.Background()
	testNote := &entities.Note{ID: 5, Title: "T", Content: "C", Category: "x"}

	tests := []struct {
		name        string
		rawID       string
		setupMocks  func(*mockNoteRepository)
		expectedErr error
	}{
		{
			name:  "note found",
			rawID: "5",
			setupMocks: func(repo *mockNoteRepository) {
				repo.On("GetByID", mock.Anything, int64(5)).Return(testNote, nil).Once()
			},
		},
		{
			name:        "non numeric id",
			rawID:       "abc",
			setupMocks:  func(*mockNoteRepository) {},
			expectedErr: entities.ErrInvalidInput,
		},
		{
			name:        "zero id",
			rawID:       "0",
			setupMocks:  func(*mockNoteRepository) {},
			expectedErr: entities.ErrInvalidInput,
		},
		{
			name:  "note not found",
			rawID: "99",
			setupMocks: func(repo *mockNoteRepository) {
				repo.On("GetByID", mock.Anything, int64(99)).Return(nil, entities.ErrNotFound).Once()
			},
			expectedErr: entities.ErrNotFound,
		},
		{
			name:  "database error",
			rawID: "5",
			setupMocks: func(repo *mockNoteRepository) {
				repo.On("GetByID", mock.Anything, int64(5)).Return(nil, ErrDatabaseOperation).Once()
			},
			expectedErr: entities.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockNoteRepository)
			tt.setupMocks(repo)

			note, err := app.NewNoteUseCase(repo).GetNote(ctx, tt.rawID)

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, note)
			} else {
				require.NoError(t, err)
				assert.Equal(t, testNote, note)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestListNotes(t *testing.T) {
	ctx := context.Background()
	notes := []*entities.Note{{ID: 2}, {ID: 1}}
	query := entities.ListQuery{Filter: entities.NoteFilter{Category: "work", FavoriteOnly: true}, Page: 2, Limit: 5}
	params := entities.ListParams{Page: "2", Limit: "5", Category: "work", Favorite: "true"}

	t.Run("store read on cache miss fills cache", func(t *testing.T) {
		repo := new(mockNoteRepository)
		c := new(mockListCache)

		c.On("Get", mock.Anything, query).Return(nil, cache.Generation(3), nil).Once()
		repo.On("List", mock.Anything, query).Return(notes, 7, nil).Once()
		c.On("Set", mock.Anything, cache.Generation(3), query, mock.AnythingOfType("*entities.NotePage")).Return(nil).Once()

		page, err := app.NewNoteUseCase(repo, app.WithListCache(c)).ListNotes(ctx, params)

		require.NoError(t, err)
		assert.Equal(t, notes, page.Notes)
		assert.Equal(t, 7, page.Total)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 5, page.Limit)
		assert.Equal(t, 2, page.TotalPages())
		repo.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("cache hit skips store", func(t *testing.T) {
		repo := new(mockNoteRepository)
		c := new(mockListCache)
		cached := &entities.NotePage{Notes: notes, Total: 2, Page: 2, Limit: 5}

		c.On("Get", mock.Anything, query).Return(cached, cache.Generation(0), nil).Once()

		page, err := app.NewNoteUseCase(repo, app.WithListCache(c)).ListNotes(ctx, params)

		require.NoError(t, err)
		assert.Same(t, cached, page)
		repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("cache failures fall back to store", func(t *testing.T) {
		repo := new(mockNoteRepository)
		c := new(mockListCache)

		c.On("Get", mock.Anything, query).Return(nil, cache.Generation(0), ErrDatabaseOperation).Once()
		repo.On("List", mock.Anything, query).Return(notes, 2, nil).Once()
		c.On("Set", mock.Anything, cache.Generation(0), query, mock.Anything).Return(ErrDatabaseOperation).Once()

		page, err := app.NewNoteUseCase(repo, app.WithListCache(c)).ListNotes(ctx, params)

		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
	})

	t.Run("invalid page is rejected before any read", func(t *testing.T) {
		repo := new(mockNoteRepository)

		_, err := app.NewNoteUseCase(repo).ListNotes(ctx, entities.ListParams{Page: "0"})

		require.ErrorIs(t, err, entities.ErrInvalidInput)
		repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("invalid limit is rejected", func(t *testing.T) {
		_, err := app.NewNoteUseCase(new(mockNoteRepository)).ListNotes(ctx, entities.ListParams{Limit: "ten"})
		require.ErrorIs(t, err, entities.ErrInvalidLimit)
	})

	t.Run("store error", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("List", mock.Anything, mock.Anything).Return(nil, 0, ErrDatabaseOperation).Once()

		_, err := app.NewNoteUseCase(repo).ListNotes(ctx, entities.ListParams{})

		require.ErrorIs(t, err, entities.ErrStorage)
		assert.Contains(t, err.Error(), "failed to list notes")
	})
}

func TestUpdateNote(t *testing.T) {
	ctx := context.Background()

	t.Run("successful update", func(t *testing.T) {
		repo := new(mockNoteRepository)
		in := validInput()
		in.IsFavorite = boolPtr(true)
		repo.On("Update", mock.Anything, int64(3), in).Return(&entities.Note{ID: 3, IsFavorite: true}, nil).Once()

		note, err := app.NewNoteUseCase(repo).UpdateNote(ctx, "3", in)

		require.NoError(t, err)
		assert.True(t, note.IsFavorite)
		repo.AssertExpectations(t)
	})

	t.Run("invalid id is checked before fields", func(t *testing.T) {
		_, err := app.NewNoteUseCase(new(mockNoteRepository)).UpdateNote(ctx, "-1", entities.NoteInput{})
		require.ErrorIs(t, err, entities.ErrInvalidNoteID)
	})

	t.Run("validation error", func(t *testing.T) {
		_, err := app.NewNoteUseCase(new(mockNoteRepository)).UpdateNote(ctx, "3", entities.NoteInput{Title: "x"})

		var verr *entities.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"content", "category"}, verr.Fields())
	})

	t.Run("note not found", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("Update", mock.Anything, int64(3), validInput()).Return(nil, entities.ErrNotFound).Once()

		_, err := app.NewNoteUseCase(repo).UpdateNote(ctx, "3", validInput())
		require.ErrorIs(t, err, entities.ErrNotFound)
	})
}

func TestDeleteNote(t *testing.T) {
	ctx := context.Background()

	t.Run("successful delete", func(t *testing.T) {
		repo := new(mockNoteRepository)
		c := new(mockListCache)
		repo.On("Delete", mock.Anything, int64(4)).Return(&entities.Note{ID: 4}, nil).Once()
		c.On("Invalidate", mock.Anything).Return(nil).Once()

		note, err := app.NewNoteUseCase(repo, app.WithListCache(c)).DeleteNote(ctx, "4")

		require.NoError(t, err)
		assert.Equal(t, int64(4), note.ID)
		c.AssertExpectations(t)
	})

	t.Run("note not found leaves cache alone", func(t *testing.T) {
		repo := new(mockNoteRepository)
		c := new(mockListCache)
		repo.On("Delete", mock.Anything, int64(4)).Return(nil, entities.ErrNotFound).Once()

		_, err := app.NewNoteUseCase(repo, app.WithListCache(c)).DeleteNote(ctx, "4")

		require.ErrorIs(t, err, entities.ErrNotFound)
		c.AssertNotCalled(t, "Invalidate", mock.Anything)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := app.NewNoteUseCase(new(mockNoteRepository)).DeleteNote(ctx, "1.5")
		require.ErrorIs(t, err, entities.ErrInvalidInput)
	})
}

func TestNoteLifecycle(t *testing.T) {
	ctx := context.Background()
	uc := app.NewNoteUseCase(newMemoryRepo())

	created, err := uc.CreateNote(ctx, validInput())
	require.NoError(t, err)
	assert.False(t, created.IsFavorite)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	page, err := uc.ListNotes(ctx, entities.ListParams{})
	require.NoError(t, err)
	require.NotEmpty(t, page.Notes)
	assert.Equal(t, created.ID, page.Notes[0].ID)

	in := validInput()
	in.Title = "Plan v2"
	updated, err := uc.UpdateNote(ctx, strconv.FormatInt(created.ID, 10), in)
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	id := strconv.FormatInt(created.ID, 10)
	_, err = uc.DeleteNote(ctx, id)
	require.NoError(t, err)

	_, err = uc.GetNote(ctx, id)
	require.ErrorIs(t, err, entities.ErrNotFound)

	_, err = uc.DeleteNote(ctx, id)
	require.ErrorIs(t, err, entities.ErrNotFound)
}

func TestFavoriteFilterOnlyAcceptsTrue(t *testing.T) {
	ctx := context.Background()
	uc := app.NewNoteUseCase(newMemoryRepo())

	for i := range 4 {
		in := validInput()
		in.Title = fmt.Sprintf("note %d", i)
		in.IsFavorite = boolPtr(i%2 == 0)
		_, err := uc.CreateNote(ctx, in)
		require.NoError(t, err)
	}

	for value, expected := range map[string]int{"true": 2, "": 4, "false": 4, "1": 4, "TRUE": 4} {
		page, err := uc.ListNotes(ctx, entities.ListParams{Favorite: value})
		require.NoError(t, err)
		assert.Equal(t, expected, page.Total, "favorite=%q", value)
	}
}

func TestListNotes_PaginationProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		uc := app.NewNoteUseCase(newMemoryRepo())

		categories := []string{"work", "home", "misc"}
		n := rapid.IntRange(0, 30).Draw(t, "notes")
		for i := range n {
			_, err := uc.CreateNote(ctx, entities.NoteInput{
				Title:      fmt.Sprintf("note %d", i),
				Content:    rapid.SampledFrom([]string{"alpha", "beta", "Alpha beta"}).Draw(t, "content"),
				Category:   rapid.SampledFrom(categories).Draw(t, "category"),
				IsFavorite: boolPtr(rapid.Bool().Draw(t, "favorite")),
			})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
		}

		params := entities.ListParams{
			Category: rapid.SampledFrom(append([]string{""}, categories...)).Draw(t, "filterCategory"),
			Search:   rapid.SampledFrom([]string{"", "alpha", "BETA"}).Draw(t, "search"),
			Favorite: rapid.SampledFrom([]string{"", "true", "false"}).Draw(t, "filterFavorite"),
		}
		limit := rapid.IntRange(1, 7).Draw(t, "limit")
		params.Limit = strconv.Itoa(limit)

		first, err := uc.ListNotes(ctx, params)
		if err != nil {
			t.Fatalf("list: %v", err)
		}

		seen := make(map[int64]bool)
		var collected []*entities.Note
		for p := 1; p <= first.TotalPages()+1; p++ {
			params.Page = strconv.Itoa(p)
			page, err := uc.ListNotes(ctx, params)
			if err != nil {
				t.Fatalf("list page %d: %v", p, err)
			}
			if page.Total != first.Total {
				t.Fatalf("total changed between pages: %d != %d", page.Total, first.Total)
			}
			if len(page.Notes) > limit {
				t.Fatalf("page %d has %d notes, limit %d", p, len(page.Notes), limit)
			}
			if p > first.TotalPages() && len(page.Notes) != 0 {
				t.Fatalf("page %d beyond the last page is not empty", p)
			}
			for _, note := range page.Notes {
				if seen[note.ID] {
					t.Fatalf("note %d returned twice", note.ID)
				}
				seen[note.ID] = true
				collected = append(collected, note)
			}
		}

		if len(collected) != first.Total {
			t.Fatalf("collected %d notes, total %d", len(collected), first.Total)
		}

		for i := 1; i < len(collected); i++ {
			prev, cur := collected[i-1], collected[i]
			if cur.CreatedAt.After(prev.CreatedAt) || (cur.CreatedAt.Equal(prev.CreatedAt) && cur.ID > prev.ID) {
				t.Fatalf("notes out of order at %d", i)
			}
		}

		for _, note := range collected {
			if params.Category != "" && note.Category != params.Category {
				t.Fatalf("note %d does not match category", note.ID)
			}
			if params.Favorite == "true" && !note.IsFavorite {
				t.Fatalf("note %d is not favorite", note.ID)
			}
		}
	})
}
