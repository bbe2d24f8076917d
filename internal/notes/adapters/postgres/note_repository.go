// Package postgres provides PostgreSQL implementations of repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"gonotes/internal/notes/domain/entities"
	"gonotes/internal/notes/ports/repositories"
	"gonotes/pkg/logger"
)

// Коды ошибок Postgres, которые имеют смысл для домена.
const (
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
)

// Константы для сообщений об ошибках.
const (
	errCreateNote = "failed to create note"
	errGetNote    = "failed to get note"
	errCountNotes = "failed to count notes"
	errListNotes  = "failed to list notes"
	errScanNote   = "failed to scan note"
	errIterRows   = "error iterating rows"
	errUpdateNote = "failed to update note"
	errDeleteNote = "failed to delete note"
	errBeginTx    = "failed to begin list transaction"
	errCommitTx   = "failed to commit list transaction"
	errRollbackTx = "failed to rollback list transaction"
)

// PgxPoolInterface - часть pgxpool.Pool, нужная репозиторию.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// NoteRepository реализует интерфейс repositories.NoteRepository.
type NoteRepository struct {
	pool PgxPoolInterface
}

// NewNoteRepository создает новый репозиторий заметок.
func NewNoteRepository(pool PgxPoolInterface) repositories.NoteRepository {
	return &NoteRepository{pool: pool}
}

// Create сохраняет новую заметку в БД.
func (r *NoteRepository) Create(ctx context.Context, in entities.NoteInput) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Create"))
	log.Debug(ctx, "creating new note", zap.String("category", in.Category))

	note, err := scanNote(r.pool.QueryRow(ctx,
		`INSERT INTO notes (title, content, category, is_favorite)
         VALUES ($1, $2, $3, $4)
         RETURNING `+noteColumns,
		in.Title, in.Content, in.Category, in.Favorite(),
	))
	if err != nil {
		log.Error(ctx, errCreateNote, zap.Error(err))
		return nil, mapError(errCreateNote, err)
	}

	log.Debug(ctx, "note created", zap.Int64("noteID", note.ID))
	return note, nil
}

// GetByID получает заметку по ID.
func (r *NoteRepository) GetByID(ctx context.Context, id int64) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.GetByID"))
	log.Debug(ctx, "getting note", zap.Int64("noteID", id))

	note, err := scanNote(r.pool.QueryRow(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.Int64("noteID", id))
			return nil, entities.ErrNotFound
		}
		log.Error(ctx, errGetNote, zap.Error(err))
		return nil, mapError(errGetNote, err)
	}

	return note, nil
}

// listTxOptions дает запросу количества и запросу страницы один снимок данных.
var listTxOptions = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}

// List получает страницу заметок и общее количество совпадений.
// Оба запроса выполняются в одной транзакции, поэтому total согласован со строками страницы.
func (r *NoteRepository) List(ctx context.Context, query entities.ListQuery) ([]*entities.Note, int, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.List"))
	log.Debug(ctx, "listing notes",
		zap.Any("filter", query.Filter),
		zap.Int("limit", query.Limit),
		zap.Int("offset", query.Offset()))

	pageQuery, countQuery := BuildListQueries(query)

	tx, err := r.pool.BeginTx(ctx, listTxOptions)
	if err != nil {
		log.Error(ctx, errBeginTx, zap.Error(err))
		return nil, 0, mapError(errBeginTx, err)
	}

	var total int
	if err := tx.QueryRow(ctx, countQuery.SQL, countQuery.Args...).Scan(&total); err != nil {
		r.rollback(ctx, tx)
		log.Error(ctx, errCountNotes, zap.Error(err))
		return nil, 0, mapError(errCountNotes, err)
	}

	notes, err := queryNotes(ctx, tx, pageQuery)
	if err != nil {
		r.rollback(ctx, tx)
		log.Error(ctx, errListNotes, zap.Error(err))
		return nil, 0, mapError(errListNotes, err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error(ctx, errCommitTx, zap.Error(err))
		return nil, 0, mapError(errCommitTx, err)
	}

	return notes, total, nil
}

func (r *NoteRepository) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.Log(ctx).Warn(ctx, errRollbackTx, zap.Error(err))
	}
}

type rowsQuerier interface {
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

func queryNotes(ctx context.Context, q rowsQuerier, sq SQLQuery) ([]*entities.Note, error) {
	rows, err := q.Query(ctx, sq.SQL, sq.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errScanNote, err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", errIterRows, err)
	}

	return notes, nil
}

// Update обновляет существующую заметку.
// updated_at никогда не уменьшается, даже если часы сервера БД сдвинулись назад.
func (r *NoteRepository) Update(ctx context.Context, id int64, in entities.NoteInput) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Update"))
	log.Debug(ctx, "updating note", zap.Int64("noteID", id))

	note, err := scanNote(r.pool.QueryRow(ctx,
		`UPDATE notes
         SET title = $1, content = $2, category = $3, is_favorite = $4,
             updated_at = GREATEST(NOW(), updated_at)
         WHERE id = $5
         RETURNING `+noteColumns,
		in.Title, in.Content, in.Category, in.Favorite(), id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.Int64("noteID", id))
			return nil, entities.ErrNotFound
		}
		log.Error(ctx, errUpdateNote, zap.Error(err))
		return nil, mapError(errUpdateNote, err)
	}

	return note, nil
}

// Delete удаляет заметку.
func (r *NoteRepository) Delete(ctx context.Context, id int64) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Delete"))
	log.Debug(ctx, "deleting note", zap.Int64("noteID", id))

	note, err := scanNote(r.pool.QueryRow(ctx,
		`DELETE FROM notes WHERE id = $1 RETURNING `+noteColumns,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.Int64("noteID", id))
			return nil, entities.ErrNotFound
		}
		log.Error(ctx, errDeleteNote, zap.Error(err))
		return nil, mapError(errDeleteNote, err)
	}

	return note, nil
}

func scanNote(row pgx.Row) (*entities.Note, error) {
	var note entities.Note
	err := row.Scan(
		&note.ID,
		&note.Title,
		&note.Content,
		&note.Category,
		&note.IsFavorite,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// mapError переводит ошибку Postgres в вид ошибки домена.
func mapError(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", msg, entities.ErrConflict)
		case pgNotNullViolation:
			return fmt.Errorf("%s: %w", msg, entities.ErrRequiredFieldMissing)
		}
	}
	return fmt.Errorf("%s: %w: %w", msg, entities.ErrStorage, err)
}
