package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	// ErrNotFound - по запросу не найдено ни одной строки
	ErrNotFound = errors.New("not found")
	// ErrConflict - нарушено ограничение уникальности
	ErrConflict = errors.New("conflict")
)

// Коды SQLSTATE, которые различаем отдельно
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// mapError приводит ошибки драйвера к ошибкам пакета
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation:
			return ErrConflict
		case codeForeignKeyViolation:
			return ErrNotFound
		}
	}
	return err
}

// affected возвращает ErrNotFound, если запрос не затронул ни одной строки
func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
