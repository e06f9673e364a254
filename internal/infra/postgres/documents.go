package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Store keeps every document as JSONB next to the few columns queries filter or sort on.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// getDocument scans the data column of a single row into dest, mapping no rows to notFound.
func (s *Store) getDocument(ctx context.Context, notFound error, dest any, query string, args ...any) error {
	var raw []byte
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound
		}
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	return nil
}

// listDocuments decodes the data column of each row with decode.
func (s *Store) listDocuments(ctx context.Context, decode func(raw []byte) error, query string, args ...any) error {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		if err := decode(raw); err != nil {
			return fmt.Errorf("unmarshal document: %w", err)
		}
	}
	return rows.Err()
}

// execAffecting runs a write and returns notFound when it matched no row.
func (s *Store) execAffecting(ctx context.Context, notFound error, query string, args ...any) error {
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

func encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	return string(data), nil
}
