package repositories

import (
	"context"
	"fmt"

	"baakh/internal/database"
)

// DictionaryRepository reads the romanizer override table.
type DictionaryRepository struct {
	db    *database.DB
	table string
}

// NewDictionaryRepository binds the repository to table, which must be a
// plain SQL identifier (config validation enforces this).
func NewDictionaryRepository(db *database.DB, table string) *DictionaryRepository {
	if table == "" {
		table = "romanizer"
	}
	return &DictionaryRepository{db: db, table: table}
}

// ListActive returns every row that is not soft-deleted, ordered by word.
func (r *DictionaryRepository) ListActive(ctx context.Context) ([]database.DictionaryEntry, error) {
	query := fmt.Sprintf(`
        SELECT id, word, correction, created_at, updated_at
        FROM %s
        WHERE deleted_at IS NULL
        ORDER BY word, id
    `, r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()

	var entries []database.DictionaryEntry
	for rows.Next() {
		var e database.DictionaryEntry
		if err := rows.Scan(&e.ID, &e.Word, &e.Correction, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of active rows.
func (r *DictionaryRepository) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE deleted_at IS NULL`, r.table)

	var n int
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.table, err)
	}
	return n, nil
}
