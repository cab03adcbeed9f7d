package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rogerio-castellano/stockly/internal/models"
)

// PostgresNamedRepository serves one of the named-record tables.
type PostgresNamedRepository struct {
	db    *sql.DB
	table string
}

func NewPostgresNamedRepository(db *sql.DB, table string) *PostgresNamedRepository {
	return &PostgresNamedRepository{db: db, table: table}
}

func (r *PostgresNamedRepository) Create(ctx context.Context, rec models.Named) (models.Named, error) {
	query := `INSERT INTO ` + r.table + ` (id, name, user_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, rec.ID, rec.Name, rec.UserID, rec.CreatedAt, rec.UpdatedAt); err != nil {
		return models.Named{}, fmt.Errorf("insert into %s: %w", r.table, err)
	}
	return rec, nil
}

func (r *PostgresNamedRepository) ListByUser(ctx context.Context, userID string) ([]models.Named, error) {
	query := `SELECT id, name, user_id, created_at, updated_at FROM ` + r.table + ` WHERE user_id = $1`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()

	out := []models.Named{}
	for rows.Next() {
		var rec models.Named
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.UserID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresNamedRepository) GetByID(ctx context.Context, userID, id string) (models.Named, error) {
	query := `SELECT id, name, user_id, created_at, updated_at FROM ` + r.table + ` WHERE id = $1 AND user_id = $2`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var rec models.Named
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&rec.ID, &rec.Name, &rec.UserID, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Named{}, ErrRecordNotFound
	}
	if err != nil {
		return models.Named{}, fmt.Errorf("get %s: %w", r.table, err)
	}
	return rec, nil
}

func (r *PostgresNamedRepository) Update(ctx context.Context, rec models.Named) (models.Named, error) {
	query := `UPDATE ` + r.table + ` SET name = $1, updated_at = $2 WHERE id = $3 AND user_id = $4
		RETURNING id, name, user_id, created_at, updated_at`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var out models.Named
	err := r.db.QueryRowContext(ctx, query, rec.Name, rec.UpdatedAt, rec.ID, rec.UserID).
		Scan(&out.ID, &out.Name, &out.UserID, &out.CreatedAt, &out.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Named{}, ErrRecordNotFound
	}
	if err != nil {
		return models.Named{}, fmt.Errorf("update %s: %w", r.table, err)
	}
	return out, nil
}

func (r *PostgresNamedRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM ` + r.table + ` WHERE id = $1 AND user_id = $2`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", r.table, err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
