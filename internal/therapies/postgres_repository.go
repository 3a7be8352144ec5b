package therapies

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// db is the subset of pgxpool.Pool the repository needs.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores therapy offerings in the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("therapies: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting mocks for tests.
func NewPostgresRepositoryWithDB(db db) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ Repository = (*PostgresRepository)(nil)

const therapyColumns = `id, name, description, category, price, duration_minutes, background_image, comments, massage_kind, body_zone, created_at`

func (r *PostgresRepository) Insert(ctx context.Context, t *Therapy) error {
	query := `
		INSERT INTO therapies (id, name, description, category, price, duration_minutes, background_image, comments, massage_kind, body_zone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		t.ID,
		t.Name,
		t.Description,
		string(t.Category),
		t.Price,
		t.DurationMinutes,
		t.BackgroundImage,
		t.Comments,
		t.MassageKind,
		t.BodyZone,
	).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("therapies: insert failed: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Therapy, error) {
	query := `SELECT ` + therapyColumns + ` FROM therapies WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) List(ctx context.Context) ([]*Therapy, error) {
	query := `SELECT ` + therapyColumns + ` FROM therapies ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("therapies: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Therapy
	for rows.Next() {
		t, err := scanTherapy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("therapies: list rows: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Update(ctx context.Context, t *Therapy) error {
	query := `
		UPDATE therapies
		SET name = $2, description = $3, category = $4, price = $5, duration_minutes = $6,
		    background_image = $7, comments = $8, massage_kind = $9, body_zone = $10
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		t.ID,
		t.Name,
		t.Description,
		string(t.Category),
		t.Price,
		t.DurationMinutes,
		t.BackgroundImage,
		t.Comments,
		t.MassageKind,
		t.BodyZone,
	)
	if err != nil {
		return fmt.Errorf("therapies: update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (*Therapy, error) {
	query := `DELETE FROM therapies WHERE id = $1 RETURNING ` + therapyColumns
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) scanOne(row pgx.Row) (*Therapy, error) {
	t, err := scanTherapy(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func scanTherapy(row pgx.Row) (*Therapy, error) {
	var t Therapy
	var category string
	if err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&category,
		&t.Price,
		&t.DurationMinutes,
		&t.BackgroundImage,
		&t.Comments,
		&t.MassageKind,
		&t.BodyZone,
		&t.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("therapies: scan failed: %w", err)
	}
	t.Category = Category(category)
	return &t, nil
}
