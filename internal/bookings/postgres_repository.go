package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// db is the subset of pgxpool.Pool the repository needs. Tests inject
// pgxmock through it.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores bookings in the relational database. Slot
// uniqueness is enforced by a unique index on (date, time, therapy_type),
// so a concurrent duplicate insert surfaces as ErrSlotTaken here even when
// the service-level pre-check raced.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("bookings: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting mocks for tests.
func NewPostgresRepositoryWithDB(db db) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ Repository = (*PostgresRepository)(nil)

const bookingColumns = `id, customer_name, therapy_type, date, "time", status, email, phone_number, detail, comment, created_at`

// Insert stores a new booking row.
func (r *PostgresRepository) Insert(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (id, customer_name, therapy_type, date, "time", status, email, phone_number, detail, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		b.ID,
		b.CustomerName,
		b.TherapyType,
		b.Date,
		b.Time,
		string(b.Status),
		b.Email,
		b.PhoneNumber,
		b.Detail,
		b.Comment,
	).Scan(&b.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrSlotTaken
		}
		return fmt.Errorf("bookings: insert failed: %w", err)
	}
	return nil
}

// GetByID fetches a booking by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// List returns bookings matching the optional date and therapy type filters.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE ($1 = '' OR date = $1)
		  AND ($2 = '' OR therapy_type = $2)
		ORDER BY date, "time"`
	rows, err := r.db.Query(ctx, query, filter.Date, filter.TherapyType)
	if err != nil {
		return nil, fmt.Errorf("bookings: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings: list rows: %w", err)
	}
	return out, nil
}

// FindBySlot looks up the booking occupying a slot.
func (r *PostgresRepository) FindBySlot(ctx context.Context, date, timeOfDay, therapyType string) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE date = $1 AND "time" = $2 AND therapy_type = $3`
	return r.scanOne(r.db.QueryRow(ctx, query, date, timeOfDay, therapyType))
}

// Update replaces all mutable fields of a booking row.
func (r *PostgresRepository) Update(ctx context.Context, b *Booking) error {
	query := `
		UPDATE bookings
		SET customer_name = $2, therapy_type = $3, date = $4, "time" = $5,
		    status = $6, email = $7, phone_number = $8, detail = $9, comment = $10
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		b.ID,
		b.CustomerName,
		b.TherapyType,
		b.Date,
		b.Time,
		string(b.Status),
		b.Email,
		b.PhoneNumber,
		b.Detail,
		b.Comment,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrSlotTaken
		}
		return fmt.Errorf("bookings: update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a booking row and returns the removed record.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (*Booking, error) {
	query := `DELETE FROM bookings WHERE id = $1 RETURNING ` + bookingColumns
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) scanOne(row pgx.Row) (*Booking, error) {
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var status string
	if err := row.Scan(
		&b.ID,
		&b.CustomerName,
		&b.TherapyType,
		&b.Date,
		&b.Time,
		&status,
		&b.Email,
		&b.PhoneNumber,
		&b.Detail,
		&b.Comment,
		&b.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("bookings: scan failed: %w", err)
	}
	b.Status = Status(status)
	return &b, nil
}
