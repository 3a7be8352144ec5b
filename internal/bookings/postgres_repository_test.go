package bookings

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingRowColumns = []string{
	"id", "customer_name", "therapy_type", "date", "time",
	"status", "email", "phone_number", "detail", "comment", "created_at",
}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgresRepositoryWithDB(mock)
}

func TestPostgresInsert(t *testing.T) {
	mock, repo := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs("b1", "Ana", TherapyQuiromasaje, "2026-09-15", "10:00", "booked", "ana@example.com", "612345678", "Relajante", "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	b := &Booking{
		ID:           "b1",
		CustomerName: "Ana",
		TherapyType:  TherapyQuiromasaje,
		Date:         "2026-09-15",
		Time:         "10:00",
		Status:       StatusBooked,
		Email:        "ana@example.com",
		PhoneNumber:  "612345678",
		Detail:       "Relajante",
	}
	require.NoError(t, repo.Insert(context.Background(), b))
	assert.Equal(t, now, b.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInsertUniqueViolation(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "bookings_slot_idx"})

	err := repo.Insert(context.Background(), &Booking{ID: "b1", Status: StatusBooked})
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByID(t *testing.T) {
	mock, repo := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs("b1").
		WillReturnRows(pgxmock.NewRows(bookingRowColumns).
			AddRow("b1", "Ana", TherapyQuiromasaje, "2026-09-15", "10:00", "booked", "", "", "", "", now))

	b, err := repo.GetByID(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", b.CustomerName)
	assert.Equal(t, StatusBooked, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresFindBySlot(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE date = $1 AND "time" = $2 AND therapy_type = $3`)).
		WithArgs("2026-09-15", "10:00", TherapyQuiromasaje).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindBySlot(context.Background(), "2026-09-15", "10:00", TherapyQuiromasaje)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresList(t *testing.T) {
	mock, repo := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings")).
		WithArgs("2026-09-15", "").
		WillReturnRows(pgxmock.NewRows(bookingRowColumns).
			AddRow("b1", "Ana", TherapyQuiromasaje, "2026-09-15", "10:00", "booked", "", "", "", "", now).
			AddRow("b2", "Luis", TherapyOsteopatia, "2026-09-15", "11:00", "booked", "", "", "", "", now))

	list, err := repo.List(context.Background(), ListFilter{Date: "2026-09-15"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana", list[0].CustomerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdate(t *testing.T) {
	mock, repo := newMockRepo(t)

	b := &Booking{ID: "b1", CustomerName: "Ana", TherapyType: TherapyQuiromasaje, Date: "2026-09-15", Time: "10:00", Status: StatusCompleted}

	t.Run("ok", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
			WithArgs("b1", "Ana", TherapyQuiromasaje, "2026-09-15", "10:00", "completed", "", "", "", "").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		assert.NoError(t, repo.Update(context.Background(), b))
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		assert.ErrorIs(t, repo.Update(context.Background(), b), ErrNotFound)
	})

	t.Run("slot collision", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		assert.ErrorIs(t, repo.Update(context.Background(), b), ErrSlotTaken)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDelete(t *testing.T) {
	mock, repo := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM bookings WHERE id = $1 RETURNING")).
		WithArgs("b1").
		WillReturnRows(pgxmock.NewRows(bookingRowColumns).
			AddRow("b1", "Ana", TherapyQuiromasaje, "2026-09-15", "10:00", "booked", "", "", "", "", now))

	b, err := repo.Delete(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
