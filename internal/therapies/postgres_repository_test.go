package therapies

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var therapyRowColumns = []string{
	"id", "name", "description", "category", "price", "duration_minutes",
	"background_image", "comments", "massage_kind", "body_zone", "created_at",
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
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO therapies")).
		WithArgs("t1", "Quiromasaje", "Masaje de espalda", "relaxing", 45.0, 60, "", []string{"muy bien"}, "Relajante", "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	th := &Therapy{
		ID:              "t1",
		Name:            "Quiromasaje",
		Description:     "Masaje de espalda",
		Category:        CategoryRelaxing,
		Price:           45.0,
		DurationMinutes: 60,
		Comments:        []string{"muy bien"},
		MassageKind:     "Relajante",
	}
	require.NoError(t, repo.Insert(context.Background(), th))
	assert.Equal(t, now, th.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByID(t *testing.T) {
	mock, repo := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM therapies WHERE id = $1")).
		WithArgs("t1").
		WillReturnRows(pgxmock.NewRows(therapyRowColumns).
			AddRow("t1", "Quiromasaje", "Masaje de espalda", "relaxing", 45.0, 60, "", []string{}, "Relajante", "", now))

	th, err := repo.GetByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, CategoryRelaxing, th.Category)
	assert.Equal(t, 60, th.DurationMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM therapies WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresUpdateMissingRow(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE therapies")).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &Therapy{ID: "missing", Category: CategoryRelaxing})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresDelete(t *testing.T) {
	mock, repo := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM therapies WHERE id = $1 RETURNING")).
		WithArgs("t1").
		WillReturnRows(pgxmock.NewRows(therapyRowColumns).
			AddRow("t1", "Quiromasaje", "Masaje de espalda", "relaxing", 45.0, 60, "", []string{}, "", "", now))

	th, err := repo.Delete(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", th.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
