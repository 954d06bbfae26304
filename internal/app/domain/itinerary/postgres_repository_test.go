package itinerary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/models"
)

var rowColumns = []string{
	"id", "user_id", "title", "destination", "start_date", "end_date", "total_days",
	"total_budget", "actual_cost", "travelers", "travel_style", "days", "summary",
	"recommendations", "status", "tags", "is_public", "created_at", "updated_at",
}

func addItineraryRow(rows *pgxmock.Rows, id, userID, title string, created time.Time) *pgxmock.Rows {
	return rows.AddRow(
		id, userID, title, "Beijing", created, created.AddDate(0, 0, 3), 4,
		5000, 4200.0, 2, "relaxed", []byte(`[]`), "a trip",
		[]byte(`["pack light"]`), "draft", []string{"culture"}, false, created, (*time.Time)(nil),
	)
}

func TestPostgresRepositoryList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// Count and page queries run concurrently.
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM itineraries`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT id, user_id`).
		WithArgs("user-1").
		WillReturnRows(addItineraryRow(pgxmock.NewRows(rowColumns), "it-1", "user-1", "Beijing Trip",
			time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)))

	repo := NewPostgresRepository(mock, zap.NewNop())
	page, err := repo.List(context.Background(), "user-1", models.ItineraryFilter{})
	require.NoError(t, err)

	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Beijing Trip", page.Items[0].Title)
	assert.Equal(t, []string{"pack light"}, page.Items[0].Recommendations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryListFilterArgs(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM itineraries`).
		WithArgs("user-1", "%wall%", "%wall%", "%wall%", "completed").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT id, user_id`).
		WithArgs("user-1", "%wall%", "%wall%", "%wall%", "completed").
		WillReturnRows(pgxmock.NewRows(rowColumns))

	repo := NewPostgresRepository(mock, zap.NewNop())
	page, err := repo.List(context.Background(), "user-1", models.ItineraryFilter{
		Search: "wall",
		Status: models.StatusCompleted,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT(.|\s)*FROM itineraries(.|\s)*WHERE id = \$1 AND user_id = \$2`).
		WithArgs("it-1", "user-1").
		WillReturnRows(addItineraryRow(pgxmock.NewRows(rowColumns), "it-1", "user-1", "Trip", created))

	repo := NewPostgresRepository(mock, zap.NewNop())
	got, err := repo.GetByID(context.Background(), "it-1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "it-1", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryGetByIDMiss(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT(.|\s)*FROM itineraries`).
		WithArgs("it-404", "user-1").
		WillReturnRows(pgxmock.NewRows(rowColumns))

	repo := NewPostgresRepository(mock, zap.NewNop())
	got, err := repo.GetByID(context.Background(), "it-404", "user-1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositorySaveStampsAndScopes(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO itineraries`).
		WithArgs(
			"it-1", "user-1", "Trip", "Tokyo", pgxmock.AnyArg(), pgxmock.AnyArg(), 0,
			0, 0.0, 0, "", pgxmock.AnyArg(), "", pgxmock.AnyArg(), "draft",
			pgxmock.AnyArg(), false, pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPostgresRepository(mock, zap.NewNop())
	saved, err := repo.Save(context.Background(), &models.Itinerary{
		ID:          "it-1",
		Title:       "Trip",
		Destination: "Tokyo",
	}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", saved.UserID)
	assert.Equal(t, models.StatusDraft, saved.Status)
	assert.False(t, saved.CreatedAt.IsZero())
	require.NotNil(t, saved.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM itineraries`).
		WithArgs("it-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM itineraries`).
		WithArgs("it-404", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewPostgresRepository(mock, zap.NewNop())

	deleted, err := repo.Delete(context.Background(), "it-1", "user-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(context.Background(), "it-404", "user-1")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRowRoundTrip(t *testing.T) {
	updated := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	it := models.Itinerary{
		ID:          "it-1",
		UserID:      "user-1",
		Title:       "Trip",
		Destination: "Paris",
		StartDate:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		TotalDays:   4,
		TotalBudget: 2500,
		ActualCost:  2100.5,
		Travelers:   2,
		Days: []models.Day{{
			Day:   1,
			Stops: []models.Stop{{ID: "stop-1-1", Category: models.CategoryAttraction}},
		}},
		Recommendations: []string{"bring a raincoat"},
		Status:          models.StatusConfirmed,
		Tags:            []string{"romance"},
		CreatedAt:       time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:       &updated,
	}

	row, err := toRow(it)
	require.NoError(t, err)
	back, err := fromRow(row)
	require.NoError(t, err)
	assert.Equal(t, it, back)
}

func TestIsUndefinedTable(t *testing.T) {
	assert.True(t, isUndefinedTable(&pgconn.PgError{Code: undefinedTableCode}))
	assert.False(t, isUndefinedTable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUndefinedTable(errors.New("relation \"itineraries\" does not exist")))
}
