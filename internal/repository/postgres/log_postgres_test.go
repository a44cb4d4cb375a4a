package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docvault/internal/model"
	"docvault/internal/repository"
)

const testGroup = "5f0c9a4e-2b1d-4c3e-9f8a-0e1d2c3b4a59"

func TestLogPostgres_ListGroups(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLogPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("newest first", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(DISTINCT grp) FROM logs`)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM logs GROUP BY grp ORDER BY MAX(modified) DESC, grp ASC LIMIT $1 OFFSET $2`)).
			WithArgs(25, 0).
			WillReturnRows(sqlmock.NewRows([]string{"grp", "max", "messages"}).
				AddRow(testGroup, now, "consumed\nthumbnailed"))

		res, err := repo.ListGroups(ctx, repository.ListQuery{
			Ordering: []repository.OrderBy{{Field: "time", Desc: true}},
			Limit:    25,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		require.Len(t, res.Items, 1)
		assert.Equal(t, model.LogGroup{Group: testGroup, Time: now, Messages: "consumed\nthumbnailed"}, res.Items[0])
	})

	t.Run("conditions are rejected", func(t *testing.T) {
		_, err := repo.ListGroups(ctx, repository.ListQuery{
			Conditions: []repository.Condition{{Field: "time", Value: "x"}},
		})
		var unknown *repository.UnknownFieldError
		assert.ErrorAs(t, err, &unknown)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogPostgres_FindGroup(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLogPostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM logs WHERE grp = $1 GROUP BY grp`)).
		WithArgs(testGroup).
		WillReturnRows(sqlmock.NewRows([]string{"grp", "max", "messages"}).AddRow(testGroup, now, "hello"))

	g, err := repo.FindGroup(context.Background(), testGroup)
	require.NoError(t, err)
	assert.Equal(t, "hello", g.Messages)

	mock.ExpectQuery(`FROM logs WHERE grp`).
		WithArgs(testGroup).
		WillReturnError(sql.ErrNoRows)
	_, err = repo.FindGroup(context.Background(), testGroup)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogPostgres_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLogPostgres(db)

	mock.ExpectQuery(`INSERT INTO logs \(grp, message, level, component, created, modified\)`).
		WithArgs(testGroup, "Document uploaded", int(model.LogLevelInfo), int(model.LogComponentAPI), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))

	e := &model.LogEntry{
		Group:     testGroup,
		Message:   "Document uploaded",
		Level:     model.LogLevelInfo,
		Component: model.LogComponentAPI,
	}
	require.NoError(t, repo.Append(context.Background(), e))
	assert.Equal(t, int64(12), e.ID)
	assert.False(t, e.Created.IsZero())
	assert.Equal(t, e.Created, e.Modified)
	assert.NoError(t, mock.ExpectationsWereMet())
}
