package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docvault/internal/model"
	"docvault/internal/repository"
)

var documentRowColumns = []string{
	"id", "correspondent_id", "correspondent_name", "title", "content",
	"file_type", "checksum", "created", "modified", "tags",
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("found with correspondent and tags", func(t *testing.T) {
		rows := sqlmock.NewRows(documentRowColumns).
			AddRow(int64(7), int64(3), "ACME", "Invoice", "total due", "pdf", "abc", now, now,
				`[{"id": 1, "slug": "bills"}, {"id": 4, "slug": "tax"}]`)

		mock.ExpectQuery(`SELECT (.+) FROM documents d LEFT JOIN correspondents c ON c.id = d.correspondent_id WHERE d.id = \$1`).
			WithArgs(int64(7)).
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), doc.ID)
		require.NotNil(t, doc.CorrespondentID)
		assert.Equal(t, int64(3), *doc.CorrespondentID)
		assert.Equal(t, "ACME", doc.CorrespondentName)
		assert.Equal(t, model.FileTypePDF, doc.FileType)
		assert.Equal(t, []model.TagRef{{ID: 1, Slug: "bills"}, {ID: 4, Slug: "tax"}}, doc.Tags)
	})

	t.Run("found without correspondent", func(t *testing.T) {
		rows := sqlmock.NewRows(documentRowColumns).
			AddRow(int64(8), nil, "", "", "", "png", "def", now, now, "[]")

		mock.ExpectQuery(`SELECT (.+) FROM documents d`).
			WithArgs(int64(8)).
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, 8)
		require.NoError(t, err)
		assert.Nil(t, doc.CorrespondentID)
		assert.Empty(t, doc.Tags)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM documents d`).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, 99)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, doc)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("filters, search, ordering and paging", func(t *testing.T) {
		q := repository.ListQuery{
			Conditions: []repository.Condition{{Field: "title", Lookup: repository.LookupIStartsWith, Value: "inv"}},
			Search:     []string{"gas"},
			Ordering:   []repository.OrderBy{{Field: "created", Desc: true}},
			Limit:      25,
			Offset:     50,
		}

		mock.ExpectQuery(regexp.QuoteMeta(
			`SELECT COUNT(*) FROM documents d LEFT JOIN correspondents c ON c.id = d.correspondent_id `+
				`WHERE d.title ILIKE $1 AND (d.title ILIKE $2 OR c.name ILIKE $2 OR d.content ILIKE $2)`)).
			WithArgs("inv%", "%gas%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(51))

		mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY d.created DESC, d.id ASC LIMIT $3 OFFSET $4`)).
			WithArgs("inv%", "%gas%", 25, 50).
			WillReturnRows(sqlmock.NewRows(documentRowColumns).
				AddRow(int64(1), nil, "", "Invoice gas", "", "pdf", "a", now, now, "[]"))

		res, err := repo.List(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, 51, res.Total)
		assert.Len(t, res.Items, 1)
		assert.Equal(t, "Invoice gas", res.Items[0].Title)
	})

	t.Run("unknown ordering field is rejected", func(t *testing.T) {
		_, err := repo.List(ctx, repository.ListQuery{Ordering: []repository.OrderBy{{Field: "checksum"}}})
		var unknown *repository.UnknownFieldError
		assert.ErrorAs(t, err, &unknown)
	})

	t.Run("count error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT`).WillReturnError(errors.New("db down"))

		_, err := repo.List(ctx, repository.ListQuery{Limit: 25})
		assert.EqualError(t, err, "db down")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("fields and tags", func(t *testing.T) {
		title := "Renamed"
		corr := int64(3)
		tags := []int64{1, 2}

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE documents SET modified = now(), title = $1, correspondent_id = $2 WHERE id = $3`)).
			WithArgs("Renamed", corr, int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM document_tags WHERE document_id = $1`)).
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(`INSERT INTO document_tags`).WithArgs(int64(7), int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO document_tags`).WithArgs(int64(7), int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectQuery(`SELECT (.+) FROM documents d`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(documentRowColumns).
				AddRow(int64(7), int64(3), "ACME", "Renamed", "", "pdf", "a", now, now, `[{"id":1,"slug":"a"},{"id":2,"slug":"b"}]`))

		doc, err := repo.Update(ctx, 7, model.DocumentUpdate{
			Title:            &title,
			SetCorrespondent: true,
			CorrespondentID:  &corr,
			TagIDs:           &tags,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", doc.Title)
		assert.Equal(t, []int64{1, 2}, doc.TagIDs())
	})

	t.Run("missing document rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE documents SET modified = now\(\) WHERE id = \$1`).
			WithArgs(int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		doc, err := repo.Update(ctx, 9, model.DocumentUpdate{})
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, doc)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM documents WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(ctx, 7))

	mock.ExpectExec(`DELETE FROM documents WHERE id = \$1`).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, 8), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}
