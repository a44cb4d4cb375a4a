package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"docvault/internal/database"
	"docvault/internal/model"
	"docvault/internal/repository"
)

const tagExists = "EXISTS (SELECT 1 FROM document_tags dt JOIN tags t ON t.id = dt.tag_id WHERE dt.document_id = d.id AND %s)"

var documentFields = fieldSet{
	"id":                  {expr: "d.id"},
	"title":               {expr: "d.title"},
	"content":             {expr: "d.content"},
	"created":             {expr: "d.created"},
	"modified":            {expr: "d.modified"},
	"correspondent__name": {expr: "c.name"},
	"correspondent__slug": {expr: "c.slug"},
	"tags__name":          {expr: "t.name", wrap: tagExists},
	"tags__slug":          {expr: "t.slug", wrap: tagExists},
}

var documentSearch = []string{"d.title", "c.name", "d.content"}

const documentFrom = `
		FROM documents d
		LEFT JOIN correspondents c ON c.id = d.correspondent_id`

const documentColumns = `
		SELECT d.id, d.correspondent_id, COALESCE(c.name, ''), d.title, d.content,
		       d.file_type, d.checksum, d.created, d.modified,
		       COALESCE((
		           SELECT json_agg(json_build_object('id', t.id, 'slug', t.slug) ORDER BY t.id)
		           FROM document_tags dt JOIN tags t ON t.id = dt.tag_id
		           WHERE dt.document_id = d.id
		       )::text, '[]')`

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d             model.Document
		correspondent sql.NullInt64
		tags          string
	)
	if err := row.Scan(
		&d.ID,
		&correspondent,
		&d.CorrespondentName,
		&d.Title,
		&d.Content,
		&d.FileType,
		&d.Checksum,
		&d.Created,
		&d.Modified,
		&tags,
	); err != nil {
		return nil, err
	}
	if correspondent.Valid {
		id := correspondent.Int64
		d.CorrespondentID = &id
	}
	if err := json.Unmarshal([]byte(tags), &d.Tags); err != nil {
		return nil, fmt.Errorf("decode tags of document %d: %w", d.ID, err)
	}
	return &d, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	q := documentColumns + documentFrom + `
		WHERE d.id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// List returns documents matching q and the total number of matches.
func (r *DocumentPostgres) List(ctx context.Context, q repository.ListQuery) (*repository.PageResult[model.Document], error) {
	var b builder
	if err := b.filter(documentFields, q.Conditions); err != nil {
		return nil, err
	}
	b.search(documentSearch, q.Search)
	order, err := orderClause(documentFields, q.Ordering, "d.id ASC")
	if err != nil {
		return nil, err
	}
	where := b.whereClause()

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+documentFrom+where, b.args...).Scan(&total); err != nil {
		return nil, err
	}

	limit, offset := b.arg(q.Limit), b.arg(q.Offset)
	rows, err := r.db.QueryContext(ctx, documentColumns+documentFrom+where+order+" LIMIT "+limit+" OFFSET "+offset, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

// Update applies upd inside one transaction and returns the stored document.
func (r *DocumentPostgres) Update(ctx context.Context, id int64, upd model.DocumentUpdate) (*model.Document, error) {
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var b builder
		sets := []string{"modified = now()"}
		if upd.Title != nil {
			sets = append(sets, "title = "+b.arg(*upd.Title))
		}
		if upd.Content != nil {
			sets = append(sets, "content = "+b.arg(*upd.Content))
		}
		if upd.Created != nil {
			sets = append(sets, "created = "+b.arg(*upd.Created))
		}
		if upd.SetCorrespondent {
			sets = append(sets, "correspondent_id = "+b.arg(upd.CorrespondentID))
		}
		q := "UPDATE documents SET " + strings.Join(sets, ", ") + " WHERE id = " + b.arg(id)

		res, err := tx.ExecContext(ctx, q, b.args...)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return sql.ErrNoRows
		}

		if upd.TagIDs == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM document_tags WHERE document_id = $1`, id); err != nil {
			return err
		}
		for _, tagID := range *upd.TagIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO document_tags (document_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				id, tagID,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Delete removes a document; its tag links go with it via ON DELETE CASCADE.
func (r *DocumentPostgres) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
