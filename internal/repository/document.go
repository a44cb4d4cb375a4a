package repository

import (
	"context"

	"docvault/internal/model"
)

// DocumentRepository defines data access for documents.
// No business logic here; strictly persistence operations.
type DocumentRepository interface {
	// FindByID returns a document with its correspondent name and tags.
	// It returns sql.ErrNoRows when the document does not exist.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// List returns a page of documents and the total number of matching rows.
	List(ctx context.Context, q ListQuery) (*PageResult[model.Document], error)

	// Update applies the non-nil fields of upd and bumps the modification time.
	// It returns sql.ErrNoRows when the document does not exist.
	Update(ctx context.Context, id int64, upd model.DocumentUpdate) (*model.Document, error)

	// Delete removes a document and its tag links.
	// It returns sql.ErrNoRows when the document does not exist.
	Delete(ctx context.Context, id int64) error
}
