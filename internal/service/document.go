package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"docvault/internal/crypto"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

// ListResult is one page of a list plus the total number of matches.
type ListResult[T any] struct {
	Items []T
	Total int
}

// OptionalID is a nullable reference that also records whether it was sent
// at all, so that "correspondent": null clears while an absent key keeps.
type OptionalID struct {
	Set bool
	ID  *int64
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.ID = nil
		return nil
	}
	var id int64
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	o.ID = &id
	return nil
}

// DocumentInput is the writable subset of a document. Nil fields are left as they are.
type DocumentInput struct {
	Title         *string    `json:"title" validate:"omitempty,max=128"`
	Content       *string    `json:"content"`
	Correspondent OptionalID `json:"correspondent"`
	Tags          *[]int64   `json:"tags" validate:"omitempty,dive,gt=0"`
	Created       *time.Time `json:"created"`
}

// FetchKind selects which stored blob of a document is served.
type FetchKind string

const (
	FetchDoc   FetchKind = "doc"
	FetchThumb FetchKind = "thumb"
)

// FetchedFile is a decrypted blob ready to be written to a client.
type FetchedFile struct {
	Body        []byte
	ContentType string
	// FileName is set for originals only; thumbnails are shown inline.
	FileName string
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// List returns one page of documents matching q.
	List(ctx context.Context, q repository.ListQuery) (*ListResult[model.Document], error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id int64) (*model.Document, error)

	// Update applies in after checking that every referenced correspondent and tag exists.
	Update(ctx context.Context, id int64, in DocumentInput) (*model.Document, error)

	// Delete removes the stored blobs of a document, then its record.
	Delete(ctx context.Context, id int64) error

	// Fetch decrypts the original or the thumbnail of a document.
	Fetch(ctx context.Context, id int64, kind FetchKind) (*FetchedFile, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store          storage.Storage
	cipher         *crypto.Cipher
	repo           repository.DocumentRepository
	correspondents repository.CorrespondentRepository
	tags           repository.TagRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(
	store storage.Storage,
	cipher *crypto.Cipher,
	repo repository.DocumentRepository,
	correspondents repository.CorrespondentRepository,
	tags repository.TagRepository,
) DocumentService {
	return &documentService{
		store:          store,
		cipher:         cipher,
		repo:           repo,
		correspondents: correspondents,
		tags:           tags,
	}
}

func (s *documentService) List(ctx context.Context, q repository.ListQuery) (*ListResult[model.Document], error) {
	res, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &ListResult[model.Document]{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) Get(ctx context.Context, id int64) (*model.Document, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Update(ctx context.Context, id int64, in DocumentInput) (*model.Document, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	upd := model.DocumentUpdate{
		Title:   in.Title,
		Content: in.Content,
		Created: in.Created,
	}

	if in.Correspondent.Set {
		if in.Correspondent.ID != nil {
			if _, err := s.correspondents.FindByID(ctx, *in.Correspondent.ID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return nil, newValidationError("correspondent", fmt.Sprintf("invalid id %d: object does not exist", *in.Correspondent.ID))
				}
				return nil, err
			}
		}
		upd.SetCorrespondent = true
		upd.CorrespondentID = in.Correspondent.ID
	}

	if in.Tags != nil {
		ids := lo.Uniq(*in.Tags)
		n, err := s.tags.CountByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		if n != len(ids) {
			return nil, newValidationError("tags", "one or more tags do not exist")
		}
		upd.TagIDs = &ids
	}

	doc, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Delete removes the blobs first; if that fails the record is kept so the
// keys are not lost.
func (s *documentService) Delete(ctx context.Context, id int64) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	for _, key := range []string{doc.SourceKey(), doc.ThumbnailKey()} {
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete storage: %w", err)
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

func (s *documentService) Fetch(ctx context.Context, id int64, kind FetchKind) (*FetchedFile, error) {
	if kind != FetchDoc && kind != FetchThumb {
		return nil, ErrUnknownKind
	}
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &FetchedFile{ContentType: "image/png"}
	key := doc.ThumbnailKey()
	if kind == FetchDoc {
		ct, err := doc.FileType.ContentType()
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFileType, doc.FileType)
		}
		out.ContentType = ct
		out.FileName = doc.FileName()
		key = doc.SourceKey()
	}

	rc, _, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get storage: %w", err)
	}
	defer rc.Close()

	body, err := s.cipher.DecryptReader(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	out.Body = body
	return out, nil
}
