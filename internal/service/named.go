package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/gosimple/slug"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// NamedInput is the write payload of correspondents and tags.
type NamedInput struct {
	Name *string `json:"name" validate:"omitempty,max=128"`
}

// NamedService covers the CRUD use cases of a resource identified by a
// unique name and the slug derived from it.
type NamedService[T any] interface {
	List(ctx context.Context, q repository.ListQuery) (*ListResult[T], error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, in NamedInput) (*T, error)
	// Update renames the resource. With partial set a missing name keeps
	// the current one; otherwise name is required.
	Update(ctx context.Context, id int64, in NamedInput, partial bool) (*T, error)
	Delete(ctx context.Context, id int64) error
}

type (
	CorrespondentService = NamedService[model.Correspondent]
	TagService           = NamedService[model.Tag]
)

// namedRepository is satisfied by both CorrespondentRepository and TagRepository.
type namedRepository[T any] interface {
	Create(ctx context.Context, v *T) (*T, error)
	FindByID(ctx context.Context, id int64) (*T, error)
	List(ctx context.Context, q repository.ListQuery) (*repository.PageResult[T], error)
	Update(ctx context.Context, v *T) (*T, error)
	Delete(ctx context.Context, id int64) error
}

type namedService[T any] struct {
	repo  namedRepository[T]
	build func(id int64, name, slug string) *T
}

// NewCorrespondentService constructs a CorrespondentService.
func NewCorrespondentService(repo repository.CorrespondentRepository) CorrespondentService {
	return &namedService[model.Correspondent]{
		repo:  repo,
		build: func(id int64, name, slug string) *model.Correspondent {
			return &model.Correspondent{ID: id, Name: name, Slug: slug}
		},
	}
}

// NewTagService constructs a TagService.
func NewTagService(repo repository.TagRepository) TagService {
	return &namedService[model.Tag]{
		repo:  repo,
		build: func(id int64, name, slug string) *model.Tag {
			return &model.Tag{ID: id, Name: name, Slug: slug}
		},
	}
}

func (s *namedService[T]) List(ctx context.Context, q repository.ListQuery) (*ListResult[T], error) {
	res, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &ListResult[T]{Items: res.Items, Total: res.Total}, nil
}

func (s *namedService[T]) Get(ctx context.Context, id int64) (*T, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *namedService[T]) Create(ctx context.Context, in NamedInput) (*T, error) {
	name, sl, err := normalizeName(in)
	if err != nil {
		return nil, err
	}
	v, err := s.repo.Create(ctx, s.build(0, name, sl))
	if err != nil {
		return nil, conflictToValidation(err)
	}
	return v, nil
}

func (s *namedService[T]) Update(ctx context.Context, id int64, in NamedInput, partial bool) (*T, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	if partial && in.Name == nil {
		return s.Get(ctx, id)
	}
	name, sl, err := normalizeName(in)
	if err != nil {
		return nil, err
	}
	v, err := s.repo.Update(ctx, s.build(id, name, sl))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, conflictToValidation(err)
	}
	return v, nil
}

func (s *namedService[T]) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrIDRequired
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// normalizeName trims and validates the name and derives its slug.
func normalizeName(in NamedInput) (name, sl string, err error) {
	if in.Name == nil {
		return "", "", newValidationError("name", "this field is required")
	}
	name = strings.TrimSpace(*in.Name)
	if name == "" {
		return "", "", newValidationError("name", "this field may not be blank")
	}
	if err := validateStruct(NamedInput{Name: &name}); err != nil {
		return "", "", err
	}
	sl = truncateSlug(slug.Make(name))
	if sl == "" {
		return "", "", newValidationError("name", "must contain at least one letter or digit")
	}
	return name, sl, nil
}

// maxSlugLength matches the slug columns. Transliteration can make a slug
// several times longer than its name.
const maxSlugLength = 128

// truncateSlug cuts s to maxSlugLength, preferring a word boundary. Slugs
// are ASCII, so cutting bytes is safe.
func truncateSlug(s string) string {
	if len(s) <= maxSlugLength {
		return s
	}
	s = s[:maxSlugLength]
	if i := strings.LastIndexByte(s, '-'); i > maxSlugLength/2 {
		s = s[:i]
	}
	return strings.Trim(s, "-")
}

func conflictToValidation(err error) error {
	var conflict *repository.ConflictError
	if !errors.As(err, &conflict) {
		return err
	}
	if conflict.Field == "slug" {
		return newValidationError("name", "a resource with a similar name already exists")
	}
	return newValidationError("name", "a resource with this name already exists")
}
