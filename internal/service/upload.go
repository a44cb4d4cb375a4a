package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

// sniffLen is how many leading bytes filetype needs to recognise a format.
const sniffLen = 262

// UploadForm is the text part of a pushed document.
type UploadForm struct {
	Title         string `form:"title" validate:"omitempty,max=128,safe"`
	Correspondent string `form:"correspondent" validate:"omitempty,max=128,safe"`
	Signature     string `form:"signature" validate:"required,max=256"`
}

// UploadService accepts signed documents into the consumption area.
type UploadService interface {
	// Accept validates the form and the file content, then stores the file
	// for the consumer. Rejections are *ValidationError; any other error is
	// an infrastructure failure.
	Accept(ctx context.Context, form UploadForm, file io.Reader, size int64) (string, error)
}

type uploadService struct {
	store  storage.Storage
	logs   repository.LogRepository
	secret string
	prefix string
}

func NewUploadService(store storage.Storage, logs repository.LogRepository, secret, prefix string) UploadService {
	return &uploadService{store: store, logs: logs, secret: secret, prefix: strings.TrimSuffix(prefix, "/")}
}

// Signature is the value a client must send for the given correspondent and title.
func Signature(correspondent, title, secret string) string {
	sum := sha256.Sum256([]byte(correspondent + title + secret))
	return hex.EncodeToString(sum[:])
}

func (s *uploadService) Accept(ctx context.Context, form UploadForm, file io.Reader, size int64) (string, error) {
	if file == nil {
		return "", newValidationError("document", "this field is required")
	}
	if err := validateStruct(form); err != nil {
		return "", err
	}

	want := Signature(form.Correspondent, form.Title, s.secret)
	if subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(form.Signature))) != 1 {
		return "", newValidationError("signature", "does not match")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	kind, _ := filetype.Match(head)
	ft, ok := model.FileTypeFromMIME(kind.MIME.Value)
	if !ok {
		return "", newValidationError("document", "file type is not supported")
	}

	key := s.objectKey(form, ft)
	if _, err := s.store.Put(ctx, key, io.MultiReader(bytes.NewReader(head), file), storage.PutObjectOptions{
		Size:        size,
		ContentType: kind.MIME.Value,
		Metadata: map[string]string{
			"title":         form.Title,
			"correspondent": form.Correspondent,
		},
	}); err != nil {
		return "", fmt.Errorf("upload to storage: %w", err)
	}

	entry := &model.LogEntry{
		Group:     uuid.NewString(),
		Message:   fmt.Sprintf("Document received via API: %s", key),
		Level:     model.LogLevelInfo,
		Component: model.LogComponentAPI,
	}
	if err := s.logs.Append(ctx, entry); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return "", fmt.Errorf("log append failed: %v; rollback delete failed: %v", err, delErr)
		}
		return "", fmt.Errorf("log append failed: %w", err)
	}
	return key, nil
}

// objectKey names the file the way the consumer parses it, with a random
// suffix so concurrent uploads of the same title never overwrite each other.
func (s *uploadService) objectKey(form UploadForm, ft model.FileType) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{form.Correspondent, form.Title} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	base := strings.Join(parts, " - ")
	if base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%s/%s.%s.%s", s.prefix, base, uuid.NewString()[:8], ft)
}
