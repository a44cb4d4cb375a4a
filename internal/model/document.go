package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// FileType is the format of a document's original file.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypePNG  FileType = "png"
	FileTypeJPG  FileType = "jpg"
	FileTypeGIF  FileType = "gif"
	FileTypeTIFF FileType = "tiff"
)

// ErrUnknownFileType is returned when a stored file type has no known content type.
var ErrUnknownFileType = errors.New("unknown file type")

var contentTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypePNG:  "image/png",
	FileTypeJPG:  "image/jpeg",
	FileTypeGIF:  "image/gif",
	FileTypeTIFF: "image/tiff",
}

// FileTypes lists every supported file type.
func FileTypes() []FileType {
	return []FileType{FileTypePDF, FileTypePNG, FileTypeJPG, FileTypeGIF, FileTypeTIFF}
}

// ContentType returns the MIME type served for the file type.
func (t FileType) ContentType() (string, error) {
	ct, ok := contentTypes[t]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFileType, string(t))
	}
	return ct, nil
}

// FileTypeFromMIME maps a detected MIME type back to a FileType.
func FileTypeFromMIME(mime string) (FileType, bool) {
	for ft, ct := range contentTypes {
		if ct == mime {
			return ft, true
		}
	}
	return "", false
}

// TagRef is the slice of a tag carried on a document.
type TagRef struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
}

// Document is a consumed file. Its original and thumbnail are stored
// encrypted in the object store under keys derived from ID and FileType.
type Document struct {
	ID                int64     `json:"id"`
	CorrespondentID   *int64    `json:"correspondent"`
	CorrespondentName string    `json:"correspondent_name,omitempty"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	FileType          FileType  `json:"file_type"`
	Checksum          string    `json:"checksum"`
	Tags              []TagRef  `json:"-"`
	Created           time.Time `json:"created"`
	Modified          time.Time `json:"modified"`
}

// SourceKey is the object key of the encrypted original.
func (d *Document) SourceKey() string {
	return fmt.Sprintf("originals/%07d.%s.enc", d.ID, d.FileType)
}

// ThumbnailKey is the object key of the encrypted PNG thumbnail.
func (d *Document) ThumbnailKey() string {
	return fmt.Sprintf("thumbnails/%07d.png.enc", d.ID)
}

// FileName is the name offered to clients downloading the original.
func (d *Document) FileName() string {
	if d.CorrespondentName == "" || d.Title == "" {
		return fmt.Sprintf("%07d.%s", d.ID, d.FileType)
	}
	if len(d.Tags) == 0 {
		return fmt.Sprintf("%s - %s.%s", d.CorrespondentName, d.Title, d.FileType)
	}
	slugs := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		slugs = append(slugs, t.Slug)
	}
	return fmt.Sprintf("%s - %s - %s.%s", d.CorrespondentName, d.Title, strings.Join(slugs, ","), d.FileType)
}

// TagIDs returns the ids of the document's tags in stored order.
func (d *Document) TagIDs() []int64 {
	ids := make([]int64, 0, len(d.Tags))
	for _, t := range d.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// DocumentUpdate carries the writable fields of a document. Nil fields are left unchanged.
type DocumentUpdate struct {
	Title            *string
	Content          *string
	Created          *time.Time
	SetCorrespondent bool
	CorrespondentID  *int64
	TagIDs           *[]int64
}
