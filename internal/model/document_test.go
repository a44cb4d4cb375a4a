package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileType_ContentType(t *testing.T) {
	tests := []struct {
		ft   FileType
		want string
	}{
		{FileTypePDF, "application/pdf"},
		{FileTypePNG, "image/png"},
		{FileTypeJPG, "image/jpeg"},
		{FileTypeGIF, "image/gif"},
		{FileTypeTIFF, "image/tiff"},
	}
	for _, tt := range tests {
		t.Run(string(tt.ft), func(t *testing.T) {
			got, err := tt.ft.ContentType()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FileType("docx").ContentType()
	assert.ErrorIs(t, err, ErrUnknownFileType)
}

func TestFileTypeFromMIME(t *testing.T) {
	ft, ok := FileTypeFromMIME("image/jpeg")
	assert.True(t, ok)
	assert.Equal(t, FileTypeJPG, ft)

	_, ok = FileTypeFromMIME("text/plain")
	assert.False(t, ok)
}

func TestDocument_Keys(t *testing.T) {
	d := &Document{ID: 42, FileType: FileTypePDF}
	assert.Equal(t, "originals/0000042.pdf.enc", d.SourceKey())
	assert.Equal(t, "thumbnails/0000042.png.enc", d.ThumbnailKey())
}

func TestDocument_FileName(t *testing.T) {
	t.Run("falls back to padded id without correspondent", func(t *testing.T) {
		d := &Document{ID: 7, Title: "Invoice", FileType: FileTypePNG}
		assert.Equal(t, "0000007.png", d.FileName())
	})

	t.Run("falls back to padded id without title", func(t *testing.T) {
		d := &Document{ID: 7, CorrespondentName: "ACME", FileType: FileTypePNG}
		assert.Equal(t, "0000007.png", d.FileName())
	})

	t.Run("correspondent and title", func(t *testing.T) {
		d := &Document{ID: 7, CorrespondentName: "ACME", Title: "Invoice", FileType: FileTypePDF}
		assert.Equal(t, "ACME - Invoice.pdf", d.FileName())
	})

	t.Run("with tags", func(t *testing.T) {
		d := &Document{
			ID:                7,
			CorrespondentName: "ACME",
			Title:             "Invoice",
			FileType:          FileTypePDF,
			Tags:              []TagRef{{ID: 1, Slug: "bills"}, {ID: 2, Slug: "tax-2024"}},
		}
		assert.Equal(t, "ACME - Invoice - bills,tax-2024.pdf", d.FileName())
		assert.Equal(t, []int64{1, 2}, d.TagIDs())
	})
}
