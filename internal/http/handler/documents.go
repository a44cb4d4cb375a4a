package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/filter"
	"docvault/internal/model"
	"docvault/internal/service"
)

// documentResponse is the wire form of a document.
type documentResponse struct {
	ID                int64     `json:"id"`
	Correspondent     *int64    `json:"correspondent"`
	CorrespondentName string    `json:"correspondent_name,omitempty"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	FileType          string    `json:"file_type"`
	Tags              []int64   `json:"tags"`
	Checksum          string    `json:"checksum"`
	Created           time.Time `json:"created"`
	Modified          time.Time `json:"modified"`
	FileName          string    `json:"file_name"`
	DownloadURL       string    `json:"download_url"`
	ThumbnailURL      string    `json:"thumbnail_url"`
}

func toDocumentResponse(d model.Document) documentResponse {
	return documentResponse{
		ID:                d.ID,
		Correspondent:     d.CorrespondentID,
		CorrespondentName: d.CorrespondentName,
		Title:             d.Title,
		Content:           d.Content,
		FileType:          string(d.FileType),
		Tags:              d.TagIDs(),
		Checksum:          d.Checksum,
		Created:           d.Created,
		Modified:          d.Modified,
		FileName:          d.FileName(),
		DownloadURL:       fmt.Sprintf("/fetch/%s/%d", service.FetchDoc, d.ID),
		ThumbnailURL:      fmt.Sprintf("/fetch/%s/%d", service.FetchThumb, d.ID),
	}
}

// ListDocuments godoc
// @Summary List documents
// @Description Filter with <field>[__<lookup>], order with ordering=, full-text with search=.
// @Tags documents
// @Produce json
// @Param page query int false "Page number"
// @Param page-size query int false "Page size"
// @Param ordering query string false "Comma separated fields, - for descending"
// @Param search query string false "Terms matched against title, correspondent and content"
// @Success 200 {object} pageResponse[documentResponse]
// @Failure 401 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Router /api/documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lq, page, q, err := parseList(c, filter.Documents)
		if err != nil {
			return writeServiceError(c, err)
		}
		res, err := svc.List(c.UserContext(), lq)
		if err != nil {
			return writeServiceError(c, err)
		}
		return writePage(c, q, page, res, toDocumentResponse)
	}
}

// GetDocument godoc
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} documentResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Router /api/documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(toDocumentResponse(*doc))
	}
}

// UpdateDocument handles both PUT and PATCH; only the fields present in the
// body are changed.
//
// @Summary Update a document
// @Tags documents
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Param body body service.DocumentInput true "Fields to change"
// @Success 200 {object} documentResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Router /api/documents/{id} [put]
// @Router /api/documents/{id} [patch]
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in service.DocumentInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object")
		}
		doc, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(toDocumentResponse(*doc))
	}
}

// DeleteDocument godoc
// @Summary Delete a document and its stored files
// @Tags documents
// @Param id path int true "Document ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Router /api/documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
