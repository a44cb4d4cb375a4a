package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"docvault/internal/http/middleware"
	"docvault/internal/service"
)

const (
	pushAccepted = "1"
	pushRejected = "0"
)

// PushDocument godoc
// @Summary Submit a signed document for consumption
// @Description Unauthenticated and exempt from CSRF checks: the signature
// @Description hex(sha256(correspondent + title + shared secret)) is the only gate.
// @Description Responds 200 with body 1 when accepted and 0 when rejected.
// @Tags upload
// @Accept multipart/form-data
// @Produce plain
// @Param document formData file true "PDF, PNG, JPEG, GIF or TIFF"
// @Param title formData string false "Document title"
// @Param correspondent formData string false "Correspondent name"
// @Param signature formData string true "Upload signature"
// @Success 200 {string} string "1 or 0"
// @Failure 500 {object} errorPayload
// @Router /push [post]
func PushDocument(svc service.UploadService, log *zap.Logger) fiber.Handler {
	log = log.Named("push")

	return func(c *fiber.Ctx) error {
		reject := func(reason string, fields ...zap.Field) error {
			log.Info("upload_rejected", append(fields,
				zap.String("request_id", middleware.RequestIDFromCtx(c)),
				zap.String("reason", reason),
			)...)
			return c.SendString(pushRejected)
		}

		var form service.UploadForm
		if err := c.BodyParser(&form); err != nil {
			return reject("malformed form")
		}
		fh, err := c.FormFile("document")
		if err != nil {
			return reject("document missing")
		}
		f, err := fh.Open()
		if err != nil {
			return reject("document unreadable")
		}
		defer f.Close()

		key, err := svc.Accept(c.UserContext(), form, f, fh.Size)
		if err != nil {
			var verr *service.ValidationError
			if errors.As(err, &verr) {
				return reject("invalid", zap.Any("fields", verr.Fields))
			}
			log.Error("upload_failed", zap.String("request_id", middleware.RequestIDFromCtx(c)), zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		log.Info("upload_accepted", zap.String("request_id", middleware.RequestIDFromCtx(c)), zap.String("key", key))
		return c.SendString(pushAccepted)
	}
}
