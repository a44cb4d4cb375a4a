package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/filter"
	"docvault/internal/http/middleware"
	"docvault/internal/repository"
	"docvault/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeErrorDetails(c, status, code, message, nil)
}

func writeErrorDetails(c *fiber.Ctx, status int, code, message string, details map[string]string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError translates a service error into the response envelope.
func writeServiceError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	var unknown *repository.UnknownFieldError
	switch {
	case errors.As(err, &verr):
		return writeErrorDetails(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid input", verr.Fields)
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	case errors.Is(err, filter.ErrInvalidPage):
		return writeError(c, fiber.StatusNotFound, "INVALID_PAGE", "invalid page")
	case errors.As(err, &unknown):
		return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "unsupported filter or ordering field")
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUnknownKind):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrUnauthorized):
		c.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="api"`)
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
	case errors.Is(err, service.ErrUnknownFileType):
		return writeError(c, fiber.StatusInternalServerError, "UNKNOWN_FILE_TYPE", "stored document has an unknown file type")
	case errors.Is(err, service.ErrDecryption):
		return writeError(c, fiber.StatusInternalServerError, "DECRYPTION_FAILED", "stored document could not be decrypted")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", fe.Message)
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
