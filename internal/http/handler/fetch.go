package handler

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/service"
)

// FetchFile godoc
// @Summary Download a decrypted original or thumbnail
// @Description kind is doc (original, as attachment) or thumb (PNG).
// @Tags files
// @Produce application/octet-stream
// @Param kind path string true "doc or thumb"
// @Param id path int true "Document ID"
// @Success 200 {file} binary
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Security BearerAuth
// @Router /fetch/{kind}/{id} [get]
func FetchFile(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind := service.FetchKind(c.Params("kind"))
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		f, err := svc.Fetch(c.UserContext(), id, kind)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, f.ContentType)
		if f.FileName != "" {
			c.Set(fiber.HeaderContentDisposition, attachmentDisposition(f.FileName))
		}
		return c.Send(f.Body)
	}
}

// attachmentDisposition always carries a quoted ASCII filename. Names with
// other characters add an RFC 5987 filename* that clients prefer.
func attachmentDisposition(name string) string {
	var ascii strings.Builder
	plain := true
	for _, r := range name {
		switch {
		case r == '"' || r == '\\':
			ascii.WriteByte('\\')
			ascii.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			ascii.WriteByte('_')
		case r >= utf8.RuneSelf:
			plain = false
			ascii.WriteByte('_')
		default:
			ascii.WriteRune(r)
		}
	}

	v := fmt.Sprintf(`attachment; filename="%s"`, ascii.String())
	if !plain {
		v += "; filename*=UTF-8''" + rfc5987Escape(name)
	}
	return v
}

func rfc5987Escape(s string) string {
	const attrChars = "!#$&+-.^_`|~"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || strings.IndexByte(attrChars, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}
