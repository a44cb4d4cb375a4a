package handler

import (
	"github.com/gofiber/fiber/v2"

	"docvault/internal/service"
)

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// IssueToken godoc
// @Summary Exchange username and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body tokenRequest true "Credentials"
// @Success 200 {object} service.Token
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Router /api/token [post]
func IssueToken(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tokenRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object")
		}
		tok, err := svc.IssueToken(c.UserContext(), req.Username, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(tok)
	}
}
