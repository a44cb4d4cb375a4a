package middleware

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/model"
	"docvault/internal/service"
)

// UserLocalKey is the key under which RequireAuth stores the *model.User.
const UserLocalKey = "user"

const authChallenge = `Bearer realm="api", Basic realm="api"`

// RequireAuth admits requests carrying either a bearer token or HTTP basic
// credentials. Rejections are returned as 401 fiber errors so the global
// error handler renders them; the challenge header is already set.
func RequireAuth(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authenticate(c, auth)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				c.Set(fiber.HeaderWWWAuthenticate, authChallenge)
				return fiber.NewError(fiber.StatusUnauthorized, "authentication credentials were not provided or are invalid")
			}
			return err
		}
		c.Locals(UserLocalKey, user)
		return c.Next()
	}
}

// UserFromCtx returns the user set by RequireAuth, or nil.
func UserFromCtx(c *fiber.Ctx) *model.User {
	u, _ := c.Locals(UserLocalKey).(*model.User)
	return u
}

func authenticate(c *fiber.Ctx, auth service.AuthService) (*model.User, error) {
	scheme, cred, ok := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
	if !ok {
		return nil, service.ErrUnauthorized
	}
	cred = strings.TrimSpace(cred)

	switch strings.ToLower(scheme) {
	case "bearer":
		return auth.VerifyToken(c.UserContext(), cred)
	case "basic":
		raw, err := base64.StdEncoding.DecodeString(cred)
		if err != nil {
			return nil, service.ErrUnauthorized
		}
		username, password, ok := strings.Cut(string(raw), ":")
		if !ok {
			return nil, service.ErrUnauthorized
		}
		return auth.Authenticate(c.UserContext(), username, password)
	default:
		return nil, service.ErrUnauthorized
	}
}
