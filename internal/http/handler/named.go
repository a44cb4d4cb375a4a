package handler

import (
	"github.com/gofiber/fiber/v2"

	"docvault/internal/filter"
	"docvault/internal/service"
)

// Correspondents and tags share one set of handlers, instantiated per
// resource in RegisterRoutes.

// ListNamed lists a named resource under set's filter and ordering policy.
func ListNamed[T any](svc service.NamedService[T], set filter.Set) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lq, page, q, err := parseList(c, set)
		if err != nil {
			return writeServiceError(c, err)
		}
		res, err := svc.List(c.UserContext(), lq)
		if err != nil {
			return writeServiceError(c, err)
		}
		return writePage(c, q, page, res, identity[T])
	}
}

func GetNamed[T any](svc service.NamedService[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		v, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(v)
	}
}

func CreateNamed[T any](svc service.NamedService[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.NamedInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object")
		}
		v, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(v)
	}
}

// UpdateNamed serves PUT (partial=false, name required) and PATCH.
func UpdateNamed[T any](svc service.NamedService[T], partial bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in service.NamedInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object")
		}
		v, err := svc.Update(c.UserContext(), id, in, partial)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(v)
	}
}

func DeleteNamed[T any](svc service.NamedService[T]) fiber.Handler {
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
