package handler

import (
	"github.com/gofiber/fiber/v2"

	"docvault/internal/filter"
	"docvault/internal/model"
	"docvault/internal/service"
)

// ListLogs godoc
// @Summary List log groups, newest first
// @Tags logs
// @Produce json
// @Param ordering query string false "time or -time"
// @Success 200 {object} pageResponse[model.LogGroup]
// @Security BearerAuth
// @Router /api/logs [get]
func ListLogs(svc service.LogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lq, page, q, err := parseList(c, filter.Logs)
		if err != nil {
			return writeServiceError(c, err)
		}
		res, err := svc.List(c.UserContext(), lq)
		if err != nil {
			return writeServiceError(c, err)
		}
		return writePage(c, q, page, res, identity[model.LogGroup])
	}
}

// GetLog godoc
// @Summary Get one log group
// @Tags logs
// @Produce json
// @Param group path string true "Group UUID"
// @Success 200 {object} model.LogGroup
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Router /api/logs/{group} [get]
func GetLog(svc service.LogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		g, err := svc.Get(c.UserContext(), c.Params("group"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(g)
	}
}
