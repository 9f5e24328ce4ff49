package handlers

import (
	"strconv"

	"esport-events-backend/internal/models"
	"esport-events-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// ListModerationQueue lists events by status for administrators, pending by
// default.
// @Router /admin/events [get]
func (h *Handler) ListModerationQueue(c *fiber.Ctx) error {
	page, pageSize := pageParams(c)

	events, total, totalPages, err := h.eventSvc.ListForModeration(actorFrom(c), models.EventStatus(c.Query("status")), page, pageSize)
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.SuccessWithMeta(c, events, utils.NewMeta(page, pageSize, total, totalPages), "Events retrieved successfully")
}

func (h *Handler) ValidateEvent(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	event, err := h.eventSvc.ValidateEvent(actorFrom(c), eventID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, event, "Event validated")
}

func (h *Handler) RefuseEvent(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	event, err := h.eventSvc.RefuseEvent(actorFrom(c), eventID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, event, "Event refused")
}

// RefreshStatuses runs the lifecycle sweep now
// @Summary Refresh event statuses
// @Tags Admin
// @Security BearerAuth
// @Param dry_run query bool false "Compute without saving"
// @Success 200 {object} utils.Response
// @Router /admin/events/refresh-status [post]
func (h *Handler) RefreshStatuses(c *fiber.Ctx) error {
	dryRun, _ := strconv.ParseBool(c.Query("dry_run", "false"))

	if dryRun {
		result, err := h.lifecycleSvc.Preview()
		if err != nil {
			return handleServiceError(c, err)
		}
		return utils.Success(c, result, "Status sweep preview")
	}

	result, err := h.lifecycleSvc.UpdateAll()
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, result, "Event statuses refreshed")
}
