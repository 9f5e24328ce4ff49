package handlers

import (
	"esport-events-backend/internal/middleware"
	"esport-events-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// ListComments returns an event's comments, newest first
// @Summary List comments
// @Tags Comments
// @Produce json
// @Param id path string true "Event ID"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} utils.Response
// @Router /events/{id}/comments [get]
func (h *Handler) ListComments(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	page, pageSize := pageParams(c)

	comments, total, totalPages, err := h.commentSvc.List(actorFrom(c), eventID, page, pageSize)
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.SuccessWithMeta(c, comments, utils.NewMeta(page, pageSize, total, totalPages), "Comments retrieved successfully")
}

func (h *Handler) PostComment(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	req := middleware.Body[CommentRequest](c)

	comment, err := h.commentSvc.Post(actorFrom(c), eventID, req.Content)
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, comment, "Comment posted", fiber.StatusCreated)
}

func (h *Handler) DeleteComment(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	commentID, err := uuidParam(c, "commentId")
	if err != nil {
		return err
	}

	if err := h.commentSvc.Delete(actorFrom(c), eventID, commentID); err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, nil, "Comment deleted")
}
