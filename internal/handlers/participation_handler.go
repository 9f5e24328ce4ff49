package handlers

import (
	"esport-events-backend/internal/middleware"
	"esport-events-backend/internal/models"
	"esport-events-backend/internal/services"
	"esport-events-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ScoreRequest struct {
	// Score nil clears a previously recorded score.
	Score *int `json:"score" validate:"omitempty,gte=0"`
}

// RequestParticipation asks to join an event
// @Summary Request participation
// @Tags Participation
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 201 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /events/{id}/participation [post]
func (h *Handler) RequestParticipation(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	participation, err := h.participationSvc.Request(actorFrom(c), eventID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, participation, "Participation requested", fiber.StatusCreated)
}

func (h *Handler) CancelParticipation(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.participationSvc.Cancel(actorFrom(c), eventID); err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, nil, "Participation cancelled")
}

func (h *Handler) GetParticipationStatus(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	participation, err := h.participationSvc.Status(actorFrom(c), eventID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, participation, "Participation retrieved successfully")
}

// SelfValidateParticipation lets an organizer playing in their own event, or
// an administrator, accept their own request.
func (h *Handler) SelfValidateParticipation(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	participation, err := h.participationSvc.SelfValidate(actorFrom(c), eventID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, participation, "Participation validated")
}

// ListParticipations lists an event's participants. Only the organizer and
// administrators may filter on a status other than validated.
// @Param status query string false "pending, validated or refused"
// @Router /events/{id}/participations [get]
func (h *Handler) ListParticipations(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	participations, err := h.participationSvc.List(actorFrom(c), eventID, models.ParticipationStatus(c.Query("status")))
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, participations, "Participants retrieved successfully")
}

func (h *Handler) ValidateParticipation(c *fiber.Ctx) error {
	return h.moderateParticipation(c, h.participationSvc.Validate, "Participation validated")
}

func (h *Handler) RejectParticipation(c *fiber.Ctx) error {
	return h.moderateParticipation(c, h.participationSvc.Reject, "Participation rejected")
}

func (h *Handler) SetParticipationScore(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	req := middleware.Body[ScoreRequest](c)

	participation, err := h.participationSvc.SetScore(actorFrom(c), eventID, userID, req.Score)
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, participation, "Score recorded")
}

type moderateFunc func(actor services.Actor, eventID, userID uuid.UUID) (*services.ParticipationView, error)

func (h *Handler) moderateParticipation(c *fiber.Ctx, moderate moderateFunc, message string) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}

	participation, err := moderate(actorFrom(c), eventID, userID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, participation, message)
}
