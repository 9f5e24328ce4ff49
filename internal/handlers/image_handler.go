package handlers

import (
	"esport-events-backend/internal/middleware"
	"esport-events-backend/internal/services"
	"esport-events-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AddImagesRequest is the JSON form of POST /events/:id/images. Multipart
// requests send files under "images" instead.
type AddImagesRequest struct {
	URL         string            `json:"url"`
	Description string            `json:"description" validate:"max=500"`
	Images      []ImageURLRequest `json:"images" validate:"omitempty,dive"`
}

type ImageOrderRequest struct {
	Order []string `json:"order" validate:"required,min=1"`
}

type ImageOrderResult struct {
	Persisted bool `json:"persisted"`
}

func (h *Handler) AddImages(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	images := uploadedImages(c)
	if images == nil {
		var req AddImagesRequest
		if err := middleware.ParseAndValidate(c, &req); err != nil {
			return utils.Error(c, err.Error(), fiber.StatusBadRequest)
		}
		if req.URL != "" {
			images = append(images, services.NewImage{URL: req.URL, Description: req.Description})
		}
		for _, img := range req.Images {
			images = append(images, services.NewImage{URL: img.URL, Description: img.Description})
		}
	}

	added, err := h.imageSvc.AddImages(actorFrom(c), eventID, images)
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, added, "Images added successfully", fiber.StatusCreated)
}

func (h *Handler) DeleteImage(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	imageID, err := uuidParam(c, "imageId")
	if err != nil {
		return err
	}

	if err := h.imageSvc.DeleteImage(actorFrom(c), eventID, imageID); err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, nil, "Image deleted successfully")
}

// ReorderImages is best-effort: a storage failure is logged and reported as
// persisted=false instead of failing the request.
// @Router /events/{id}/images/order [put]
func (h *Handler) ReorderImages(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	req := middleware.Body[ImageOrderRequest](c)

	order, err := parseUUIDs(req.Order)
	if err != nil {
		return utils.Error(c, "Invalid image ID in order", fiber.StatusBadRequest)
	}

	err = h.imageSvc.ReorderImages(actorFrom(c), eventID, order)
	switch {
	case err == nil:
		return utils.Success(c, ImageOrderResult{Persisted: true}, "Image order saved")
	case services.KindOf(err) == services.ErrInternal:
		logrus.WithError(err).WithField("event_id", eventID).Warn("image order not persisted")
		return utils.Success(c, ImageOrderResult{Persisted: false}, "Image order not saved")
	default:
		return handleServiceError(c, err)
	}
}
