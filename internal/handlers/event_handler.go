package handlers

import (
	"strconv"
	"time"

	"esport-events-backend/internal/middleware"
	"esport-events-backend/internal/models"
	"esport-events-backend/internal/services"
	"esport-events-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// EventRequest is accepted as JSON or as multipart/form-data. Multipart
// requests carry uploaded files under "images" with optional matching
// "image_descriptions", and external URLs under "image_urls".
type EventRequest struct {
	Title           string            `json:"title" form:"title" validate:"required,max=200"`
	Description     string            `json:"description" form:"description" validate:"max=10000"`
	StartsAt        string            `json:"starts_at" form:"starts_at" validate:"required"`
	EndsAt          string            `json:"ends_at" form:"ends_at" validate:"required"`
	Prize           string            `json:"prize" form:"prize" validate:"max=200"`
	MaxParticipants *int              `json:"max_participants" form:"max_participants" validate:"omitempty,gt=0"`
	Images          []ImageURLRequest `json:"images" form:"-" validate:"omitempty,dive"`
	ImageURLs       []string          `json:"-" form:"image_urls"`
	RemoveImages    []string          `json:"remove_images" form:"remove_images"`
	ImageOrder      []string          `json:"image_order" form:"image_order"`
	RefreshStatus   bool              `json:"refresh_status" form:"refresh_status"`
}

type ImageURLRequest struct {
	URL         string `json:"url" validate:"required"`
	Description string `json:"description" validate:"max=500"`
}

func (r *EventRequest) input() (services.EventInput, error) {
	startsAt, err := time.Parse(time.RFC3339, r.StartsAt)
	if err != nil {
		return services.EventInput{}, fiber.NewError(fiber.StatusBadRequest, "Invalid starts_at format")
	}
	endsAt, err := time.Parse(time.RFC3339, r.EndsAt)
	if err != nil {
		return services.EventInput{}, fiber.NewError(fiber.StatusBadRequest, "Invalid ends_at format")
	}

	return services.EventInput{
		Title:           r.Title,
		Description:     r.Description,
		StartsAt:        startsAt,
		EndsAt:          endsAt,
		Prize:           r.Prize,
		MaxParticipants: r.MaxParticipants,
	}, nil
}

// imageEdits collects the image edit set of one create or update request.
func (r *EventRequest) imageEdits(c *fiber.Ctx) (*services.ImageEditSet, error) {
	edits := &services.ImageEditSet{Add: uploadedImages(c)}

	for _, img := range r.Images {
		edits.Add = append(edits.Add, services.NewImage{URL: img.URL, Description: img.Description})
	}
	for _, url := range r.ImageURLs {
		edits.Add = append(edits.Add, services.NewImage{URL: url})
	}

	remove, err := parseUUIDs(r.RemoveImages)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid image ID in remove_images")
	}
	order, err := parseUUIDs(r.ImageOrder)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid image ID in image_order")
	}
	edits.Remove = remove
	edits.Order = order

	return edits, nil
}

// uploadedImages returns the files of a multipart request, or nil for any
// other content type.
func uploadedImages(c *fiber.Ctx) []services.NewImage {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}

	files := form.File["images"]
	descriptions := form.Value["image_descriptions"]

	images := make([]services.NewImage, 0, len(files))
	for i, file := range files {
		img := services.NewImage{File: file}
		if i < len(descriptions) {
			img.Description = descriptions[i]
		}
		images = append(images, img)
	}
	return images
}

func parseEventRequest(c *fiber.Ctx) (*EventRequest, services.EventInput, *services.ImageEditSet, error) {
	var req EventRequest
	if err := middleware.ParseAndValidate(c, &req); err != nil {
		return nil, services.EventInput{}, nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	in, err := req.input()
	if err != nil {
		return nil, services.EventInput{}, nil, err
	}

	edits, err := req.imageEdits(c)
	if err != nil {
		return nil, services.EventInput{}, nil, err
	}
	return &req, in, edits, nil
}

// CreateEvent creates a new event
// @Summary Create event
// @Tags Events
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body EventRequest true "Event data"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /events [post]
func (h *Handler) CreateEvent(c *fiber.Ctx) error {
	_, in, edits, err := parseEventRequest(c)
	if err != nil {
		return err
	}
	if len(edits.Remove) > 0 || len(edits.Order) > 0 {
		return utils.Error(c, "A new event has no images to remove or reorder", fiber.StatusBadRequest)
	}

	event, err := h.eventSvc.CreateEvent(actorFrom(c), in, edits.Add)
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, event, "Event created successfully", fiber.StatusCreated)
}

// ListEvents returns paginated list of public events
// @Summary List events
// @Tags Events
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param status query string false "validated, in_progress or finished"
// @Param search query string false "Title or description search"
// @Param upcoming query bool false "Only events that have not started"
// @Success 200 {object} utils.Response
// @Router /events [get]
func (h *Handler) ListEvents(c *fiber.Ctx) error {
	page, pageSize := pageParams(c)
	upcoming, _ := strconv.ParseBool(c.Query("upcoming", "false"))

	events, total, totalPages, err := h.eventSvc.ListEvents(services.ListEventsQuery{
		Page:     page,
		PageSize: pageSize,
		Status:   models.EventStatus(c.Query("status")),
		Search:   c.Query("search"),
		Upcoming: upcoming,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.SuccessWithMeta(c, events, utils.NewMeta(page, pageSize, total, totalPages), "Events retrieved successfully")
}

// ListMyEvents lists the caller's organized events in every status.
func (h *Handler) ListMyEvents(c *fiber.Ctx) error {
	page, pageSize := pageParams(c)

	events, total, totalPages, err := h.eventSvc.ListOrganizedEvents(actorFrom(c), page, pageSize)
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.SuccessWithMeta(c, events, utils.NewMeta(page, pageSize, total, totalPages), "Events retrieved successfully")
}

// GetEvent returns event by ID
// @Summary Get event by ID
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /events/{id} [get]
func (h *Handler) GetEvent(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	event, err := h.eventSvc.GetEvent(actorFrom(c), eventID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, event, "Event retrieved successfully")
}

// UpdateEvent replaces the event fields and applies the image edits of the
// request in one commit.
// @Router /events/{id} [put]
func (h *Handler) UpdateEvent(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	req, in, edits, err := parseEventRequest(c)
	if err != nil {
		return err
	}

	event, err := h.eventSvc.UpdateEvent(actorFrom(c), eventID, services.UpdateEventInput{
		EventInput:    in,
		RefreshStatus: req.RefreshStatus,
	}, edits)
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, event, "Event updated successfully")
}

func (h *Handler) DeleteEvent(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.eventSvc.DeleteEvent(actorFrom(c), eventID); err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, nil, "Event deleted successfully")
}

// GetEventQRCode returns a PNG QR code linking to the public event page.
// @Produce png
// @Param size query int false "Image size in pixels" default(256)
// @Router /events/{id}/qrcode [get]
func (h *Handler) GetEventQRCode(c *fiber.Ctx) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	size, _ := strconv.Atoi(c.Query("size", "256"))
	if size < 64 || size > 1024 {
		size = 256
	}

	png, err := h.eventSvc.ShareQRCode(actorFrom(c), eventID, size)
	if err != nil {
		return handleServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
