package handlers

import (
	"errors"
	"strconv"

	"esport-events-backend/internal/config"
	"esport-events-backend/internal/middleware"
	"esport-events-backend/internal/models"
	"esport-events-backend/internal/services"
	"esport-events-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	authSvc          *services.AuthService
	eventSvc         *services.EventService
	participationSvc *services.ParticipationService
	commentSvc       *services.CommentService
	imageSvc         *services.ImageService
	lifecycleSvc     *services.LifecycleService
	cfg              *config.Config
}

func NewHandler(
	authSvc *services.AuthService,
	eventSvc *services.EventService,
	participationSvc *services.ParticipationService,
	commentSvc *services.CommentService,
	imageSvc *services.ImageService,
	lifecycleSvc *services.LifecycleService,
	cfg *config.Config,
) *Handler {
	return &Handler{
		authSvc:          authSvc,
		eventSvc:         eventSvc,
		participationSvc: participationSvc,
		commentSvc:       commentSvc,
		imageSvc:         imageSvc,
		lifecycleSvc:     lifecycleSvc,
		cfg:              cfg,
	}
}

func (h *Handler) RegisterRoutes(router fiber.Router) {
	auth := middleware.JWTMiddleware(h.cfg)
	optional := middleware.OptionalJWT(h.cfg)

	// Public routes
	public := router.Group("/auth")
	{
		public.Post("/login", middleware.ValidateBody[LoginRequest](), h.Login)
		public.Post("/register", middleware.ValidateBody[RegisterRequest](), h.Register)
	}

	router.Get("/profile", auth, h.GetProfile)
	router.Get("/users/:id", h.GetUser)
	router.Get("/me/events", auth, h.ListMyEvents)

	events := router.Group("/events")
	{
		events.Get("/", h.ListEvents)
		events.Post("/", auth, middleware.Require(models.CapCreateEvent), h.CreateEvent)
		events.Get("/:id", optional, h.GetEvent)
		events.Put("/:id", auth, h.UpdateEvent)
		events.Delete("/:id", auth, h.DeleteEvent)
		events.Get("/:id/qrcode", optional, h.GetEventQRCode)

		// Participation of the caller
		events.Get("/:id/participation", auth, h.GetParticipationStatus)
		events.Post("/:id/participation", auth, h.RequestParticipation)
		events.Delete("/:id/participation", auth, h.CancelParticipation)
		events.Post("/:id/participation/validate", auth, h.SelfValidateParticipation)

		// Participation moderation
		events.Get("/:id/participations", optional, h.ListParticipations)
		events.Post("/:id/participations/:userId/validate", auth, h.ValidateParticipation)
		events.Post("/:id/participations/:userId/reject", auth, h.RejectParticipation)
		events.Put("/:id/participations/:userId/score", auth, middleware.ValidateBody[ScoreRequest](), h.SetParticipationScore)

		events.Get("/:id/comments", optional, h.ListComments)
		events.Post("/:id/comments", auth, middleware.ValidateBody[CommentRequest](), h.PostComment)
		events.Delete("/:id/comments/:commentId", auth, h.DeleteComment)

		events.Post("/:id/images", auth, h.AddImages)
		events.Put("/:id/images/order", auth, middleware.ValidateBody[ImageOrderRequest](), h.ReorderImages)
		events.Delete("/:id/images/:imageId", auth, h.DeleteImage)
	}

	// Admin only routes
	admin := router.Group("/admin", auth, middleware.AdminOnly)
	{
		admin.Get("/events", h.ListModerationQueue)
		admin.Post("/events/refresh-status", middleware.Require(models.CapRunStatusSweep), h.RefreshStatuses)
		admin.Post("/events/:id/validate", h.ValidateEvent)
		admin.Post("/events/:id/refuse", h.RefuseEvent)
		admin.Post("/users", middleware.ValidateBody[CreateUserRequest](), h.CreateUser)
		admin.Delete("/users/:id", h.DeleteUser)
	}
}

// ErrorHandler handles global errors
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default to internal server error
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var appErr *services.AppError
	if errors.As(err, &appErr) {
		return handleServiceError(c, appErr)
	}

	// Check if it's a Fiber error
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code >= 500 {
		logrus.WithError(err).WithField("path", c.Path()).Error("unhandled error")
	}

	return utils.Error(c, message, code)
}

// handleServiceError maps a service error kind to its HTTP status.
func handleServiceError(c *fiber.Ctx, err error) error {
	var appErr *services.AppError
	if !errors.As(err, &appErr) {
		logrus.WithError(err).WithField("path", c.Path()).Error("unexpected service error")
		return utils.Error(c, "Internal server error", fiber.StatusInternalServerError)
	}

	switch appErr.Kind {
	case services.ErrNotFound:
		return utils.Error(c, appErr.Message, fiber.StatusNotFound)
	case services.ErrUnauthorized:
		return utils.Error(c, appErr.Message, fiber.StatusUnauthorized)
	case services.ErrForbidden:
		return utils.Error(c, appErr.Message, fiber.StatusForbidden)
	case services.ErrConflict:
		return utils.Error(c, appErr.Message, fiber.StatusConflict)
	case services.ErrValidation:
		return utils.Error(c, appErr.Message, fiber.StatusBadRequest)
	default:
		logrus.WithError(appErr).WithField("path", c.Path()).Error("internal service error")
		return utils.Error(c, "Internal server error", fiber.StatusInternalServerError)
	}
}

// actorFrom builds the service actor from the JWT locals; anonymous when no
// token was presented.
func actorFrom(c *fiber.Ctx) services.Actor {
	id, role, ok := middleware.CurrentUser(c)
	if !ok {
		return services.Actor{}
	}
	return services.Actor{ID: id, Role: role}
}

func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func pageParams(c *fiber.Ctx) (int, int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
