package handlers

import (
	"esport-events-backend/internal/middleware"
	"esport-events-backend/internal/models"
	"esport-events-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user organizer"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=user organizer admin"`
}

// Login handles user authentication
// @Summary User login
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /auth/login [post]
func (h *Handler) Login(c *fiber.Ctx) error {
	req := middleware.Body[LoginRequest](c)

	loginResp, err := h.authSvc.Authenticate(req.Email, req.Password)
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, loginResp, "Login successful")
}

// Register is the public sign-up for players and organizers.
// @Summary Register new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Account data"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /auth/register [post]
func (h *Handler) Register(c *fiber.Ctx) error {
	req := middleware.Body[RegisterRequest](c)

	user, err := h.authSvc.Register(req.Username, req.Email, req.Password, models.ParseRole(req.Role))
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, user, "User registered successfully", fiber.StatusCreated)
}

// CreateUser creates an account with any role (Admin only)
// @Router /admin/users [post]
func (h *Handler) CreateUser(c *fiber.Ctx) error {
	req := middleware.Body[CreateUserRequest](c)

	user, err := h.authSvc.CreateUser(actorFrom(c), req.Username, req.Email, req.Password, models.ParseRole(req.Role))
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, user, "User created successfully", fiber.StatusCreated)
}

func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.authSvc.DeleteUser(actorFrom(c), userID); err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, nil, "User deleted successfully")
}

// GetProfile returns current user profile
// @Summary Get user profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /profile [get]
func (h *Handler) GetProfile(c *fiber.Ctx) error {
	user, err := h.authSvc.GetUserProfile(actorFrom(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, user, "Profile retrieved successfully")
}

// GetUser returns the public profile of any user.
func (h *Handler) GetUser(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	profile, err := h.authSvc.GetPublicProfile(userID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return utils.Success(c, profile, "User retrieved successfully")
}
