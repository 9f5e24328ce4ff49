package services

import (
	"errors"
	"strings"
	"time"

	"esport-events-backend/internal/config"
	"esport-events-backend/internal/models"
	"esport-events-backend/internal/repositories"
	"esport-events-backend/internal/utils"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AuthService struct {
	repo *repositories.Repository
	cfg  *config.Config
}

func NewAuthService(repo *repositories.Repository, cfg *config.Config) *AuthService {
	return &AuthService{repo: repo, cfg: cfg}
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

func (s *AuthService) Authenticate(email, password string) (*LoginResponse, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if email == "" || password == "" {
		return nil, invalid("email and password are required")
	}

	user, err := s.repo.UserRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewAppError("invalid credentials", ErrUnauthorized, nil)
		}
		return nil, internal("failed to load user", err)
	}

	if err := utils.CheckPassword(password, user.Password); err != nil {
		return nil, NewAppError("invalid credentials", ErrUnauthorized, nil)
	}

	token, expiresAt, err := s.generateJWT(user)
	if err != nil {
		return nil, internal("failed to generate token", err)
	}

	user.Password = ""
	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// Register is the public sign-up: only standard users and organizers.
func (s *AuthService) Register(username, email, password string, role models.Role) (*models.User, error) {
	if role == models.RoleAnonymous {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleOrganizer {
		return nil, forbidden("only user and organizer accounts can be registered publicly")
	}
	return s.createUser(username, email, password, role)
}

// CreateUser lets an administrator create an account with any role.
func (s *AuthService) CreateUser(actor Actor, username, email, password string, role models.Role) (*models.User, error) {
	if !actor.Can(models.CapManageUsers) {
		return nil, forbidden("administrator access required")
	}
	if !role.Valid() {
		return nil, invalid("invalid role: must be user, organizer or admin")
	}
	return s.createUser(username, email, password, role)
}

// EnsureAdmin creates the bootstrap administrator when the email is unused.
// An existing account with that email must already be an administrator.
func (s *AuthService) EnsureAdmin(email, password string) (*models.User, bool, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if existing, err := s.repo.UserRepo.GetUserByEmail(email); err == nil {
		if existing.Role != models.RoleAdmin {
			return nil, false, conflict("admin email belongs to a "+string(existing.Role)+" account", nil)
		}
		return existing, false, nil
	}

	username := strings.SplitN(email, "@", 2)[0]
	user, err := s.createUser(username, email, password, models.RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *AuthService) createUser(username, email, password string, role models.Role) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	if username == "" || email == "" {
		return nil, invalid("username and email are required")
	}

	if existing, _ := s.repo.UserRepo.GetUserByEmail(email); existing != nil {
		return nil, conflict("email already registered", nil)
	}
	if existing, _ := s.repo.UserRepo.GetUserByUsername(username); existing != nil {
		return nil, conflict("username already taken", nil)
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, invalid(err.Error())
	}

	user := &models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Role:     role,
	}

	if err := s.repo.UserRepo.CreateUser(user); err != nil {
		return nil, fromRepo(err, "user")
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("user created")

	// Remove password from response
	user.Password = ""
	return user, nil
}

func (s *AuthService) generateJWT(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.JWTTTL)

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    string(user.Role),
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *AuthService) GetUserProfile(actor Actor) (*models.User, error) {
	if !actor.IsAuthenticated() {
		return nil, NewAppError("authentication required", ErrUnauthorized, nil)
	}

	user, err := s.repo.UserRepo.GetUserByID(actor.ID)
	if err != nil {
		return nil, fromRepo(err, "user")
	}

	// Remove sensitive data
	user.Password = ""
	return user, nil
}

func (s *AuthService) GetPublicProfile(id uuid.UUID) (*UserPublicProfile, error) {
	user, err := s.repo.UserRepo.GetUserByID(id)
	if err != nil {
		return nil, fromRepo(err, "user")
	}

	organized, err := s.repo.EventRepo.CountEventsByOrganizer(user.ID)
	if err != nil {
		return nil, internal("failed to count organized events", err)
	}

	return &UserPublicProfile{
		ID:              user.ID,
		Username:        user.Username,
		Role:            user.Role,
		OrganizedEvents: organized,
		CreatedAt:       user.CreatedAt,
	}, nil
}

// DeleteUser removes an account. Users who still organize events must hand
// them over or delete them first.
func (s *AuthService) DeleteUser(actor Actor, id uuid.UUID) error {
	if !actor.Can(models.CapManageUsers) {
		return forbidden("administrator access required")
	}
	if actor.ID == id {
		return conflict("administrators cannot delete their own account", nil)
	}

	organized, err := s.repo.EventRepo.CountEventsByOrganizer(id)
	if err != nil {
		return internal("failed to count organized events", err)
	}
	if organized > 0 {
		return conflict("user still organizes events", nil)
	}

	if err := s.repo.UserRepo.DeleteUser(id); err != nil {
		return fromRepo(err, "user")
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  id,
		"admin_id": actor.ID,
	}).Info("user deleted")
	return nil
}
