package middleware

import (
	"esport-events-backend/internal/config"
	"esport-events-backend/internal/models"
	"esport-events-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	localUserID   = "user_id"
	localUserRole = "user_role"
)

// JWTMiddleware rejects requests without a valid bearer token.
func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtConfig(cfg, nil))
}

// OptionalJWT identifies the caller when a token is sent and lets anonymous
// requests through. A malformed or expired token is still rejected.
func OptionalJWT(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtConfig(cfg, func(c *fiber.Ctx) bool {
		return c.Get(fiber.HeaderAuthorization) == ""
	}))
}

func jwtConfig(cfg *config.Config, filter func(*fiber.Ctx) bool) jwtware.Config {
	return jwtware.Config{
		Filter:        filter,
		SigningKey:    []byte(cfg.JWTSecret),
		SigningMethod: "HS256",
		ContextKey:    "user",
		ErrorHandler:  jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return jwtError(c, nil)
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return jwtError(c, nil)
			}

			userID, _ := claims["user_id"].(string)
			role, _ := claims["role"].(string)
			if _, err := uuid.Parse(userID); err != nil {
				return jwtError(c, err)
			}
			if !models.Role(role).Valid() {
				return jwtError(c, nil)
			}

			c.Locals(localUserID, userID)
			c.Locals(localUserRole, role)
			return c.Next()
		},
	}
}

func jwtError(c *fiber.Ctx, err error) error {
	return utils.Error(c, "Unauthorized", fiber.StatusUnauthorized)
}

// CurrentUser returns the authenticated caller, or ok=false for an anonymous
// request.
func CurrentUser(c *fiber.Ctx) (id uuid.UUID, role models.Role, ok bool) {
	rawID, _ := c.Locals(localUserID).(string)
	rawRole, _ := c.Locals(localUserRole).(string)
	if rawID == "" {
		return uuid.Nil, models.RoleAnonymous, false
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, models.RoleAnonymous, false
	}
	return id, models.ParseRole(rawRole), true
}
