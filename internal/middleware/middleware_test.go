package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"esport-events-backend/internal/config"
	"esport-events-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCfg = &config.Config{JWTSecret: "middleware-secret"}

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims(id uuid.UUID, role models.Role) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": id.String(),
		"role":    string(role),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
}

func whoAmI(c *fiber.Ctx) error {
	id, role, ok := CurrentUser(c)
	if !ok {
		return c.SendString("anonymous")
	}
	return c.SendString(string(role) + ":" + id.String())
}

func call(t *testing.T, app *fiber.App, req *http.Request, token string) (int, string) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestJWTMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/me", JWTMiddleware(testCfg), whoAmI)
	id := uuid.New()

	status, _ := call(t, app, httptest.NewRequest(http.MethodGet, "/me", nil), "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := call(t, app, httptest.NewRequest(http.MethodGet, "/me", nil), signToken(t, validClaims(id, models.RoleOrganizer), testCfg.JWTSecret))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "organizer:"+id.String(), body)

	status, _ = call(t, app, httptest.NewRequest(http.MethodGet, "/me", nil), signToken(t, validClaims(id, models.RoleUser), "other-secret"))
	assert.Equal(t, http.StatusUnauthorized, status)

	expired := validClaims(id, models.RoleUser)
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	status, _ = call(t, app, httptest.NewRequest(http.MethodGet, "/me", nil), signToken(t, expired, testCfg.JWTSecret))
	assert.Equal(t, http.StatusUnauthorized, status)

	unknownRole := validClaims(id, models.Role("superuser"))
	status, _ = call(t, app, httptest.NewRequest(http.MethodGet, "/me", nil), signToken(t, unknownRole, testCfg.JWTSecret))
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestOptionalJWT(t *testing.T) {
	app := fiber.New()
	app.Get("/me", OptionalJWT(testCfg), whoAmI)
	id := uuid.New()

	status, body := call(t, app, httptest.NewRequest(http.MethodGet, "/me", nil), "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "anonymous", body)

	status, body = call(t, app, httptest.NewRequest(http.MethodGet, "/me", nil), signToken(t, validClaims(id, models.RoleAdmin), testCfg.JWTSecret))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "admin:"+id.String(), body)

	status, _ = call(t, app, httptest.NewRequest(http.MethodGet, "/me", nil), "garbage")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRequire(t *testing.T) {
	app := fiber.New()
	app.Post("/events", JWTMiddleware(testCfg), Require(models.CapCreateEvent), whoAmI)
	app.Get("/admin", JWTMiddleware(testCfg), AdminOnly, whoAmI)

	user := signToken(t, validClaims(uuid.New(), models.RoleUser), testCfg.JWTSecret)
	organizer := signToken(t, validClaims(uuid.New(), models.RoleOrganizer), testCfg.JWTSecret)
	admin := signToken(t, validClaims(uuid.New(), models.RoleAdmin), testCfg.JWTSecret)

	status, _ := call(t, app, httptest.NewRequest(http.MethodPost, "/events", nil), user)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = call(t, app, httptest.NewRequest(http.MethodPost, "/events", nil), organizer)
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, app, httptest.NewRequest(http.MethodGet, "/admin", nil), organizer)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = call(t, app, httptest.NewRequest(http.MethodGet, "/admin", nil), admin)
	assert.Equal(t, http.StatusOK, status)
}

type signup struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=user organizer"`
}

func TestValidateBody(t *testing.T) {
	app := fiber.New()
	app.Post("/signup", ValidateBody[signup](), func(c *fiber.Ctx) error {
		return c.SendString(Body[signup](c).Email)
	})

	post := func(payload string) (int, string) {
		req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		return call(t, app, req, "")
	}

	status, body := post(`{"email":"a@b.io","role":"user"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a@b.io", body)

	status, body = post(`{"email":"nope","role":"user"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid email format", errorMessage(t, body))

	status, body = post(`{"email":"a@b.io","role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Role must be one of: user organizer", errorMessage(t, body))

	status, body = post(`{"email":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", errorMessage(t, body))
}

func errorMessage(t *testing.T, body string) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return resp.Error
}
