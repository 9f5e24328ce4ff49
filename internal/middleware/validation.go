package middleware

import (
	"errors"

	"esport-events-backend/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

const validatedBodyKey = "validatedBody"

// ValidateBody parses the body into a fresh T for every request, validates it
// and stores it for Body.
func ValidateBody[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dest := new(T)
		if err := ParseAndValidate(c, dest); err != nil {
			return utils.Error(c, err.Error(), fiber.StatusBadRequest)
		}

		c.Locals(validatedBodyKey, dest)
		return c.Next()
	}
}

// Body returns the value stored by ValidateBody.
func Body[T any](c *fiber.Ctx) *T {
	dest, _ := c.Locals(validatedBodyKey).(*T)
	return dest
}

// ParseAndValidate parses the request body (JSON, form or multipart) into
// dest and runs the struct validation tags.
func ParseAndValidate(c *fiber.Ctx, dest interface{}) error {
	if err := c.BodyParser(dest); err != nil {
		return errors.New("Invalid request body")
	}
	return ValidateStruct(dest)
}

func ValidateStruct(dest interface{}) error {
	err := validate.Struct(dest)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errors.New("Invalid request body")
	}
	firstError := validationErrors[0]

	var errorMessage string
	switch firstError.Tag() {
	case "required":
		errorMessage = firstError.Field() + " is required"
	case "email":
		errorMessage = "Invalid email format"
	case "min":
		errorMessage = firstError.Field() + " is too short"
	case "max":
		errorMessage = firstError.Field() + " is too long"
	case "uuid":
		errorMessage = "Invalid UUID format"
	case "oneof":
		errorMessage = firstError.Field() + " must be one of: " + firstError.Param()
	case "gt", "gte":
		errorMessage = firstError.Field() + " must be positive"
	case "url":
		errorMessage = firstError.Field() + " must be a valid URL"
	default:
		errorMessage = "Validation failed for " + firstError.Field()
	}

	return errors.New(errorMessage)
}
