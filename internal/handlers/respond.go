package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"reflect"
	"strconv"
	"strings"

	"lojinha/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// newValidator builds a validator that reports json field names, so
// validation errors line up with the payload the caller sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "eqfield":
		return "does not match password"
	default:
		return "is invalid"
	}
}

// toValidationError converts validator output into the service taxonomy.
func toValidationError(err error) *services.ValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return services.NewValidationError("", err.Error())
	}
	out := &services.ValidationError{}
	for _, e := range verrs {
		out.Errors = append(out.Errors, services.FieldError{
			Field:   e.Field(),
			Message: validationMessage(e),
		})
	}
	return out
}

// respondError maps the service error taxonomy to HTTP statuses. Anything
// outside the taxonomy is logged and answered with a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": verr.Errors})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("Internal error handling %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// parseIDParam parses the :id route parameter.
func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", c.Params("id"))
	}
	return uint(id), nil
}

// parseFieldsParam splits the comma-separated fields projection parameter.
func parseFieldsParam(c *fiber.Ctx) []string {
	raw := c.Query("fields")
	if raw == "" {
		return nil
	}
	fields := strings.Split(raw, ",")
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// pickFields serializes v to a map and, when a projection was requested,
// drops every key outside fields plus the always-kept ones.
func pickFields(v interface{}, fields []string, always ...string) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize entity: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to serialize entity: %w", err)
	}
	if len(fields) == 0 {
		return m, nil
	}
	keep := make(map[string]bool, len(fields)+len(always))
	for _, f := range fields {
		keep[f] = true
	}
	for _, f := range always {
		keep[f] = true
	}
	for k := range m {
		if !keep[k] {
			delete(m, k)
		}
	}
	return m, nil
}
