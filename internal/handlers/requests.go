package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

// newValidator reports field errors by their JSON names, so messages match
// what the client sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// HoleRequest is the body of PUT /api/v1/days/:day/matches/:index/holes/:hole.
// The stroke bounds mirror tournament.MinStrokes and tournament.MaxStrokes.
type HoleRequest struct {
	StrokesA int `json:"strokes_a" validate:"required,min=1,max=10"`
	StrokesB int `json:"strokes_b" validate:"required,min=1,max=10"`
}

func (r *HoleRequest) Validate() error {
	return validate.Struct(r)
}

// ChallengeRequest is the body of POST /api/v1/days/:day/matches/:index/challenges.
type ChallengeRequest struct {
	Hole      int    `json:"hole" validate:"required,min=1,max=18"`
	Player    string `json:"player" validate:"required"`
	Challenge string `json:"challenge" validate:"required"`
}

func (r *ChallengeRequest) Validate() error {
	return validate.Struct(r)
}

// validationMessage turns a validator error into one readable line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

// parseBody reads the JSON body into req and validates it, writing a 400 on failure.
// ok is false when a response has already been written.
func parseBody(c *fiber.Ctx, req interface{ Validate() error }) (ok bool, err error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	}
	return true, nil
}

// intParam reads a numeric route parameter, writing a 400 if it isn't one.
func intParam(c *fiber.Ctx, name string) (n int, ok bool, err error) {
	n, perr := c.ParamsInt(name)
	if perr != nil {
		return 0, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": name + " must be a number",
		})
	}
	return n, true, nil
}
