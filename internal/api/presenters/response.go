package presenters

import (
	"errors"

	"foodgram-backend/domain"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, code int, message string) error {
	return c.Status(code).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, code int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}

	var fieldErr *domain.FieldError
	if errors.As(err, &fieldErr) {
		res.Errors = map[string]string{fieldErr.Field: fieldErr.Reason}
	} else if err != nil {
		res.Errors = err.Error()
	}

	return c.Status(code).JSON(res)
}
