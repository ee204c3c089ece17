package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// Envelope is the body shape shared by every endpoint
type Envelope struct {
	Status   int         `json:"status"`
	Message  string      `json:"message"`
	Response interface{} `json:"response,omitempty"`
	Error    string      `json:"error,omitempty"`
	Errors   interface{} `json:"errors,omitempty"`
}

func JsonResponse(c *fiber.Ctx, statusCode int, message string, response interface{}) error {
	return c.Status(statusCode).JSON(Envelope{
		Status:   statusCode,
		Message:  message,
		Response: response,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	body := Envelope{
		Status:  statusCode,
		Message: message,
	}
	if err != nil {
		body.Error = err.Error()
	}
	return c.Status(statusCode).JSON(body)
}

// ValidationErrorResponse replies 400 with the per-field errors
func ValidationErrorResponse(c *fiber.Ctx, message string, err error, errors interface{}) error {
	body := Envelope{
		Status:  fiber.StatusBadRequest,
		Message: message,
		Errors:  errors,
	}
	if err != nil {
		body.Error = err.Error()
	}
	return c.Status(fiber.StatusBadRequest).JSON(body)
}
