package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler turns errors escaping a handler into the response envelope.
// Fiber's own errors keep their status; anything else is a generic 500.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code != fiber.StatusInternalServerError {
			return ErrorResponse(c, fe.Code, fe.Message, nil)
		}

		log.Error("unhandled error",
			zap.String("requestId", c.GetRespHeader(fiber.HeaderXRequestID)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Something went wrong", nil)
	}
}

// NotFound is mounted last and answers every unmatched route
func NotFound(c *fiber.Ctx) error {
	return ErrorResponse(c, fiber.StatusNotFound, "Not Found", nil)
}
