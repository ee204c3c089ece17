package donationsController

import (
	"context"

	"loyalty/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DonationsFetcher interface {
	FetchDonations(ctx context.Context) (interface{}, error)
}

// GetExternalDonations relays the upstream donations feed unchanged
func GetExternalDonations(fetcher DonationsFetcher, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := fetcher.FetchDonations(c.UserContext())
		if err != nil {
			log.Error("failed to fetch external donations",
				zap.String("requestId", c.GetRespHeader(fiber.HeaderXRequestID)),
				zap.Error(err),
			)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch donations", err)
		}

		return c.Status(fiber.StatusOK).JSON(data)
	}
}

// Loyalty answers the service liveness check
func Loyalty(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, "Loyalty service is running", nil)
}
