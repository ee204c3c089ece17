package donationRoutes

import (
	donationsController "loyalty/controllers/donations"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SetupDonationRoutes mounts the liveness check and the upstream donations relay
func SetupDonationRoutes(app *fiber.App, fetcher donationsController.DonationsFetcher, log *zap.Logger) {
	app.Get("/loyalty", donationsController.Loyalty)
	app.Get("/external-donations", donationsController.GetExternalDonations(fetcher, log))
}
