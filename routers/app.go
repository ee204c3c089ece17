package routers

import (
	donationsController "loyalty/controllers/donations"
	qualificationController "loyalty/controllers/qualification"
	"loyalty/middleware"
	"loyalty/routers/donationRoutes"
	"loyalty/routers/qualificationRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Options carries everything NewApp wires together
type Options struct {
	Log              *zap.Logger
	Qualifications   qualificationController.QualificationService
	Donations        donationsController.DonationsFetcher
	Metrics          *middleware.Metrics
	CorsAllowOrigins string
	AccessLog        bool
	DocsDir          string
}

// NewApp builds the Fiber application with all middleware and routes mounted
func NewApp(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "loyalty",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: middleware.ErrorHandler(opts.Log),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CorsAllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${locals:requestid} ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	if opts.Metrics != nil {
		app.Use(opts.Metrics.Middleware())
		app.Get("/metrics", opts.Metrics.Handler())
	}

	if opts.DocsDir != "" {
		app.Static("/api-docs", opts.DocsDir)
	}

	api := app.Group("/api")
	qualificationRoutes.SetupQualificationRoutes(api, qualificationController.New(opts.Qualifications, opts.Log))

	if opts.Donations != nil {
		donationRoutes.SetupDonationRoutes(app, opts.Donations, opts.Log)
	}

	// Unmatched routes
	app.Use(middleware.NotFound)

	return app
}
