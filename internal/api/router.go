package api

import (
	"spendo/docs"
	"spendo/internal/api/handlers"
	"spendo/internal/dto"
	"spendo/pkg/config"
	"spendo/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// BasePath is where the record routes are mounted.
const BasePath = "/api/Expenses"

func SetupRouter(
	recordHandler *handlers.RecordHandler,
	cfg *config.ServerConfig,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal server error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			return c.Status(code).JSON(dto.MessageResponse{
				Message: message,
				Error:   err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(middleware.RequestLogger(appLogger))

	// Importing docs registers the OpenAPI document with swag.
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", recordHandler.Health)

	records := app.Group(BasePath)
	records.Get("/", recordHandler.ListRecords)
	records.Post("/", recordHandler.CreateRecord)
	records.Get("/:id", recordHandler.GetRecord)
	records.Put("/:id", recordHandler.UpdateRecord)
	records.Delete("/:id", recordHandler.DeleteRecord)

	return app
}
