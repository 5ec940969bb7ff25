package server

import (
	"errors"
	"log/slog"
	"strings"

	"caixa-backend/internal/closing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Settings struct {
	CORSOrigins string
	Logger      *slog.Logger
}

func errorHandler(c *fiber.Ctx, err error) error {
	var e *fiber.Error
	if errors.As(err, &e) {
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
		})
	}
	LoggerFrom(c).Error("beklenmeyen hata", slog.String("error", err.Error()))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Erro inesperado no servidor",
	})
}

// New uygulamayı kurar ve tüm route'ları bağlar.
func New(ctrl *closing.Controller, s Settings) *fiber.App {
	if s.Logger == nil {
		s.Logger = slog.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:               "caixa-backend",
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(RequestLogger(s.Logger))

	if s.CORSOrigins != "" {
		origins := strings.Split(s.CORSOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(origins, ","),
			AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
			AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		}))
	}

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "state": ctrl.State()})
	})

	// Form
	api.Get("/draft", closing.GetDraftHandler(ctrl))
	api.Put("/draft", closing.UpdateDraftHandler(ctrl))
	api.Delete("/draft", closing.ClearDraftHandler(ctrl))
	api.Post("/calculate", closing.CalculateHandler())

	// Kapanışlar
	api.Post("/closings", closing.SubmitClosingHandler(ctrl))
	api.Get("/closings", closing.ListClosingsHandler(ctrl))
	api.Get("/closings/outcome", closing.LastOutcomeHandler(ctrl))
	api.Get("/closings/summary", closing.SummaryHandler(ctrl))
	api.Get("/closings/:id/pdf", closing.ExportClosingHandler(ctrl))
	api.Delete("/closings/:id", closing.DeleteClosingHandler(ctrl))

	return app
}
