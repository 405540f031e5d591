package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/i474232898/weather-note/internal/location"
	"github.com/i474232898/weather-note/internal/notes"
	"github.com/i474232898/weather-note/internal/settings"
	"github.com/i474232898/weather-note/internal/store"
)

const serviceName = "weather-note"

// NewServer returns a Fiber app with the API routes and a JSON error handler.
func NewServer(deps Deps, accessLog bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          errorHandler,
	})

	if accessLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": serviceName,
		})
	})

	RegisterRoutes(app, deps)
	return app
}

// errorHandler renders every error as {"error": true, "message": ...} with a
// status derived from the error.
func errorHandler(c *fiber.Ctx, err error) error {
	return c.Status(statusOf(err)).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

func statusOf(err error) int {
	var fe *fiber.Error
	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.As(err, &ve):
		return fiber.StatusBadRequest
	case errors.Is(err, store.ErrNotFound), errors.Is(err, settings.ErrCityNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, settings.ErrCityExists):
		return fiber.StatusConflict
	case errors.Is(err, settings.ErrInvalid):
		return fiber.StatusBadRequest
	case errors.Is(err, notes.ErrEmptyTemplate):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, location.ErrNoManualLocation):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, notes.ErrNoData):
		return fiber.StatusBadGateway
	case errors.Is(err, store.ErrStoreClosed):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}
