package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/i474232898/weather-forecast-bot/internal/metrics"
	"github.com/i474232898/weather-forecast-bot/internal/publisher"
)

var validate = validator.New()

// Composer renders the forecast message without delivering it.
type Composer interface {
	Compose(ctx context.Context, days int) (publisher.Composition, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, composer Composer, m *metrics.Metrics) {
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	v1 := app.Group("/api/v1")

	v1.Get("/forecast/preview", func(c *fiber.Ctx) error {
		var q previewQuery
		if err := c.QueryParser(&q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), 15*time.Second)
		defer cancel()

		comp, err := composer.Compose(ctx, q.Days)
		if err != nil {
			if errors.Is(err, publisher.ErrFetch) {
				return fiber.NewError(fiber.StatusBadGateway, "failed to fetch forecast")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render forecast")
		}

		if q.Format == "text" {
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			return c.SendString(comp.Text)
		}
		return c.JSON(fiber.Map{
			"generatedAt": comp.GeneratedAt,
			"samples":     comp.Samples,
			"days":        len(comp.Window),
			"text":        comp.Text,
		})
	})
}

// previewQuery holds query parameters for the preview endpoint.
// Days of 0 means the configured window length.
type previewQuery struct {
	Days   int    `query:"days" validate:"gte=0,lte=7"`
	Format string `query:"format" validate:"omitempty,oneof=json text"`
}
