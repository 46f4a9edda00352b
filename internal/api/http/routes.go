package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"

	"github.com/i474232898/weather-station/internal/display"
	"github.com/i474232898/weather-station/internal/store"
	"github.com/i474232898/weather-station/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app. Displays are
// looked up in displays, so a display removed from the station still serves
// its last view.
func RegisterRoutes(app *fiber.App, station *weather.Station, history *store.MemoryStore, displays *display.Index) {
	v1 := app.Group("/api/v1")

	v1.Get("/measurements/current", func(c *fiber.Ctx) error {
		reading, err := station.Latest()
		if err != nil {
			if errors.Is(err, weather.ErrNoSamples) {
				return fiber.NewError(fiber.StatusNotFound, "no measurements received yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read measurements")
		}
		return c.JSON(reading)
	})

	v1.Post("/measurements", func(c *fiber.Ctx) error {
		var req measurementRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		report := station.SetMeasurements(*req.Temperature, *req.Humidity, *req.Pressure)
		return c.Status(fiber.StatusAccepted).JSON(report)
	})

	v1.Get("/measurements/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		readings, err := history.GetRange(req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no readings for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch history")
		}

		return c.JSON(fiber.Map{
			"from":     req.From,
			"to":       req.To,
			"readings": readings,
		})
	})

	v1.Get("/measurements/history/latest", func(c *fiber.Ctx) error {
		reading, err := history.GetLatest()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no readings recorded yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch latest reading")
		}
		return c.JSON(reading)
	})

	v1.Get("/observers", func(c *fiber.Ctx) error {
		observers := station.Observers()
		out := make([]observerView, 0, len(observers))
		for i, o := range observers {
			v := observerView{Position: i, Type: fmt.Sprintf("%T", o)}
			if d, ok := o.(display.Display); ok {
				v.ID = d.ID().String()
				v.Name = d.Name()
			}
			out = append(out, v)
		}
		return c.JSON(out)
	})

	v1.Delete("/observers/:id", func(c *fiber.Ctx) error {
		d, err := findDisplay(c, displays)
		if err != nil {
			return err
		}
		if err := station.RemoveObserver(d); err != nil {
			if errors.Is(err, weather.ErrObserverNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "observer not registered")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to remove observer")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Get("/displays/:id", func(c *fiber.Ctx) error {
		d, err := findDisplay(c, displays)
		if err != nil {
			return err
		}
		view, err := d.View()
		if err != nil {
			if errors.Is(err, weather.ErrNoSamples) {
				return fiber.NewError(fiber.StatusConflict, "display has not received any measurements")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render display")
		}
		return c.JSON(fiber.Map{
			"id":         d.ID(),
			"name":       d.Name(),
			"registered": station.Contains(d),
			"view":       view,
		})
	})
}

// RegisterMetrics exposes a Prometheus handler under /metrics.
func RegisterMetrics(app *fiber.App, h http.Handler) {
	app.Get("/metrics", adaptor.HTTPHandler(h))
}

// observerView describes one registration in notification order.
type observerView struct {
	Position int    `json:"position"`
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Type     string `json:"type"`
}

func findDisplay(c *fiber.Ctx, displays *display.Index) (display.Display, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid observer id")
	}
	d, ok := displays.Get(id)
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "unknown display")
	}
	return d, nil
}

// measurementRequest is the body of POST /measurements. Pointers let zero
// readings through while still rejecting missing fields.
type measurementRequest struct {
	Temperature *float64 `json:"temperature" validate:"required"`
	Humidity    *float64 `json:"humidity" validate:"required,gte=0,lte=100"`
	Pressure    *float64 `json:"pressure" validate:"required,gt=0"`
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
