package httpapi

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-note/internal/location"
	"github.com/i474232898/weather-note/internal/notes"
	"github.com/i474232898/weather-note/internal/settings"
	"github.com/i474232898/weather-note/internal/store"
	"github.com/i474232898/weather-note/internal/tmpl"
	"github.com/i474232898/weather-note/internal/weather"
)

var validate = validator.New()

// SettingsManager reads and replaces the saved settings.
type SettingsManager interface {
	CurrentSettings() (settings.Settings, error)
	UpdateSettings(settings.Settings) error
}

// Deps are the services behind the routes.
type Deps struct {
	Notes     *notes.Service
	Weather   *weather.Service
	Location  *location.Service
	Documents store.Documents
	Settings  SettingsManager
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	h := &handlers{Deps: deps}
	v1 := app.Group("/api/v1")

	v1.Post("/render", h.render)
	v1.Get("/templates", h.listTemplates)
	v1.Get("/templates/:name", h.getTemplate)

	v1.Get("/weather", h.getWeather)
	v1.Get("/location", h.getLocation)

	v1.Get("/note", h.getNote)
	v1.Get("/note/data", h.getNoteData)
	v1.Get("/note/cities/:name", h.getCityNote)

	v1.Post("/blocks", h.createBlock)
	v1.Post("/blocks/:id/:kind", h.writeBlock)
	v1.Get("/blocks/:id", h.getBlock)
	v1.Get("/blocks/:id/history", h.getBlockHistory)

	v1.Get("/settings", h.getSettings)
	v1.Put("/settings", h.putSettings)
	v1.Post("/settings/cities", h.addCity)
	v1.Delete("/settings/cities/:name", h.removeCity)

	v1.Post("/cache/clear", h.clearCache)
}

type handlers struct {
	Deps
}

type renderRequest struct {
	Template string      `json:"template" validate:"required"`
	Data     *tmpl.Value `json:"data"`
}

func (h *handlers) render(c *fiber.Ctx) error {
	var req renderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return err
	}

	if req.Data != nil {
		return c.JSON(fiber.Map{"content": h.Notes.RenderData(req.Template, *req.Data)})
	}
	content, err := h.Notes.Render(c.UserContext(), req.Template)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"content": content})
}

func (h *handlers) listTemplates(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"templates": tmpl.BuiltinNames()})
}

func (h *handlers) getTemplate(c *fiber.Ctx) error {
	name := c.Params("name")
	content, ok := tmpl.Builtin(name)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "unknown template "+strconv.Quote(name))
	}
	return c.JSON(fiber.Map{"name": name, "content": content})
}

func (h *handlers) getWeather(c *fiber.Ctx) error {
	at, err := parseCoordinates(c)
	if err != nil {
		return err
	}
	if at == nil {
		fix, err := h.Location.Current(c.UserContext())
		if err != nil {
			return fmt.Errorf("%w: %w", notes.ErrNoData, err)
		}
		coords := fix.Coordinates()
		at = &coords
	}

	reading, err := h.Weather.Get(c.UserContext(), *at)
	if err != nil {
		return fmt.Errorf("%w: %w", notes.ErrNoData, err)
	}
	return c.JSON(reading)
}

// parseCoordinates reads lat and lon from the query. Both absent returns nil.
func parseCoordinates(c *fiber.Ctx) (*weather.Coordinates, error) {
	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" && lonStr == "" {
		return nil, nil
	}
	if latStr == "" || lonStr == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "lat and lon must be given together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid lat")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid lon")
	}

	at := weather.Coordinates{Lat: lat, Lon: lon}
	if err := validate.Struct(at); err != nil {
		return nil, err
	}
	return &at, nil
}

func (h *handlers) getLocation(c *fiber.Ctx) error {
	fix, err := h.Location.Current(c.UserContext())
	if err != nil {
		return fmt.Errorf("%w: %w", notes.ErrNoData, err)
	}
	return c.JSON(fix)
}

func (h *handlers) getNote(c *fiber.Ctx) error {
	content, err := h.Notes.RenderTemplate(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"content": content})
}

func (h *handlers) getNoteData(c *fiber.Ctx) error {
	data, err := h.Notes.TemplateData(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(data)
}

func (h *handlers) getCityNote(c *fiber.Ctx) error {
	name, err := pathParam(c, "name")
	if err != nil {
		return err
	}
	content, err := h.Notes.RenderForCity(c.UserContext(), name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"city": name, "content": content})
}

type createBlockRequest struct {
	Kind store.Kind `json:"kind" validate:"required,oneof=template weather location"`
}

func (h *handlers) createBlock(c *fiber.Ctx) error {
	var req createBlockRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	b, err := h.insert(c, "", req.Kind)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

func (h *handlers) writeBlock(c *fiber.Ctx) error {
	b, err := h.insert(c, c.Params("id"), store.Kind(c.Params("kind")))
	if err != nil {
		return err
	}
	return c.JSON(b)
}

func (h *handlers) insert(c *fiber.Ctx, id string, kind store.Kind) (store.Block, error) {
	ctx := c.UserContext()
	switch kind {
	case store.KindTemplate:
		return h.Notes.InsertTemplate(ctx, id)
	case store.KindWeather:
		return h.Notes.InsertWeather(ctx, id)
	case store.KindLocation:
		return h.Notes.InsertLocation(ctx, id)
	}
	return store.Block{}, fiber.NewError(fiber.StatusNotFound, "unknown block kind "+strconv.Quote(string(kind)))
}

func (h *handlers) getBlock(c *fiber.Ctx) error {
	b, err := h.Documents.Latest(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(b)
}

func (h *handlers) getBlockHistory(c *fiber.Ctx) error {
	id := c.Params("id")
	blocks, err := h.Documents.History(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"id": id, "versions": blocks})
}

func (h *handlers) getSettings(c *fiber.Ctx) error {
	s, err := h.Settings.CurrentSettings()
	if err != nil {
		return err
	}
	return c.JSON(s)
}

func (h *handlers) putSettings(c *fiber.Ctx) error {
	var s settings.Settings
	if err := c.BodyParser(&s); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.Settings.UpdateSettings(s); err != nil {
		return err
	}
	return h.getSettings(c)
}

func (h *handlers) addCity(c *fiber.Ctx) error {
	var city settings.FavoriteCity
	if err := c.BodyParser(&city); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	s, err := h.Settings.CurrentSettings()
	if err != nil {
		return err
	}
	s, err = s.AddCity(city)
	if err != nil {
		return err
	}
	if err := h.Settings.UpdateSettings(s); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(s.FavoriteCities)
}

func (h *handlers) removeCity(c *fiber.Ctx) error {
	name, err := pathParam(c, "name")
	if err != nil {
		return err
	}

	s, err := h.Settings.CurrentSettings()
	if err != nil {
		return err
	}
	s, err = s.RemoveCity(name)
	if err != nil {
		return err
	}
	if err := h.Settings.UpdateSettings(s); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) clearCache(c *fiber.Ctx) error {
	h.Weather.ClearCache()
	h.Location.ClearCache()
	return c.SendStatus(fiber.StatusNoContent)
}

func pathParam(c *fiber.Ctx, name string) (string, error) {
	v, err := url.PathUnescape(c.Params(name))
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return v, nil
}
