package http

import (
	"errors"
	"io"

	"campus-facilities/internal/campus/domain/model"
	"campus-facilities/internal/campus/usecase"
	apperrors "campus-facilities/internal/shared/errors"
	"campus-facilities/internal/shared/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CampusHandler serves the campus catalog over JSON. Reads come from the
// provider's mirror; mutations go through the provider's mutators, which
// keep the mirror consistent with the record store.
type CampusHandler struct {
	provider *usecase.CampusProvider
	uploads  *usecase.UploadService
	validate *validator.Validate
	log      logger.Logger
}

// NewCampusHandler creates the campus HTTP handler.
func NewCampusHandler(provider *usecase.CampusProvider, uploads *usecase.UploadService, log logger.Logger) *CampusHandler {
	return &CampusHandler{
		provider: provider,
		uploads:  uploads,
		validate: validator.New(),
		log:      log.WithComponent("campus-handler"),
	}
}

// RegisterRoutes registers the campus routes on the given router. The
// caller decides which middleware (authentication) guards them.
func (h *CampusHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/buildings", h.ListBuildings)
	router.Post("/buildings", h.CreateBuilding)
	router.Put("/buildings/:id", h.UpdateBuilding)
	router.Delete("/buildings/:id", h.DeleteBuilding)

	router.Get("/rooms", h.ListRooms)
	router.Post("/rooms", h.CreateRoom)
	router.Put("/rooms/:id", h.UpdateRoom)
	router.Delete("/rooms/:id", h.DeleteRoom)

	router.Get("/infrastructures", h.ListInfrastructures)
	router.Post("/infrastructures", h.CreateInfrastructure)
	router.Put("/infrastructures/:id", h.UpdateInfrastructure)
	router.Delete("/infrastructures/:id", h.DeleteInfrastructure)

	router.Post("/uploads", h.UploadImages)
}

// requireReady answers 503 until the initial load completed, so no
// client observes partially loaded state.
func (h *CampusHandler) requireReady(c *fiber.Ctx) error {
	if !h.provider.Ready() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "campus data is still loading",
		})
	}
	return nil
}

func (h *CampusHandler) ListBuildings(c *fiber.Ctx) error {
	if err := h.requireReady(c); err != nil {
		return err
	}
	return c.JSON(h.provider.Buildings())
}

func (h *CampusHandler) CreateBuilding(c *fiber.Ctx) error {
	if err := h.requireReady(c); err != nil {
		return err
	}

	var building model.Building
	if err := c.BodyParser(&building); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&building); err != nil {
		return badRequest(c, err.Error())
	}

	added, err := h.provider.AddBuilding(c.Context(), &building)
	if err != nil {
		return h.translateError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(added)
}

func (h *CampusHandler) UpdateBuilding(c *fiber.Ctx) error {
	if err := h.requireReady(c); err != nil {
		return err
	}

	var building model.Building
	if err := c.BodyParser(&building); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&building); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.provider.UpdateBuilding(c.Context(), c.Params("id"), &building)
	if err != nil {
		return h.translateError(c, err)
	}
	return c.JSON(updated)
}

func (h *CampusHandler) DeleteBuilding(c *fiber.Ctx) error {
	if err := h.requireReady(c); err != nil {
		return err
	}
	if err := h.provider.DeleteBuilding(c.Context(), c.Params("id")); err != nil {
		return h.translateError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CampusHandler) ListRooms(c *fiber.Ctx) error {
	if err := h.requireReady(c); err != nil {
		return err
	}
	return c.JSON(h.provider.Rooms())
}

func (h *CampusHandler) CreateRoom(c *fiber.Ctx) error {
	if err := h.requireReady(c); err != nil {
		return err
	}

	var room model.Room
	if err := c.BodyParser(&room); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&room); err != nil {
		return badRequest(c, err.Error())
	}

	added, err := h.provider.AddRoom(c.Context(), &room)
	if err != nil {
		return h.translateError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(added)
}

func (h *CampusHandler) UpdateRoom(c *fiber.Ctx) error {
	if err := h.requireReady(c); err != nil {
		return err
	}

	var room model.Room
	if err := c.BodyParser(&room); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&room); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.provider.UpdateRoom(c.Context(), c.Params("id"), &room)
	if err != nil {
		return h.translateError(c, err)
	}
	return c.JSON(updated)
}

func (h *CampusHandler) DeleteRoom(c *fiber.Ctx) error {
	if err := h.requireReady(c); err != nil {
		return err
	}
	if err := h.provider.DeleteRoom(c.Context(), c.Params("id")); err != nil {
		return h.translateError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CampusHandler) ListInfrastructures(c *fiber.Ctx) error {
	if err := h.requireReady(c); err != nil {
		return err
	}
	return c.JSON(h.provider.Infrastructures())
}

func (h *CampusHandler) CreateInfrastructure(c *fiber.Ctx) error {
	if err := h.requireReady(c); err != nil {
		return err
	}

	var infra model.Infrastructure
	if err := c.BodyParser(&infra); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&infra); err != nil {
		return badRequest(c, err.Error())
	}

	added, err := h.provider.AddInfrastructure(c.Context(), &infra)
	if err != nil {
		return h.translateError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(added)
}

func (h *CampusHandler) UpdateInfrastructure(c *fiber.Ctx) error {
	if err := h.requireReady(c); err != nil {
		return err
	}

	var infra model.Infrastructure
	if err := c.BodyParser(&infra); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&infra); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.provider.UpdateInfrastructure(c.Context(), c.Params("id"), &infra)
	if err != nil {
		return h.translateError(c, err)
	}
	return c.JSON(updated)
}

func (h *CampusHandler) DeleteInfrastructure(c *fiber.Ctx) error {
	if err := h.requireReady(c); err != nil {
		return err
	}
	if err := h.provider.DeleteInfrastructure(c.Context(), c.Params("id")); err != nil {
		return h.translateError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// uploadResponse is the per-file outcome reported to the client.
type uploadResponse struct {
	Name  string `json:"name"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// UploadImages accepts a multipart batch under the "files" field and
// reports a per-file outcome. A rejected file never aborts its siblings.
func (h *CampusHandler) UploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "expected multipart form data")
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return badRequest(c, "no files provided")
	}

	files := make([]usecase.UploadFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return badRequest(c, "unreadable file: "+header.Filename)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return badRequest(c, "unreadable file: "+header.Filename)
		}
		files = append(files, usecase.UploadFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	results := h.uploads.UploadImages(c.Context(), files)

	out := make([]uploadResponse, len(results))
	for i, r := range results {
		out[i] = uploadResponse{Name: r.Name, URL: r.URL}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}
	return c.JSON(fiber.Map{"files": out})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// translateError maps data-layer failures onto HTTP responses. The data
// layer itself never swallows errors; everything surfaces here.
func (h *CampusHandler) translateError(c *fiber.Ctx, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.HTTPCode).JSON(fiber.Map{"error": appErr.Message})
	}
	if errors.Is(err, apperrors.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "record not found"})
	}

	h.log.WithContext(c.UserContext()).Errorf("campus operation failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
