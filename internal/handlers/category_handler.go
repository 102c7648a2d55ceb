package handlers

import (
	"lojinha/internal/models"
	"lojinha/internal/repositories"
	"lojinha/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the category routes. Reads are public, writes
// require a bearer token.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	categoryRoutes := router.Group("/category")
	categoryRoutes.Get("/search", h.HandleSearch)
	categoryRoutes.Get("/:id", h.HandleGetByID)
	categoryRoutes.Post("/", auth, h.HandleCreate)
	categoryRoutes.Put("/:id", auth, h.HandleUpdate)
	categoryRoutes.Delete("/:id", auth, h.HandleDelete)
}

// HandleSearch lists categories with pagination, optional use_in_menu filter
// and field projection.
func (h *CategoryHandler) HandleSearch(c *fiber.Ctx) error {
	q := repositories.CategoryQuery{
		Limit: c.QueryInt("limit", 12),
		Page:  c.QueryInt("page", 1),
	}
	if raw := c.Query("use_in_menu"); raw != "" {
		useInMenu := raw == "true"
		q.UseInMenu = &useInMenu
	}

	categories, total, err := h.service.List(q)
	if err != nil {
		return respondError(c, err)
	}

	fields := parseFieldsParam(c)
	data := make([]map[string]interface{}, 0, len(categories))
	for i := range categories {
		item, err := pickFields(&categories[i], fields)
		if err != nil {
			return respondError(c, err)
		}
		data = append(data, item)
	}
	return c.JSON(fiber.Map{
		"data":  data,
		"total": total,
		"limit": q.Limit,
		"page":  q.Page,
	})
}

// HandleGetByID retrieves a category.
func (h *CategoryHandler) HandleGetByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	category, err := h.service.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(category)
}

// HandleCreate creates a category.
func (h *CategoryHandler) HandleCreate(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return badRequest(c, "invalid request body")
	}
	category.ID = 0
	if err := h.validate.Struct(category); err != nil {
		return respondError(c, toValidationError(err))
	}
	if err := h.service.Create(&category); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdate applies a partial category update.
func (h *CategoryHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var patch services.CategoryPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.service.Update(id, patch); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDelete removes a category.
func (h *CategoryHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.service.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
