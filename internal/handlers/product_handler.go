package handlers

import (
	"strconv"
	"strings"

	"lojinha/internal/repositories"
	"lojinha/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product aggregate.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// RegisterRoutes registers the product routes. Reads are public, writes
// require a bearer token.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	productRoutes := router.Group("/product")
	productRoutes.Get("/search", h.HandleSearch)
	productRoutes.Get("/:id", h.HandleGetByID)
	productRoutes.Post("/", auth, h.HandleCreate)
	productRoutes.Put("/:id", auth, h.HandleUpdate)
	productRoutes.Delete("/:id", auth, h.HandleDelete)
}

// HandleSearch lists products with pagination, substring match, price range,
// category and option filters, and field projection.
func (h *ProductHandler) HandleSearch(c *fiber.Ctx) error {
	q := repositories.ProductQuery{
		Limit:  c.QueryInt("limit", 12),
		Page:   c.QueryInt("page", 1),
		Match:  c.Query("match"),
		Option: c.Query("option"),
	}

	if raw := c.Query("price_range"); raw != "" {
		min, max, ok := parsePriceRange(raw)
		if !ok {
			return respondError(c, services.NewValidationError("price_range", "must be in the form min-max"))
		}
		q.PriceMin = &min
		q.PriceMax = &max
	}
	if raw := c.Query("category_ids"); raw != "" {
		ids, ok := parseUintList(raw)
		if !ok {
			return respondError(c, services.NewValidationError("category_ids", "must be a comma-separated list of ids"))
		}
		q.CategoryIDs = ids
	}

	products, total, err := h.service.List(q)
	if err != nil {
		return respondError(c, err)
	}

	fields := parseFieldsParam(c)
	data := make([]map[string]interface{}, 0, len(products))
	for i := range products {
		// Associations stay in the item even when a projection is requested.
		item, err := pickFields(&products[i], fields, "images", "options", "category_ids")
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

// HandleGetByID retrieves a product with its images, options and categories.
func (h *ProductHandler) HandleGetByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	product, err := h.service.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleCreate creates the product aggregate.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	product, err := h.service.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":   product.ID,
		"name": product.Name,
		"slug": product.Slug,
	})
}

// HandleUpdate applies a partial aggregate update.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.service.Update(id, in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDelete removes a product and everything it owns.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.service.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parsePriceRange parses the inclusive "min-max" filter.
func parsePriceRange(raw string) (min, max float64, ok bool) {
	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	min, errMin := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	max, errMax := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errMin != nil || errMax != nil {
		return 0, 0, false
	}
	return min, max, true
}

func parseUintList(raw string) ([]uint, bool) {
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, false
		}
		ids = append(ids, uint(id))
	}
	return ids, true
}
