package services

import (
	"errors"
	"log"

	"lojinha/internal/models"
	"lojinha/internal/repositories"
	"lojinha/pkg/rabbitmq"

	"gorm.io/gorm"
)

// ImageInput is one image entry in a product payload. On update, Deleted
// together with an existing ID removes the image, an existing ID alone
// updates it in place, and a zero ID inserts a new one.
type ImageInput struct {
	ID      uint   `json:"id"`
	Deleted bool   `json:"deleted"`
	Path    string `json:"path"`
}

// OptionInput is one option entry in a product payload, reconciled with the
// same three-way policy as images.
type OptionInput struct {
	ID      uint     `json:"id"`
	Deleted bool     `json:"deleted"`
	Title   string   `json:"title"`
	Shape   string   `json:"shape"`
	Radius  int      `json:"radius"`
	Type    string   `json:"type"`
	Values  []string `json:"values"`
}

// ProductInput is the create/update payload for the product aggregate.
// Scalar fields are pointers so updates only touch what the caller sent.
// A nil CategoryIDs on update leaves the associations untouched; an empty
// list clears them.
type ProductInput struct {
	Name              *string       `json:"name"`
	Slug              *string       `json:"slug"`
	Enabled           *bool         `json:"enabled"`
	UseInMenu         *bool         `json:"use_in_menu"`
	Stock             *int          `json:"stock"`
	Description       *string       `json:"description"`
	Price             *float64      `json:"price"`
	PriceWithDiscount *float64      `json:"price_with_discount"`
	CategoryIDs       *[]uint       `json:"category_ids"`
	Images            []ImageInput  `json:"images"`
	Options           []OptionInput `json:"options"`
}

// ProductService orchestrates the product aggregate: the product row plus its
// images, options and category associations.
type ProductService struct {
	repo     repositories.ProductRepository
	mqClient *rabbitmq.Client
}

// NewProductService creates a new ProductService. mqClient may be nil, in
// which case event publication is skipped.
func NewProductService(repo repositories.ProductRepository, mqClient *rabbitmq.Client) *ProductService {
	return &ProductService{repo: repo, mqClient: mqClient}
}

// List retrieves a page of products with images, options and category ids
// attached, plus the unpaginated total.
func (s *ProductService) List(q repositories.ProductQuery) ([]models.Product, int64, error) {
	if q.Limit < 1 {
		q.Limit = 12
	}
	if q.Page < 1 {
		q.Page = 1
	}
	products, total, err := s.repo.List(q)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	byProduct, err := s.repo.CategoryIDsByProduct(ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range products {
		products[i].CategoryIDs = categoryIDsOrEmpty(byProduct[products[i].ID])
	}
	return products, total, nil
}

// GetByID retrieves a single product with images, options and category ids.
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	byProduct, err := s.repo.CategoryIDsByProduct([]uint{id})
	if err != nil {
		return nil, err
	}
	product.CategoryIDs = categoryIDsOrEmpty(byProduct[id])
	return product, nil
}

// Create validates the payload and writes the whole aggregate atomically.
func (s *ProductService) Create(in ProductInput) (*models.Product, error) {
	if verr := validateRequired(in); verr != nil {
		return nil, verr
	}

	product := &models.Product{
		Name:              *in.Name,
		Slug:              *in.Slug,
		Price:             *in.Price,
		PriceWithDiscount: *in.PriceWithDiscount,
	}
	if in.Enabled != nil {
		product.Enabled = *in.Enabled
	}
	if in.UseInMenu != nil {
		product.UseInMenu = *in.UseInMenu
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	for _, image := range in.Images {
		product.Images = append(product.Images, models.ProductImage{Path: image.Path})
	}
	for _, option := range in.Options {
		product.Options = append(product.Options, newOption(option))
	}

	var categoryIDs []uint
	if in.CategoryIDs != nil {
		categoryIDs = *in.CategoryIDs
	}
	if err := s.repo.CreateAggregate(product, categoryIDs); err != nil {
		return nil, classifyWriteError(err, "slug")
	}

	if s.mqClient != nil {
		err := s.mqClient.Publish("product.created", map[string]interface{}{
			"id":   product.ID,
			"slug": product.Slug,
		})
		if err != nil {
			log.Printf("Warning: failed to publish product.created for product %d: %v", product.ID, err)
		}
	}
	return product, nil
}

// Update fetches the product, then applies scalar changes and the image,
// option and category reconciliation in one transaction.
func (s *ProductService) Update(id uint, in ProductInput) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	up := repositories.ProductAggregateUpdate{
		Fields:      map[string]interface{}{},
		CategoryIDs: in.CategoryIDs,
	}
	if in.Name != nil {
		up.Fields["name"] = *in.Name
	}
	if in.Slug != nil {
		up.Fields["slug"] = *in.Slug
	}
	if in.Enabled != nil {
		up.Fields["enabled"] = *in.Enabled
	}
	if in.UseInMenu != nil {
		up.Fields["use_in_menu"] = *in.UseInMenu
	}
	if in.Stock != nil {
		up.Fields["stock"] = *in.Stock
	}
	if in.Description != nil {
		up.Fields["description"] = *in.Description
	}
	if in.Price != nil {
		up.Fields["price"] = *in.Price
	}
	if in.PriceWithDiscount != nil {
		up.Fields["price_with_discount"] = *in.PriceWithDiscount
	}

	for _, image := range in.Images {
		if image.Deleted && image.ID != 0 {
			up.DeleteImageIDs = append(up.DeleteImageIDs, image.ID)
			continue
		}
		up.UpsertImages = append(up.UpsertImages, models.ProductImage{ID: image.ID, Path: image.Path})
	}
	for _, option := range in.Options {
		if option.Deleted && option.ID != 0 {
			up.DeleteOptionIDs = append(up.DeleteOptionIDs, option.ID)
			continue
		}
		upsert := newOption(option)
		upsert.ID = option.ID
		up.UpsertOptions = append(up.UpsertOptions, upsert)
	}

	return classifyWriteError(s.repo.UpdateAggregate(id, up), "slug")
}

// Delete removes the product and everything it owns.
func (s *ProductService) Delete(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if s.mqClient != nil {
		if err := s.mqClient.Publish("product.deleted", map[string]interface{}{"id": id}); err != nil {
			log.Printf("Warning: failed to publish product.deleted for product %d: %v", id, err)
		}
	}
	return nil
}

func validateRequired(in ProductInput) *ValidationError {
	var fieldErrors []FieldError
	if in.Name == nil || *in.Name == "" {
		fieldErrors = append(fieldErrors, FieldError{Field: "name", Message: "is required"})
	}
	if in.Slug == nil || *in.Slug == "" {
		fieldErrors = append(fieldErrors, FieldError{Field: "slug", Message: "is required"})
	}
	if in.Price == nil {
		fieldErrors = append(fieldErrors, FieldError{Field: "price", Message: "is required"})
	}
	if in.PriceWithDiscount == nil {
		fieldErrors = append(fieldErrors, FieldError{Field: "price_with_discount", Message: "is required"})
	}
	for _, option := range in.Options {
		if option.Title == "" {
			fieldErrors = append(fieldErrors, FieldError{Field: "options", Message: "title is required"})
			break
		}
	}
	if len(fieldErrors) > 0 {
		return &ValidationError{Errors: fieldErrors}
	}
	return nil
}

// newOption applies the option defaults: square shape, zero radius, text type.
func newOption(in OptionInput) models.ProductOption {
	option := models.ProductOption{
		Title:  in.Title,
		Shape:  in.Shape,
		Radius: in.Radius,
		Type:   in.Type,
		Values: models.OptionValues(in.Values),
	}
	if option.Shape == "" {
		option.Shape = "square"
	}
	if option.Type == "" {
		option.Type = "text"
	}
	return option
}

// categoryIDsOrEmpty keeps category_ids serialized as [] rather than null.
func categoryIDsOrEmpty(ids []uint) []uint {
	if ids == nil {
		return []uint{}
	}
	return ids
}
