package repositories

import (
	"fmt"

	"lojinha/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
// Every multi-table write runs inside a single transaction so the aggregate
// is never left partially written.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

// List retrieves a page of products with their images and options, plus the
// unpaginated total.
func (r *GORMProductRepository) List(q ProductQuery) ([]models.Product, int64, error) {
	base := r.db.Model(&models.Product{})
	if q.Match != "" {
		pattern := "%" + q.Match + "%"
		base = base.Where(r.db.Where("name LIKE ?", pattern).Or("description LIKE ?", pattern))
	}
	if q.PriceMin != nil && q.PriceMax != nil {
		base = base.Where("price BETWEEN ? AND ?", *q.PriceMin, *q.PriceMax)
	}
	if len(q.CategoryIDs) > 0 {
		sub := r.db.Model(&models.ProductCategory{}).
			Select("product_id").
			Where("category_id IN ?", q.CategoryIDs)
		base = base.Where("id IN (?)", sub)
	}
	if q.Option != "" {
		pattern := "%" + q.Option + "%"
		sub := r.db.Model(&models.ProductOption{}).
			Select("product_id").
			Where(`title LIKE ? OR "values" LIKE ?`, pattern, pattern)
		base = base.Where("id IN (?)", sub)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	err := base.Session(&gorm.Session{}).
		Preload("Images").
		Preload("Options").
		Order("id").
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// GetByID retrieves a single product with its images and options.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Images").Preload("Options").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &product, nil
}

// CategoryIDsByProduct resolves category ids for a batch of products with one
// query against the join table.
func (r *GORMProductRepository) CategoryIDsByProduct(productIDs []uint) (map[uint][]uint, error) {
	out := make(map[uint][]uint, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var rows []models.ProductCategory
	if err := r.db.Where("product_id IN ?", productIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get product categories: %w", err)
	}
	for _, row := range rows {
		out[row.ProductID] = append(out[row.ProductID], row.CategoryID)
	}
	return out, nil
}

// CreateAggregate inserts the product row, its images, its options and its
// category associations. Commits only if every sub-write succeeds.
func (r *GORMProductRepository) CreateAggregate(product *models.Product, categoryIDs []uint) error {
	images := product.Images
	options := product.Options
	product.Images = nil
	product.Options = nil

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		for i := range images {
			images[i].ProductID = product.ID
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return fmt.Errorf("failed to create product images: %w", err)
			}
		}
		for i := range options {
			options[i].ProductID = product.ID
		}
		if len(options) > 0 {
			if err := tx.Create(&options).Error; err != nil {
				return fmt.Errorf("failed to create product options: %w", err)
			}
		}
		for _, categoryID := range categoryIDs {
			join := models.ProductCategory{ProductID: product.ID, CategoryID: categoryID}
			if err := tx.Create(&join).Error; err != nil {
				return fmt.Errorf("failed to create product category association: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	product.Images = images
	product.Options = options
	product.CategoryIDs = categoryIDs
	return nil
}

// UpdateAggregate applies scalar changes, reconciles the owned image and
// option collections and, when requested, replaces the category associations,
// all inside one transaction.
func (r *GORMProductRepository) UpdateAggregate(id uint, up ProductAggregateUpdate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(up.Fields) > 0 {
			err := tx.Model(&models.Product{}).Where("id = ?", id).Updates(up.Fields).Error
			if err != nil {
				return fmt.Errorf("failed to update product %d: %w", id, err)
			}
		}

		if len(up.DeleteImageIDs) > 0 {
			err := tx.Where("id IN ? AND product_id = ?", up.DeleteImageIDs, id).
				Delete(&models.ProductImage{}).Error
			if err != nil {
				return fmt.Errorf("failed to delete product images: %w", err)
			}
		}
		for _, image := range up.UpsertImages {
			if image.ID == 0 {
				image.ProductID = id
				if err := tx.Create(&image).Error; err != nil {
					return fmt.Errorf("failed to create product image: %w", err)
				}
				continue
			}
			err := tx.Model(&models.ProductImage{}).
				Where("id = ? AND product_id = ?", image.ID, id).
				Update("path", image.Path).Error
			if err != nil {
				return fmt.Errorf("failed to update product image %d: %w", image.ID, err)
			}
		}

		if len(up.DeleteOptionIDs) > 0 {
			err := tx.Where("id IN ? AND product_id = ?", up.DeleteOptionIDs, id).
				Delete(&models.ProductOption{}).Error
			if err != nil {
				return fmt.Errorf("failed to delete product options: %w", err)
			}
		}
		for _, option := range up.UpsertOptions {
			if option.ID == 0 {
				option.ProductID = id
				if err := tx.Create(&option).Error; err != nil {
					return fmt.Errorf("failed to create product option: %w", err)
				}
				continue
			}
			err := tx.Model(&models.ProductOption{}).
				Where("id = ? AND product_id = ?", option.ID, id).
				Updates(map[string]interface{}{
					"title":  option.Title,
					"shape":  option.Shape,
					"radius": option.Radius,
					"type":   option.Type,
					"values": option.Values,
				}).Error
			if err != nil {
				return fmt.Errorf("failed to update product option %d: %w", option.ID, err)
			}
		}

		if up.CategoryIDs != nil {
			err := tx.Where("product_id = ?", id).Delete(&models.ProductCategory{}).Error
			if err != nil {
				return fmt.Errorf("failed to clear product category associations: %w", err)
			}
			for _, categoryID := range *up.CategoryIDs {
				join := models.ProductCategory{ProductID: id, CategoryID: categoryID}
				if err := tx.Create(&join).Error; err != nil {
					return fmt.Errorf("failed to create product category association: %w", err)
				}
			}
		}
		return nil
	})
}

// Delete removes a product together with its images, options and category
// associations.
func (r *GORMProductRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product %d not found for deletion: %w", id, gorm.ErrRecordNotFound)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete product %d images: %w", id, err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductOption{}).Error; err != nil {
			return fmt.Errorf("failed to delete product %d options: %w", id, err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductCategory{}).Error; err != nil {
			return fmt.Errorf("failed to delete product %d associations: %w", id, err)
		}
		return nil
	})
}
