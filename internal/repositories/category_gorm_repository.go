package repositories

import (
	"fmt"

	"lojinha/internal/models"

	"gorm.io/gorm"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

// List retrieves a page of categories plus the unpaginated total.
func (r *GORMCategoryRepository) List(q CategoryQuery) ([]models.Category, int64, error) {
	base := r.db.Model(&models.Category{})
	if q.UseInMenu != nil {
		base = base.Where("use_in_menu = ?", *q.UseInMenu)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	var categories []models.Category
	err := base.Session(&gorm.Session{}).
		Order("id").
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&categories).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, total, nil
}

// GetByID retrieves a category by id.
func (r *GORMCategoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get category %d: %w", id, err)
	}
	return &category, nil
}

// Create inserts a new category.
func (r *GORMCategoryRepository) Create(category *models.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Update applies only the given fields to an existing category.
func (r *GORMCategoryRepository) Update(id uint, fields map[string]interface{}) error {
	var category models.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to get category %d for update: %w", id, err)
	}
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.Model(&category).Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to update category %d: %w", id, err)
	}
	return nil
}

// Delete removes a category and any join rows referencing it.
func (r *GORMCategoryRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Category{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete category %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("category %d not found for deletion: %w", id, gorm.ErrRecordNotFound)
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.ProductCategory{}).Error; err != nil {
			return fmt.Errorf("failed to delete category %d associations: %w", id, err)
		}
		return nil
	})
}
