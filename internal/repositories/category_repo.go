package repositories

import "lojinha/internal/models"

// CategoryQuery holds the filters accepted by the category listing.
type CategoryQuery struct {
	Limit     int
	Page      int
	UseInMenu *bool
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	List(q CategoryQuery) ([]models.Category, int64, error)
	GetByID(id uint) (*models.Category, error)
	Create(category *models.Category) error
	Update(id uint, fields map[string]interface{}) error
	Delete(id uint) error
}
