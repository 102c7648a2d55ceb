package services

import (
	"errors"

	"lojinha/internal/models"
	"lojinha/internal/repositories"

	"gorm.io/gorm"
)

// CategoryPatch carries a partial category update. Nil fields are left
// unchanged.
type CategoryPatch struct {
	Name      *string `json:"name"`
	Slug      *string `json:"slug"`
	UseInMenu *bool   `json:"use_in_menu"`
}

// CategoryService handles business logic for categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// List retrieves a page of categories and the unpaginated total.
func (s *CategoryService) List(q repositories.CategoryQuery) ([]models.Category, int64, error) {
	if q.Limit < 1 {
		q.Limit = 12
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return s.repo.List(q)
}

// GetByID retrieves a category by id.
func (s *CategoryService) GetByID(id uint) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

// Create stores a new category. The caller validates required fields.
func (s *CategoryService) Create(category *models.Category) error {
	return classifyWriteError(s.repo.Create(category), "slug")
}

// Update applies the fields present in the patch.
func (s *CategoryService) Update(id uint, patch CategoryPatch) error {
	fields := map[string]interface{}{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Slug != nil {
		fields["slug"] = *patch.Slug
	}
	if patch.UseInMenu != nil {
		fields["use_in_menu"] = *patch.UseInMenu
	}
	return classifyWriteError(s.repo.Update(id, fields), "slug")
}

// Delete removes a category by id.
func (s *CategoryService) Delete(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
