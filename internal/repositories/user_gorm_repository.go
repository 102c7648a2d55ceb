package repositories

import (
	"fmt"

	"lojinha/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{db: db}
}

// Create inserts a new user.
func (r *GORMUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by id.
func (r *GORMUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// Update applies only the given fields to an existing user.
func (r *GORMUserRepository) Update(id uint, fields map[string]interface{}) error {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to get user %d for update: %w", id, err)
	}
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.Model(&user).Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return nil
}

// Delete removes a user by id.
func (r *GORMUserRepository) Delete(id uint) error {
	res := r.db.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %d not found for deletion: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
