package models

import "time"

// Category groups products for navigation. Products reference categories
// through the product_categories join table.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null" validate:"required"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required"`
	UseInMenu bool      `json:"use_in_menu"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
