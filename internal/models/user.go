package models

import "time"

// User represents a registered customer of the store.
// Password always holds a bcrypt hash; it is written by the user service
// and never serialized.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Firstname string    `json:"firstname" gorm:"type:varchar(100);not null" validate:"required"`
	Surname   string    `json:"surname" gorm:"type:varchar(100);not null" validate:"required"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
