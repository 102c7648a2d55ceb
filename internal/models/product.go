package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Product is the aggregate root for the catalog: it exclusively owns its
// images and options, and relates to categories through ProductCategory.
type Product struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	Name              string          `json:"name" gorm:"type:varchar(255);not null"`
	Slug              string          `json:"slug" gorm:"uniqueIndex;type:varchar(255);not null"`
	Enabled           bool            `json:"enabled"`
	UseInMenu         bool            `json:"use_in_menu"`
	Stock             int             `json:"stock"`
	Description       string          `json:"description" gorm:"type:text"`
	Price             float64         `json:"price" gorm:"not null"`
	PriceWithDiscount float64         `json:"price_with_discount" gorm:"not null"`
	Images            []ProductImage  `json:"images" gorm:"foreignKey:ProductID"`
	Options           []ProductOption `json:"options" gorm:"foreignKey:ProductID"`
	// CategoryIDs is resolved through an explicit query against the join
	// table, never loaded by the ORM.
	CategoryIDs []uint    `json:"category_ids" gorm:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// ProductImage is an image owned by exactly one product.
type ProductImage struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProductID uint   `json:"-" gorm:"index;not null"`
	Path      string `json:"path" gorm:"type:varchar(255);not null"`
}

// ProductOption is a selectable option (size, color, ...) owned by one product.
type ProductOption struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	ProductID uint         `json:"-" gorm:"index;not null"`
	Title     string       `json:"title" gorm:"type:varchar(100);not null"`
	Shape     string       `json:"shape" gorm:"type:varchar(20);default:square"`
	Radius    int          `json:"radius" gorm:"default:0"`
	Type      string       `json:"type" gorm:"type:varchar(20);default:text"`
	Values    OptionValues `json:"values" gorm:"type:varchar(255)"`
}

// OptionValues marshals as a JSON array but persists as a single
// comma-separated varchar column.
type OptionValues []string

// Value implements driver.Valuer.
func (v OptionValues) Value() (driver.Value, error) {
	return strings.Join(v, ","), nil
}

// Scan implements sql.Scanner.
func (v *OptionValues) Scan(src interface{}) error {
	var s string
	switch t := src.(type) {
	case nil:
		*v = nil
		return nil
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return fmt.Errorf("cannot scan %T into OptionValues", src)
	}
	if s == "" {
		*v = nil
		return nil
	}
	*v = strings.Split(s, ",")
	return nil
}

// ProductCategory is the explicit many-to-many join between products and
// categories. It has no identity of its own.
type ProductCategory struct {
	ProductID  uint `gorm:"primaryKey"`
	CategoryID uint `gorm:"primaryKey"`
}

// TableName keeps the join table name stable regardless of pluralization.
func (ProductCategory) TableName() string {
	return "product_categories"
}
