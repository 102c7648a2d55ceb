package repositories

import "lojinha/internal/models"

// ProductQuery holds the filters accepted by the product listing.
type ProductQuery struct {
	Limit       int
	Page        int
	Match       string   // substring over name/description
	PriceMin    *float64 // inclusive, set together with PriceMax
	PriceMax    *float64
	CategoryIDs []uint  // products linked to any of these categories
	Option      string  // products having a matching option title or value
}

// ProductAggregateUpdate describes one reconciliation pass over a product and
// its owned collections. The whole update is applied atomically.
type ProductAggregateUpdate struct {
	Fields          map[string]interface{}
	DeleteImageIDs  []uint
	UpsertImages    []models.ProductImage // zero ID inserts, otherwise in-place update
	DeleteOptionIDs []uint
	UpsertOptions   []models.ProductOption
	CategoryIDs     *[]uint // nil leaves associations untouched
}

// ProductRepository defines the interface for product aggregate data access.
type ProductRepository interface {
	List(q ProductQuery) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	CategoryIDsByProduct(productIDs []uint) (map[uint][]uint, error)
	CreateAggregate(product *models.Product, categoryIDs []uint) error
	UpdateAggregate(id uint, up ProductAggregateUpdate) error
	Delete(id uint) error
}
