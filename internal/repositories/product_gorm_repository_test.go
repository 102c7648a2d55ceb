package repositories_test

import (
	"fmt"
	"strings"
	"testing"

	"lojinha/internal/models"
	"lojinha/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory database per test so cases cannot see
// each other's rows.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductOption{},
		&models.ProductCategory{},
	))
	return db
}

func seedCategories(t *testing.T, db *gorm.DB, slugs ...string) []uint {
	t.Helper()
	ids := make([]uint, 0, len(slugs))
	for _, slug := range slugs {
		category := models.Category{Name: slug, Slug: slug}
		require.NoError(t, db.Create(&category).Error)
		ids = append(ids, category.ID)
	}
	return ids
}

func testProduct(slug string, price float64) *models.Product {
	return &models.Product{
		Name:              "Product " + slug,
		Slug:              slug,
		Price:             price,
		PriceWithDiscount: price * 0.8,
	}
}

func TestCreateAggregateRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMProductRepository(db)
	categoryIDs := seedCategories(t, db, "shoes", "running")

	product := testProduct("tenis-runner", 199.9)
	product.Images = []models.ProductImage{
		{Path: "/images/runner-1.png"},
		{Path: "/images/runner-2.png"},
	}
	product.Options = []models.ProductOption{
		{Title: "Tamanho", Shape: "square", Type: "text", Values: models.OptionValues{"39", "40", "41"}},
		{Title: "Cor", Shape: "circle", Type: "color", Values: models.OptionValues{"#000", "#fff"}},
	}
	require.NoError(t, repo.CreateAggregate(product, categoryIDs))
	require.NotZero(t, product.ID)

	got, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Len(t, got.Images, 2)
	assert.Len(t, got.Options, 2)
	assert.Equal(t, models.OptionValues{"39", "40", "41"}, got.Options[0].Values)

	byProduct, err := repo.CategoryIDsByProduct([]uint{product.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, categoryIDs, byProduct[product.ID])
}

func TestCreateAggregateRollsBackOnFailedSubWrite(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMProductRepository(db)
	categoryIDs := seedCategories(t, db, "shoes")

	// A duplicated association violates the join table's composite key after
	// the product and image rows were already written inside the transaction.
	product := testProduct("tenis-runner", 199.9)
	product.Images = []models.ProductImage{{Path: "/images/runner-1.png"}}
	err := repo.CreateAggregate(product, []uint{categoryIDs[0], categoryIDs[0]})
	require.Error(t, err)

	var productCount, imageCount int64
	require.NoError(t, db.Model(&models.Product{}).Count(&productCount).Error)
	require.NoError(t, db.Model(&models.ProductImage{}).Count(&imageCount).Error)
	assert.Zero(t, productCount)
	assert.Zero(t, imageCount)
}

func TestCreateAggregateDuplicateSlug(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMProductRepository(db)

	require.NoError(t, repo.CreateAggregate(testProduct("tenis-runner", 199.9), nil))
	err := repo.CreateAggregate(testProduct("tenis-runner", 99.9), nil)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUpdateAggregateReconcilesImages(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMProductRepository(db)

	product := testProduct("tenis-runner", 199.9)
	product.Images = []models.ProductImage{
		{Path: "/images/runner-1.png"},
		{Path: "/images/runner-2.png"},
	}
	require.NoError(t, repo.CreateAggregate(product, nil))
	doomed, kept := product.Images[0], product.Images[1]

	err := repo.UpdateAggregate(product.ID, repositories.ProductAggregateUpdate{
		DeleteImageIDs: []uint{doomed.ID},
		UpsertImages: []models.ProductImage{
			{Path: "/images/runner-3.png"},
		},
	})
	require.NoError(t, err)

	got, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 2)

	paths := []string{got.Images[0].Path, got.Images[1].Path}
	assert.ElementsMatch(t, []string{kept.Path, "/images/runner-3.png"}, paths)
}

func TestUpdateAggregateCategoryReplacement(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMProductRepository(db)
	categoryIDs := seedCategories(t, db, "shoes", "running", "sale")

	product := testProduct("tenis-runner", 199.9)
	require.NoError(t, repo.CreateAggregate(product, categoryIDs[:2]))

	// Nil leaves the associations untouched.
	require.NoError(t, repo.UpdateAggregate(product.ID, repositories.ProductAggregateUpdate{
		Fields: map[string]interface{}{"stock": 5},
	}))
	byProduct, err := repo.CategoryIDsByProduct([]uint{product.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, categoryIDs[:2], byProduct[product.ID])

	// A present list fully replaces them.
	replacement := []uint{categoryIDs[2]}
	require.NoError(t, repo.UpdateAggregate(product.ID, repositories.ProductAggregateUpdate{
		CategoryIDs: &replacement,
	}))
	byProduct, err = repo.CategoryIDsByProduct([]uint{product.ID})
	require.NoError(t, err)
	assert.Equal(t, replacement, byProduct[product.ID])
}

func TestUpdateAggregateScalarFields(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMProductRepository(db)

	product := testProduct("tenis-runner", 199.9)
	require.NoError(t, repo.CreateAggregate(product, nil))

	err := repo.UpdateAggregate(product.ID, repositories.ProductAggregateUpdate{
		Fields: map[string]interface{}{"name": "Tênis Runner v2", "enabled": true},
	})
	require.NoError(t, err)

	got, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tênis Runner v2", got.Name)
	assert.True(t, got.Enabled)
	// Untouched fields keep their values.
	assert.Equal(t, 199.9, got.Price)
}

func TestDeleteRemovesOwnedRows(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMProductRepository(db)
	categoryIDs := seedCategories(t, db, "shoes")

	product := testProduct("tenis-runner", 199.9)
	product.Images = []models.ProductImage{{Path: "/images/runner-1.png"}}
	product.Options = []models.ProductOption{{Title: "Tamanho", Values: models.OptionValues{"40"}}}
	require.NoError(t, repo.CreateAggregate(product, categoryIDs))

	require.NoError(t, repo.Delete(product.ID))

	_, err := repo.GetByID(product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	var imageCount, optionCount, joinCount int64
	require.NoError(t, db.Model(&models.ProductImage{}).Count(&imageCount).Error)
	require.NoError(t, db.Model(&models.ProductOption{}).Count(&optionCount).Error)
	require.NoError(t, db.Model(&models.ProductCategory{}).Count(&joinCount).Error)
	assert.Zero(t, imageCount)
	assert.Zero(t, optionCount)
	assert.Zero(t, joinCount)

	assert.ErrorIs(t, repo.Delete(product.ID), gorm.ErrRecordNotFound)
}

func TestListFiltersAndPagination(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMProductRepository(db)
	categoryIDs := seedCategories(t, db, "shoes", "shirts")

	cheap := testProduct("tenis-basico", 79.9)
	cheap.Description = "tênis de corrida básico"
	require.NoError(t, repo.CreateAggregate(cheap, categoryIDs[:1]))

	mid := testProduct("camiseta-dry", 119.9)
	mid.Description = "camiseta esportiva"
	require.NoError(t, repo.CreateAggregate(mid, categoryIDs[1:]))

	pricey := testProduct("tenis-pro", 399.9)
	pricey.Description = "tênis profissional"
	require.NoError(t, repo.CreateAggregate(pricey, categoryIDs[:1]))

	// Substring match covers both name and description.
	products, total, err := repo.List(repositories.ProductQuery{Limit: 12, Page: 1, Match: "tenis"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, products, 2)

	// Inclusive price range.
	min, max := 100.0, 400.0
	products, total, err = repo.List(repositories.ProductQuery{Limit: 12, Page: 1, PriceMin: &min, PriceMax: &max})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, products, 2)

	// Category filter.
	products, total, err = repo.List(repositories.ProductQuery{Limit: 12, Page: 1, CategoryIDs: categoryIDs[1:]})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, "camiseta-dry", products[0].Slug)

	// Option filter matches against option titles and values.
	withOption := testProduct("tenis-color", 149.9)
	withOption.Options = []models.ProductOption{
		{Title: "Cor", Type: "color", Values: models.OptionValues{"#0ff", "#f00"}},
	}
	require.NoError(t, repo.CreateAggregate(withOption, nil))
	products, total, err = repo.List(repositories.ProductQuery{Limit: 12, Page: 1, Option: "#f00"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, "tenis-color", products[0].Slug)

	// Pagination: page 2 of size 2 holds the later inserts, total still
	// counts everything.
	products, total, err = repo.List(repositories.ProductQuery{Limit: 2, Page: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, products, 2)
	assert.Equal(t, "tenis-pro", products[0].Slug)
	assert.Equal(t, "tenis-color", products[1].Slug)
}
