package product

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/pkg/apperror"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Category{}, &Product{}))
	return db
}

func newTestServices(t *testing.T) (*Service, *CategoryService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	cfg := &config.Config{}
	return NewService(db, cfg), NewCategoryService(db, cfg), db
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "consolas-retro", Slugify("Consolas Retro"))
	assert.Equal(t, "perifericos", Slugify("Periféricos"))
	assert.Equal(t, "juegos-ps5", Slugify("  Juegos / PS5!  "))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestTitleFromSlug(t *testing.T) {
	assert.Equal(t, "Consolas Retro", TitleFromSlug("consolas-retro"))
	assert.Equal(t, "Monitores", TitleFromSlug("monitores"))
}

func TestCreateProductAutoCreatesCategory(t *testing.T) {
	svc, catSvc, _ := newTestServices(t)

	created, err := svc.CreateProduct(&ProductCreateRequest{
		Name:       "DualSense",
		Price:      249900,
		Stock:      10,
		CategoryID: "Consolas Retro",
	})
	require.NoError(t, err)
	assert.Equal(t, "consolas-retro", created.CategoryID)

	category, err := catSvc.GetCategory("consolas-retro")
	require.NoError(t, err)
	assert.Equal(t, "Consolas Retro", category.Name)
}

func TestCreateProductReusesExistingCategory(t *testing.T) {
	svc, catSvc, _ := newTestServices(t)

	_, err := catSvc.CreateCategory(&CategoryCreateRequest{Name: "Monitores", Description: "Pantallas"})
	require.NoError(t, err)

	_, err = svc.CreateProduct(&ProductCreateRequest{
		Name:       "Monitor 144Hz",
		Price:      899900,
		Stock:      4,
		CategoryID: "monitores",
	})
	require.NoError(t, err)

	categories, err := catSvc.GetCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 1)
	assert.Equal(t, "Pantallas", categories[0].Description)
}

func TestCreateProductInactivePersists(t *testing.T) {
	svc, _, db := newTestServices(t)

	inactive := false
	created, err := svc.CreateProduct(&ProductCreateRequest{
		Name:       "Preventa",
		Price:      399900,
		Stock:      0,
		CategoryID: "juegos",
		IsActive:   &inactive,
	})
	require.NoError(t, err)
	assert.False(t, created.IsActive)

	var stored Product
	require.NoError(t, db.First(&stored, created.ID).Error)
	assert.False(t, stored.IsActive)
}

func TestGetProductNotFound(t *testing.T) {
	svc, _, _ := newTestServices(t)

	_, err := svc.GetProduct(999)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
}

func TestGetProductsFiltersByCategory(t *testing.T) {
	svc, _, _ := newTestServices(t)

	for _, p := range []ProductCreateRequest{
		{Name: "Switch 2", Price: 1999900, Stock: 3, CategoryID: "consolas"},
		{Name: "Teclado", Price: 299900, Stock: 8, CategoryID: "perifericos"},
		{Name: "Mouse", Price: 149900, Stock: 12, CategoryID: "perifericos"},
	} {
		req := p
		_, err := svc.CreateProduct(&req)
		require.NoError(t, err)
	}

	resp, err := svc.GetProducts(&ProductListRequest{Page: 1, Limit: 20, CategoryID: "perifericos"})
	require.NoError(t, err)
	assert.Len(t, resp.Products, 2)
	assert.EqualValues(t, 2, resp.Pagination.Total)
}

func TestGetProductsSearch(t *testing.T) {
	svc, _, _ := newTestServices(t)

	for _, name := range []string{"Silla Gamer", "Mouse Pad", "Silla Oficina"} {
		_, err := svc.CreateProduct(&ProductCreateRequest{
			Name: name, Price: 100000, Stock: 1, CategoryID: "accesorios",
		})
		require.NoError(t, err)
	}

	resp, err := svc.GetProducts(&ProductListRequest{Page: 1, Limit: 20, Search: "silla"})
	require.NoError(t, err)
	assert.Len(t, resp.Products, 2)
}

func TestGetFeaturedProductsSkipsInactive(t *testing.T) {
	svc, _, db := newTestServices(t)

	inactive := false
	_, err := svc.CreateProduct(&ProductCreateRequest{
		Name: "Destacado", Price: 50000, Stock: 2, CategoryID: "juegos", IsFeatured: true,
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(&ProductCreateRequest{
		Name: "Oculto", Price: 50000, Stock: 2, CategoryID: "juegos", IsFeatured: true, IsActive: &inactive,
	})
	require.NoError(t, err)

	var total int64
	require.NoError(t, db.Model(&Product{}).Count(&total).Error)
	require.EqualValues(t, 2, total)

	featured, err := svc.GetFeaturedProducts()
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "Destacado", featured[0].Name)
}

func TestUpdateProductPartial(t *testing.T) {
	svc, _, _ := newTestServices(t)

	created, err := svc.CreateProduct(&ProductCreateRequest{
		Name: "PS5 Slim", Price: 2499900, Stock: 5, CategoryID: "consolas",
	})
	require.NoError(t, err)

	newPrice := int64(2299900)
	updated, err := svc.UpdateProduct(created.ID, &ProductUpdateRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, newPrice, updated.Price)
	assert.Equal(t, "PS5 Slim", updated.Name)
	assert.Equal(t, 5, updated.Stock)
}

func TestUpdateStockRejectsNegative(t *testing.T) {
	svc, _, _ := newTestServices(t)

	created, err := svc.CreateProduct(&ProductCreateRequest{
		Name: "Cable HDMI", Price: 29900, Stock: 5, CategoryID: "accesorios",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStock(created.ID, -1)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))

	updated, err := svc.UpdateStock(created.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
}

func TestReduceStockConditional(t *testing.T) {
	svc, _, db := newTestServices(t)

	created, err := svc.CreateProduct(&ProductCreateRequest{
		Name: "Xbox Series X", Price: 2199900, Stock: 3, CategoryID: "consolas",
	})
	require.NoError(t, err)

	require.NoError(t, ReduceStock(db, created.ID, 2))

	err = ReduceStock(db, created.ID, 2)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInsufficientStock, apperror.CodeOf(err))

	after, err := svc.GetProduct(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.Stock)
}

func TestRestoreStock(t *testing.T) {
	svc, _, db := newTestServices(t)

	created, err := svc.CreateProduct(&ProductCreateRequest{
		Name: "Volante", Price: 999900, Stock: 1, CategoryID: "accesorios",
	})
	require.NoError(t, err)

	require.NoError(t, RestoreStock(db, created.ID, 4))

	after, err := svc.GetProduct(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, after.Stock)
}

func TestGetLowStockProducts(t *testing.T) {
	svc, _, _ := newTestServices(t)

	_, err := svc.CreateProduct(&ProductCreateRequest{
		Name: "Casi Agotado", Price: 10000, Stock: 2, CategoryID: "juegos", LowStockThreshold: 5,
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(&ProductCreateRequest{
		Name: "Bien Surtido", Price: 10000, Stock: 50, CategoryID: "juegos", LowStockThreshold: 5,
	})
	require.NoError(t, err)

	low, err := svc.GetLowStockProducts()
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Casi Agotado", low[0].Name)
}

func TestDeleteCategoryBlockedByActiveChildren(t *testing.T) {
	_, catSvc, _ := newTestServices(t)

	parent, err := catSvc.CreateCategory(&CategoryCreateRequest{Name: "Consolas"})
	require.NoError(t, err)
	child, err := catSvc.CreateCategory(&CategoryCreateRequest{Name: "Consolas Retro", ParentID: &parent.ID})
	require.NoError(t, err)

	err = catSvc.DeleteCategory(parent.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))

	// Both records stay as they were.
	kept, err := catSvc.GetCategory(parent.ID)
	require.NoError(t, err)
	assert.True(t, kept.IsActive)

	// Deactivating the child unblocks the parent.
	require.NoError(t, catSvc.DeleteCategory(child.ID))
	require.NoError(t, catSvc.DeleteCategory(parent.ID))

	gone, err := catSvc.GetCategory(parent.ID)
	require.NoError(t, err)
	assert.False(t, gone.IsActive)
}

func TestCategoryHierarchyQueries(t *testing.T) {
	_, catSvc, _ := newTestServices(t)

	parent, err := catSvc.CreateCategory(&CategoryCreateRequest{Name: "Consolas"})
	require.NoError(t, err)
	_, err = catSvc.CreateCategory(&CategoryCreateRequest{Name: "Consolas Retro", ParentID: &parent.ID})
	require.NoError(t, err)
	_, err = catSvc.CreateCategory(&CategoryCreateRequest{Name: "Accesorios"})
	require.NoError(t, err)

	roots, err := catSvc.GetRootCategories()
	require.NoError(t, err)
	require.Len(t, roots, 2)

	children, err := catSvc.GetChildren(parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "consolas-retro", children[0].ID)

	_, err = catSvc.GetChildren("no-existe")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
}

func TestCreateCategoryDuplicate(t *testing.T) {
	_, catSvc, _ := newTestServices(t)

	_, err := catSvc.CreateCategory(&CategoryCreateRequest{Name: "Juegos"})
	require.NoError(t, err)

	_, err = catSvc.CreateCategory(&CategoryCreateRequest{Name: "juegos"})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))
}
