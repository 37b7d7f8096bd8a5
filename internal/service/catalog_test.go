package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakamalem/marketplace/internal/models"
	"github.com/kakamalem/marketplace/internal/transport"
)

func TestReorderProducts_RowOutcomes(t *testing.T) {
	t.Parallel()

	svc := &CatalogService{Repo: newTestRepo(t)}
	ctx := context.Background()

	first := seedProduct(t, svc.Repo, "first", 10, nil)
	second := seedProduct(t, svc.Repo, "second", 20, nil)

	missing := uuid.New()
	rows, ok := svc.ReorderProducts(ctx, []transport.ReorderEntry{
		{ID: first.ID, DisplayOrder: 2},
		{ID: missing, DisplayOrder: 1},
		{ID: second.ID, DisplayOrder: 0},
	})

	// One bad row does not abort the batch: the rest are applied and every
	// row reports its own outcome.
	assert.False(t, ok)
	require.Len(t, rows, 3)

	assert.True(t, rows[0].OK)
	assert.False(t, rows[1].OK)
	assert.Equal(t, missing, rows[1].ID)
	assert.Equal(t, "not found", rows[1].Error)
	assert.True(t, rows[2].OK)

	p, err := svc.Repo.ProductByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.DisplayOrder)

	p, err = svc.Repo.ProductByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, p.DisplayOrder)
}

func TestReorderCategories(t *testing.T) {
	t.Parallel()

	svc := &CatalogService{Repo: newTestRepo(t)}
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, transport.CreateCategoryRequest{Name: "Rugs"})
	require.NoError(t, err)

	rows, ok := svc.ReorderCategories(ctx, []transport.ReorderEntry{
		{ID: cat.ID, DisplayOrder: 5},
	})
	assert.True(t, ok)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].OK)
	assert.Empty(t, rows[0].Error)
}

func TestProductCRUD_Permissions(t *testing.T) {
	t.Parallel()

	svc := &CatalogService{Repo: newTestRepo(t)}
	ctx := context.Background()

	seller := seedUser(t, svc.Repo, "seller@example.com", models.RoleSeller)
	product, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name:  "Copper Tray",
		Price: 340,
		Stock: 5,
	}, seller.ID)
	require.NoError(t, err)
	require.NotNil(t, product.SellerID)
	assert.Equal(t, seller.ID, *product.SellerID)

	newPrice := 360.0
	updated, err := svc.PatchProduct(ctx, product.ID, transport.PatchProductRequest{Price: &newPrice}, actorFor(seller))
	require.NoError(t, err)
	assert.Equal(t, 360.0, updated.Price)

	other := seedUser(t, svc.Repo, "other@example.com", models.RoleSeller)
	_, err = svc.PatchProduct(ctx, product.ID, transport.PatchProductRequest{Price: &newPrice}, actorFor(other))
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.DeleteProduct(ctx, product.ID, actorFor(other))
	assert.ErrorIs(t, err, ErrForbidden)

	admin := seedUser(t, svc.Repo, "admin@example.com", models.RoleAdmin)
	require.NoError(t, svc.DeleteProduct(ctx, product.ID, actorFor(admin)))

	_, err = svc.GetProduct(ctx, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateProduct_UnknownStorefront(t *testing.T) {
	t.Parallel()

	svc := &CatalogService{Repo: newTestRepo(t)}
	ctx := context.Background()

	seller := seedUser(t, svc.Repo, "seller@example.com", models.RoleSeller)
	_, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name:     "Ghost",
		Price:    10,
		StoreIDs: []uuid.UUID{uuid.New()},
	}, seller.ID)
	assert.ErrorIs(t, err, ErrValidation)
}
