package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakamalem/marketplace/internal/models"
	"github.com/kakamalem/marketplace/internal/repo"
)

// Seeds a marketplace with two sellers and a mixed order:
//   - seller one owns a product directly and lists another one through their
//     storefront only,
//   - seller two owns the third product,
//
// all three bought together in one order, plus a second order containing only
// seller two's product.
func seedDashboardData(t *testing.T, r *repo.GormRepo) (sellerOne, sellerTwo *models.User) {
	t.Helper()
	ctx := context.Background()

	sellerOne = seedUser(t, r, "one@example.com", models.RoleCustomer, models.RoleSeller)
	sellerTwo = seedUser(t, r, "two@example.com", models.RoleCustomer, models.RoleSeller)

	store := seedStorefront(t, r, sellerOne.ID, "one-bazaar")

	owned := seedProduct(t, r, "owned", 100, &sellerOne.ID)
	listed := seedProduct(t, r, "listed", 50, nil, *store)
	foreign := seedProduct(t, r, "foreign", 500, &sellerTwo.ID)

	mixed := models.Order{
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: "cash_on_delivery",
		Currency:      "AFN",
		Items: []models.OrderItem{
			{ProductID: owned.ID, ProductSellerID: &sellerOne.ID, ProductName: "owned", Quantity: 2, UnitPrice: 100, LineTotal: 200},
			{ProductID: listed.ID, ProductName: "listed", Quantity: 1, UnitPrice: 50, LineTotal: 50},
			{ProductID: foreign.ID, ProductSellerID: &sellerTwo.ID, ProductName: "foreign", Quantity: 1, UnitPrice: 500, LineTotal: 500},
		},
	}
	require.NoError(t, r.CreateOrder(ctx, &mixed))

	onlyTwo := models.Order{
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: "cash_on_delivery",
		Currency:      "AFN",
		Items: []models.OrderItem{
			{ProductID: foreign.ID, ProductSellerID: &sellerTwo.ID, ProductName: "foreign", Quantity: 3, UnitPrice: 500, LineTotal: 1500},
		},
	}
	require.NoError(t, r.CreateOrder(ctx, &onlyTwo))

	return sellerOne, sellerTwo
}

func TestDashboard_AttributionAndRevenue(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &DashboardService{Repo: r}
	ctx := context.Background()

	sellerOne, sellerTwo := seedDashboardData(t, r)

	one, err := svc.GetOverview(ctx, sellerOne.ID)
	require.NoError(t, err)
	// 200 owned directly plus 50 through storefront listing; the foreign 500
	// line in the same order is not theirs.
	assert.Equal(t, 250.0, one.Revenue)
	assert.Equal(t, 1, one.OrderCount)
	assert.Equal(t, 2, one.ItemCount)
	assert.Equal(t, 3, one.UnitsSold)
	assert.True(t, one.HasStore)
	assert.Equal(t, models.StorefrontStatusActive, one.StoreStatus)

	two, err := svc.GetOverview(ctx, sellerTwo.ID)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, two.Revenue)
	assert.Equal(t, 2, two.OrderCount)
	assert.Equal(t, 4, two.UnitsSold)
	assert.False(t, two.HasStore)
}

func TestDashboard_NoStorefrontDisablesListingAttribution(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &DashboardService{Repo: r}
	ctx := context.Background()

	// The product is only connected to the seller through a storefront owned
	// by someone else; without a store of their own nothing is attributed.
	other := seedUser(t, r, "other@example.com", models.RoleSeller)
	store := seedStorefront(t, r, other.ID, "other-bazaar")
	product := seedProduct(t, r, "drifting", 80, nil, *store)

	storeless := seedUser(t, r, "storeless@example.com", models.RoleSeller)

	order := models.Order{
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: "cash_on_delivery",
		Currency:      "AFN",
		Items: []models.OrderItem{
			{ProductID: product.ID, ProductName: "drifting", Quantity: 1, UnitPrice: 80, LineTotal: 80},
		},
	}
	require.NoError(t, r.CreateOrder(ctx, &order))

	overview, err := svc.GetOverview(ctx, storeless.ID)
	require.NoError(t, err)
	assert.Zero(t, overview.Revenue)
	assert.Zero(t, overview.OrderCount)
	assert.False(t, overview.HasStore)

	otherView, err := svc.GetOverview(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 80.0, otherView.Revenue)
}

// The overview cards, the orders page and the analytics report must agree:
// they all fold over the same attributed summaries.
func TestDashboard_PagesAgree(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &DashboardService{Repo: r}
	ctx := context.Background()

	sellerOne, _ := seedDashboardData(t, r)

	overview, err := svc.GetOverview(ctx, sellerOne.ID)
	require.NoError(t, err)

	orders, err := svc.ListOrders(ctx, sellerOne.ID)
	require.NoError(t, err)

	analytics, err := svc.GetAnalytics(ctx, sellerOne.ID)
	require.NoError(t, err)

	var listRevenue float64
	var listUnits int
	for _, so := range orders {
		listRevenue += so.Summary.Total
		listUnits += so.Summary.Units
	}

	assert.Equal(t, overview.Revenue, listRevenue)
	assert.Equal(t, overview.Revenue, analytics.Revenue)
	assert.Equal(t, overview.OrderCount, len(orders))
	assert.Equal(t, overview.OrderCount, analytics.OrderCount)
	assert.Equal(t, overview.UnitsSold, listUnits)
	assert.Equal(t, overview.UnitsSold, analytics.UnitsSold)
}

func TestDashboard_AnalyticsIncludesViewCounters(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &DashboardService{Repo: r}
	ctx := context.Background()

	seller := seedUser(t, r, "viewed@example.com", models.RoleSeller)
	store := seedStorefront(t, r, seller.ID, "viewed-bazaar")

	require.NoError(t, r.RecordView(ctx, store.ID, true))
	require.NoError(t, r.RecordView(ctx, store.ID, false))

	analytics, err := svc.GetAnalytics(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), analytics.ViewCount)
	assert.Equal(t, int64(1), analytics.VisitorCount)
}

func TestDashboard_EmptySeller(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &DashboardService{Repo: r}
	ctx := context.Background()

	seller := seedUser(t, r, "quiet@example.com", models.RoleSeller)

	orders, err := svc.ListOrders(ctx, seller.ID)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}
