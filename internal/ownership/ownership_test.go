package ownership

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakamalem/marketplace/internal/models"
)

func TestBelongsToSeller_DirectSellerReference(t *testing.T) {
	t.Parallel()

	sellerID := uuid.New()
	item := models.OrderItem{ProductSellerID: &sellerID}

	assert.True(t, BelongsToSeller(item, sellerID, nil))
	assert.False(t, BelongsToSeller(item, uuid.New(), nil))
}

func TestBelongsToSeller_PopulatedSellerObject(t *testing.T) {
	t.Parallel()

	sellerID := uuid.New()
	item := models.OrderItem{ProductSeller: &models.User{ID: sellerID}}

	assert.True(t, BelongsToSeller(item, sellerID, nil))
}

func TestBelongsToSeller_ProductSeller(t *testing.T) {
	t.Parallel()

	sellerID := uuid.New()
	item := models.OrderItem{
		Product: &models.Product{ID: uuid.New(), SellerID: &sellerID},
	}

	assert.True(t, BelongsToSeller(item, sellerID, nil))
	assert.False(t, BelongsToSeller(item, uuid.New(), nil))
}

func TestBelongsToSeller_StorefrontMembershipOnly(t *testing.T) {
	t.Parallel()

	// Product listed in the seller's storefront with no direct seller on the
	// product and no seller reference on the item: the third grant alone must
	// attribute the item.
	sellerID := uuid.New()
	storeID := uuid.New()
	item := models.OrderItem{
		Product: &models.Product{
			ID:     uuid.New(),
			Stores: []models.Storefront{{ID: storeID}},
		},
	}

	assert.True(t, BelongsToSeller(item, sellerID, &storeID))

	otherStore := uuid.New()
	assert.False(t, BelongsToSeller(item, sellerID, &otherStore))
	assert.False(t, BelongsToSeller(item, sellerID, nil))
}

func TestBelongsToSeller_UnpopulatedProductDegrades(t *testing.T) {
	t.Parallel()

	// A bare product reference leaves only the direct-seller grant evaluable.
	// That must yield false, never a panic.
	sellerID := uuid.New()
	storeID := uuid.New()
	item := models.OrderItem{ProductID: uuid.New()}

	assert.False(t, BelongsToSeller(item, sellerID, &storeID))

	item.ProductSellerID = &sellerID
	assert.True(t, BelongsToSeller(item, sellerID, &storeID))
}

func TestBelongsToSeller_MonotonicUnderPopulation(t *testing.T) {
	t.Parallel()

	sellerID := uuid.New()
	storeID := uuid.New()
	productID := uuid.New()

	populated := &models.Product{
		ID:       productID,
		SellerID: &sellerID,
		Stores:   []models.Storefront{{ID: storeID}},
	}

	cases := []struct {
		name string
		bare models.OrderItem
		full models.OrderItem
	}{
		{
			name: "direct seller set",
			bare: models.OrderItem{ProductID: productID, ProductSellerID: &sellerID},
			full: models.OrderItem{ProductID: productID, ProductSellerID: &sellerID, Product: populated},
		},
		{
			name: "no direct seller",
			bare: models.OrderItem{ProductID: productID},
			full: models.OrderItem{ProductID: productID, Product: populated},
		},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Population may only add evaluable grants: a true result on the
			// bare item must stay true on the populated one.
			if BelongsToSeller(tt.bare, sellerID, &storeID) {
				assert.True(t, BelongsToSeller(tt.full, sellerID, &storeID))
			}
		})
	}
}

func TestAggregateSellerOrder_TotalMatchesFilteredSum(t *testing.T) {
	t.Parallel()

	sellerID := uuid.New()
	storeID := uuid.New()
	otherSeller := uuid.New()

	order := models.Order{
		Items: []models.OrderItem{
			{ProductSellerID: &sellerID, Quantity: 2, LineTotal: 200},
			{ProductSellerID: &otherSeller, Quantity: 1, LineTotal: 999},
			{
				Product:  &models.Product{ID: uuid.New(), Stores: []models.Storefront{{ID: storeID}}},
				Quantity: 3, LineTotal: 150,
			},
			{ProductID: uuid.New(), Quantity: 5, LineTotal: 500}, // unattributable
		},
	}

	summary := AggregateSellerOrder(order, sellerID, &storeID)

	var want float64
	for _, item := range order.Items {
		if BelongsToSeller(item, sellerID, &storeID) {
			want += item.LineTotal
		}
	}
	require.Equal(t, want, summary.Total)
	assert.Equal(t, 350.0, summary.Total)
	assert.Equal(t, 2, summary.ItemCount)
	assert.Equal(t, 5, summary.Units)
	assert.Len(t, summary.Items, 2)
}

func TestAggregateSellerOrder_EmptyOrder(t *testing.T) {
	t.Parallel()

	summary := AggregateSellerOrder(models.Order{}, uuid.New(), nil)

	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.ItemCount)
	assert.NotNil(t, summary.Items)
}
