// Package ownership decides which order line items are attributed to which
// seller. Every place that computes seller revenue or order counts (dashboard
// overview, orders list, analytics) goes through this package so the numbers
// cannot drift apart.
package ownership

import (
	"github.com/google/uuid"

	"github.com/kakamalem/marketplace/internal/models"
	"github.com/kakamalem/marketplace/internal/reference"
)

// BelongsToSeller reports whether a line item's revenue is attributed to the
// given seller. A seller owns an item through any of three grants:
//
//  1. the item carries a direct seller reference,
//  2. the referenced product is owned by the seller,
//  3. the product is listed in a storefront the seller owns.
//
// storefrontID is nil for sellers without a storefront, which disables the
// third grant. An item whose product was not preloaded can only match through
// the first grant; that is degraded behavior, not an error, and absent data
// always yields false rather than a panic.
func BelongsToSeller(item models.OrderItem, sellerID uuid.UUID, storefrontID *uuid.UUID) bool {
	if reference.Matches(item.ProductSellerID, item.ProductSeller, sellerID) {
		return true
	}

	if item.Product == nil {
		return false
	}
	if reference.Matches(item.Product.SellerID, item.Product.Seller, sellerID) {
		return true
	}

	if storefrontID == nil {
		return false
	}
	for _, store := range item.Product.Stores {
		if store.ID == *storefrontID {
			return true
		}
	}
	return false
}

// SellerOrderSummary is one seller's share of an order. ItemCount counts the
// attributed line items, Units sums their quantities.
type SellerOrderSummary struct {
	ItemCount int                `json:"item_count"`
	Units     int                `json:"units"`
	Total     float64            `json:"total"`
	Items     []models.OrderItem `json:"items"`
}

// AggregateSellerOrder filters an order's items through BelongsToSeller and
// sums the seller's quantities and totals. Items is never nil so callers can
// range over it without a check.
func AggregateSellerOrder(order models.Order, sellerID uuid.UUID, storefrontID *uuid.UUID) SellerOrderSummary {
	summary := SellerOrderSummary{Items: []models.OrderItem{}}
	for _, item := range order.Items {
		if !BelongsToSeller(item, sellerID, storefrontID) {
			continue
		}
		summary.ItemCount++
		summary.Units += item.Quantity
		summary.Total += item.LineTotal
		summary.Items = append(summary.Items, item)
	}
	return summary
}
