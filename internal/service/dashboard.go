package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kakamalem/marketplace/internal/models"
	"github.com/kakamalem/marketplace/internal/ownership"
	"github.com/kakamalem/marketplace/internal/repo"
)

// DashboardService backs the seller dashboard pages. Every number it reports
// comes out of ownership.AggregateSellerOrder; the overview, the orders list
// and the analytics report must never each re-derive attribution.
type DashboardService struct {
	Repo *repo.GormRepo
}

// dashboardScanLimit caps how many recent orders a dashboard request walks.
const dashboardScanLimit = 500

type Overview struct {
	Revenue     float64 `json:"revenue"`
	OrderCount  int     `json:"order_count"`
	ItemCount   int     `json:"item_count"`
	UnitsSold   int     `json:"units_sold"`
	HasStore    bool    `json:"has_store"`
	StoreStatus string  `json:"store_status,omitempty"`
}

type SellerOrder struct {
	Order   models.Order                 `json:"order"`
	Summary ownership.SellerOrderSummary `json:"summary"`
}

type Analytics struct {
	Revenue      float64 `json:"revenue"`
	OrderCount   int     `json:"order_count"`
	UnitsSold    int     `json:"units_sold"`
	ViewCount    int64   `json:"view_count"`
	VisitorCount int64   `json:"visitor_count"`
}

func (s *DashboardService) storefront(ctx context.Context, sellerID uuid.UUID) (*models.Storefront, error) {
	storefront, err := s.Repo.StorefrontBySeller(ctx, sellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return storefront, nil
}

func storefrontID(storefront *models.Storefront) *uuid.UUID {
	if storefront == nil {
		return nil
	}
	return &storefront.ID
}

// attributedOrders walks recent orders and keeps those with at least one line
// item attributed to the seller.
func (s *DashboardService) attributedOrders(ctx context.Context, sellerID uuid.UUID, sfID *uuid.UUID) ([]SellerOrder, error) {
	orders, err := s.Repo.OrdersWithItems(ctx, dashboardScanLimit, 0)
	if err != nil {
		return nil, err
	}

	var out []SellerOrder
	for _, order := range orders {
		summary := ownership.AggregateSellerOrder(order, sellerID, sfID)
		if summary.ItemCount == 0 {
			continue
		}
		out = append(out, SellerOrder{Order: order, Summary: summary})
	}
	return out, nil
}

// GetOverview feeds the dashboard summary cards.
func (s *DashboardService) GetOverview(ctx context.Context, sellerID uuid.UUID) (*Overview, error) {
	storefront, err := s.storefront(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	attributed, err := s.attributedOrders(ctx, sellerID, storefrontID(storefront))
	if err != nil {
		return nil, err
	}

	overview := Overview{HasStore: storefront != nil}
	if storefront != nil {
		overview.StoreStatus = storefront.Status
	}
	for _, so := range attributed {
		overview.Revenue += so.Summary.Total
		overview.OrderCount++
		overview.ItemCount += so.Summary.ItemCount
		overview.UnitsSold += so.Summary.Units
	}
	return &overview, nil
}

// ListOrders feeds the dashboard orders page: each attributed order paired
// with this seller's share of it.
func (s *DashboardService) ListOrders(ctx context.Context, sellerID uuid.UUID) ([]SellerOrder, error) {
	storefront, err := s.storefront(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	attributed, err := s.attributedOrders(ctx, sellerID, storefrontID(storefront))
	if err != nil {
		return nil, err
	}
	if attributed == nil {
		attributed = []SellerOrder{}
	}
	return attributed, nil
}

// GetAnalytics feeds the analytics page: the same revenue fold as the
// overview plus the storefront's view counters.
func (s *DashboardService) GetAnalytics(ctx context.Context, sellerID uuid.UUID) (*Analytics, error) {
	storefront, err := s.storefront(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	attributed, err := s.attributedOrders(ctx, sellerID, storefrontID(storefront))
	if err != nil {
		return nil, err
	}

	analytics := Analytics{}
	for _, so := range attributed {
		analytics.Revenue += so.Summary.Total
		analytics.OrderCount++
		analytics.UnitsSold += so.Summary.Units
	}
	if storefront != nil {
		analytics.ViewCount = storefront.ViewCount
		analytics.VisitorCount = storefront.VisitorCount
	}
	return &analytics, nil
}
