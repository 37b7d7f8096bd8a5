package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kakamalem/marketplace/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

// OrderByID loads an order with items, their products and the products' store
// memberships, so the ownership predicate can evaluate every grant path.
func (r *GormRepo) OrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Product.Stores").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) OrdersByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, err
}

// OrdersWithItems streams the order set the seller dashboard filters through
// the ownership predicate, newest first, fully preloaded.
func (r *GormRepo) OrdersWithItems(ctx context.Context, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Product.Stores").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, err
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.updateOrderColumn(ctx, id, "status", status)
}

func (r *GormRepo) UpdateOrderPaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) error {
	return r.updateOrderColumn(ctx, id, "payment_status", paymentStatus)
}

func (r *GormRepo) updateOrderColumn(ctx context.Context, id uuid.UUID, column, value string) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
