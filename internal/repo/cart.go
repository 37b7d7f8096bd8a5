package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kakamalem/marketplace/internal/models"
)

func (r *GormRepo) CartItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&items).Error
	return items, err
}

// AddCartItem merges quantity into an existing row for the same product, or
// inserts a fresh one.
func (r *GormRepo) AddCartItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	switch {
	case err == nil:
		item.Quantity += quantity
		if err := r.DB.WithContext(ctx).Save(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
		if err := r.DB.WithContext(ctx).Create(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	default:
		return nil, err
	}
}

func (r *GormRepo) SetCartItemQuantity(ctx context.Context, userID uuid.UUID, itemID uint, quantity int) error {
	res := r.DB.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, userID uuid.UUID, itemID uint) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
