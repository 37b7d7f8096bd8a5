package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kakamalem/marketplace/internal/models"
	"github.com/kakamalem/marketplace/internal/repo"
	"github.com/kakamalem/marketplace/internal/transport"
)

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) Items(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	items, err := s.Repo.CartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

func (s *CartService) Add(ctx context.Context, userID uuid.UUID, req transport.AddCartItemRequest) (*models.CartItem, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}
	if _, err := s.Repo.ProductByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown product %s", ErrValidation, req.ProductID)
		}
		return nil, err
	}
	return s.Repo.AddCartItem(ctx, userID, req.ProductID, req.Quantity)
}

func (s *CartService) SetQuantity(ctx context.Context, userID uuid.UUID, itemID uint, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}
	err := s.Repo.SetCartItemQuantity(ctx, userID, itemID, quantity)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: cart item %d", ErrNotFound, itemID)
	}
	return err
}

func (s *CartService) Remove(ctx context.Context, userID uuid.UUID, itemID uint) error {
	err := s.Repo.DeleteCartItem(ctx, userID, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: cart item %d", ErrNotFound, itemID)
	}
	return err
}
