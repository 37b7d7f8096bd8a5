package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/kakamalem/marketplace/internal/models"
)

func (r *GormRepo) CreateAddress(ctx context.Context, address *models.Address) error {
	return r.DB.WithContext(ctx).Create(address).Error
}

func (r *GormRepo) AddressesByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var addresses []models.Address
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&addresses).Error
	return addresses, err
}

func (r *GormRepo) AddressByID(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	var address models.Address
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}
