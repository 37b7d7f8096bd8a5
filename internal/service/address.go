package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kakamalem/marketplace/internal/models"
	"github.com/kakamalem/marketplace/internal/repo"
	"github.com/kakamalem/marketplace/internal/transport"
)

type AddressService struct {
	Repo *repo.GormRepo
}

func (s *AddressService) Create(ctx context.Context, userID uuid.UUID, req transport.CreateAddressRequest) (*models.Address, error) {
	if req.FirstName == "" || req.LastName == "" || req.Line == "" {
		return nil, fmt.Errorf("%w: name and address line required", ErrValidation)
	}
	if req.Latitude == nil || req.Longitude == nil {
		return nil, fmt.Errorf("%w: delivery location is required", ErrValidation)
	}

	address := models.Address{
		UserID:    userID,
		Label:     req.Label,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Line:      req.Line,
		City:      req.City,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := s.Repo.CreateAddress(ctx, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

func (s *AddressService) List(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	addresses, err := s.Repo.AddressesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if addresses == nil {
		addresses = []models.Address{}
	}
	return addresses, nil
}
