package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kakamalem/marketplace/internal/models"
)

func (r *GormRepo) CreateStorefront(ctx context.Context, storefront *models.Storefront) error {
	return r.DB.WithContext(ctx).Create(storefront).Error
}

func (r *GormRepo) StorefrontBySeller(ctx context.Context, sellerID uuid.UUID) (*models.Storefront, error) {
	var storefront models.Storefront
	err := r.DB.WithContext(ctx).Where("seller_id = ?", sellerID).First(&storefront).Error
	if err != nil {
		return nil, err
	}
	return &storefront, nil
}

func (r *GormRepo) StorefrontBySlug(ctx context.Context, slug string) (*models.Storefront, error) {
	var storefront models.Storefront
	err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&storefront).Error
	if err != nil {
		return nil, err
	}
	return &storefront, nil
}

func (r *GormRepo) StorefrontByID(ctx context.Context, id uuid.UUID) (*models.Storefront, error) {
	var storefront models.Storefront
	err := r.DB.WithContext(ctx).First(&storefront, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &storefront, nil
}

func (r *GormRepo) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.Storefront{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (r *GormRepo) UpdateStorefrontStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Storefront{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecordView bumps the page view counters. Increments run as SQL expressions;
// concurrent visits may still interleave reads elsewhere, an accepted
// inaccuracy for analytics counters.
func (r *GormRepo) RecordView(ctx context.Context, id uuid.UUID, newVisitor bool) error {
	updates := map[string]any{
		"view_count": gorm.Expr("view_count + 1"),
	}
	if newVisitor {
		updates["visitor_count"] = gorm.Expr("visitor_count + 1")
	}

	res := r.DB.WithContext(ctx).
		Model(&models.Storefront{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
