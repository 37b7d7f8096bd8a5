package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kakamalem/marketplace/internal/models"
)

func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Create(product).Error
}

func (r *GormRepo) ProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.DB.WithContext(ctx).
		Preload("Stores").
		Preload("Seller").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.DB.WithContext(ctx).
		Preload("Stores").
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

func (r *GormRepo) ListProducts(ctx context.Context, limit, offset int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var products []models.Product
	err := r.DB.WithContext(ctx).
		Order("display_order ASC, created_at DESC").
		Limit(limit).Offset(offset).
		Find(&products).Error
	return total, products, err
}

func (r *GormRepo) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Save(product).Error
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetProductDisplayOrder updates a single row of a reorder batch.
// gorm.ErrRecordNotFound is reported per row so the caller can surface
// partial failures instead of aborting the whole batch.
func (r *GormRepo) SetProductDisplayOrder(ctx context.Context, id uuid.UUID, displayOrder int) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("display_order", displayOrder)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.DB.WithContext(ctx).Create(category).Error
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.DB.WithContext(ctx).Order("display_order ASC, name ASC").Find(&categories).Error
	return categories, err
}

func (r *GormRepo) SetCategoryDisplayOrder(ctx context.Context, id uuid.UUID, displayOrder int) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Update("display_order", displayOrder)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
