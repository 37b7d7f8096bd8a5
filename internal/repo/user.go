package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kakamalem/marketplace/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *GormRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UpdateUserRoles(ctx context.Context, id uuid.UUID, roles []string) error {
	return r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("roles", pq.StringArray(roles)).Error
}

// MigrateGuestOrders attaches unowned guest orders matching the email to the
// freshly registered account. Returns how many orders were claimed.
func (r *GormRepo) MigrateGuestOrders(ctx context.Context, email string, userID uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("guest_email = ? AND user_id IS NULL", email).
		Update("user_id", userID)
	return res.RowsAffected, res.Error
}

func (r *GormRepo) AddRefreshToken(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	return r.DB.WithContext(ctx).Create(&models.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}).Error
}

func (r *GormRepo) RefreshTokenValid(ctx context.Context, token string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token = ? AND revoked = ? AND expires_at > ?", token, false, time.Now()).
		Count(&count).Error
	return count > 0, err
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token = ?", token).
		Update("revoked", true).Error
}
