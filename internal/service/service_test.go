package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kakamalem/marketplace/internal/models"
	"github.com/kakamalem/marketplace/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// One connection so every query sees the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Storefront{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.CartItem{},
		&models.Address{},
	))
	return &repo.GormRepo{DB: db}
}

func seedUser(t *testing.T, r *repo.GormRepo, email string, roles ...string) *models.User {
	t.Helper()
	if len(roles) == 0 {
		roles = []string{models.RoleCustomer}
	}
	user := models.User{
		Email:        email,
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		Roles:        roles,
	}
	require.NoError(t, r.CreateUser(context.Background(), &user))
	return &user
}

func seedProduct(t *testing.T, r *repo.GormRepo, name string, price float64, sellerID *uuid.UUID, stores ...models.Storefront) *models.Product {
	t.Helper()
	product := models.Product{
		Name:     name,
		Slug:     name + "-" + uuid.NewString()[:8],
		Price:    price,
		Stock:    100,
		SellerID: sellerID,
		Stores:   stores,
	}
	require.NoError(t, r.CreateProduct(context.Background(), &product))
	return &product
}

func seedStorefront(t *testing.T, r *repo.GormRepo, sellerID uuid.UUID, slug string) *models.Storefront {
	t.Helper()
	storefront := models.Storefront{
		SellerID: sellerID,
		Name:     slug,
		Slug:     slug,
		Status:   models.StorefrontStatusActive,
	}
	require.NoError(t, r.CreateStorefront(context.Background(), &storefront))
	return &storefront
}

func actorFor(user *models.User) Actor {
	return Actor{UserID: &user.ID, Roles: user.Roles}
}
