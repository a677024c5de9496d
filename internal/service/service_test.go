package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sokosmart/backend/internal/hash"
	"github.com/sokosmart/backend/internal/models"
	"github.com/sokosmart/backend/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Account{}, &models.Product{}, &models.Order{}))

	return &repo.GormRepo{DB: db}
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{
		Repo:      newTestRepo(t),
		JWTSecret: []byte("test-jwt-secret"),
		TokenTTL:  15 * time.Minute,
	}
}

func seedAccount(t *testing.T, r *repo.GormRepo, name, email, role string) *models.Account {
	t.Helper()

	pwHash, err := hash.HashPassword("secret123")
	require.NoError(t, err)

	account := &models.Account{
		Name:         name,
		Email:        email,
		Phone:        "0700000000",
		PasswordHash: pwHash,
		Role:         role,
	}
	require.NoError(t, r.DB.Create(account).Error)
	return account
}

func seedProduct(t *testing.T, r *repo.GormRepo, farmer *models.Account, name string, price float64, quantity uint) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:     name,
		Category: "vegetables",
		Price:    price,
		Quantity: quantity,
		FarmerID: farmer.ID,
	}
	require.NoError(t, r.DB.Create(product).Error)
	return product
}

func productQuantity(t *testing.T, r *repo.GormRepo, product *models.Product) uint {
	t.Helper()

	var fresh models.Product
	require.NoError(t, r.DB.First(&fresh, "id = ?", product.ID).Error)
	return fresh.Quantity
}
