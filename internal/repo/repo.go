package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sokosmart/backend/internal/models"
)

var (
	// ErrInsufficientStock is returned when the conditional decrement matches
	// no row because quantity-on-hand is below the requested amount.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrOpenOrders is returned when a product delete is blocked by pending or
	// confirmed orders.
	ErrOpenOrders = errors.New("product has open orders")
	// ErrStaleStatus is returned when a guarded status update matches no row.
	ErrStaleStatus = errors.New("order status changed concurrently")
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := r.DB.WithContext(ctx).Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

func (r *GormRepo) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.DB.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *GormRepo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.DB.WithContext(ctx).First(&account, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *GormRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) SaveAccount(ctx context.Context, account *models.Account) error {
	return r.DB.WithContext(ctx).Save(account).Error
}

func (r *GormRepo) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Account{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
