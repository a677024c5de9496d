package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleFarmer = "farmer"
	RoleBuyer  = "buyer"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Name         string    `gorm:"not null"              json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"  json:"email"`
	Phone        string    `gorm:"not null"              json:"phone"`
	PasswordHash string    `gorm:"not null"              json:"-"`
	Role         string    `gorm:"not null"              json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a *Account) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	Name      string    `gorm:"not null"                  json:"name"`
	Category  string    `json:"category"`
	Price     float64   `gorm:"not null"                  json:"price"`
	Quantity  uint      `json:"quantity"`
	FarmerID  uuid.UUID `gorm:"type:uuid;index;not null"  json:"farmer_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Order struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"  json:"product_id"`
	BuyerID   uuid.UUID `gorm:"type:uuid;index;not null"  json:"buyer_id"`
	// Owner of the product at placement time, so farmer listings survive
	// a later product deletion.
	FarmerID   uuid.UUID `gorm:"type:uuid;index;not null" json:"farmer_id"`
	Quantity   uint      `gorm:"not null;check:quantity>0" json:"quantity"`
	TotalPrice float64   `gorm:"not null"                 json:"total_price"`
	Status     string    `gorm:"not null"                 json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
