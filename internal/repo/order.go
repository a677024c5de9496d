package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sokosmart/backend/internal/models"
	"github.com/sokosmart/backend/internal/transport"
)

// PlaceOrder decrements stock and inserts the order as one transaction. The
// decrement is a single conditional UPDATE, so two concurrent placements can
// never both pass the stock check.
func (r *GormRepo) PlaceOrder(ctx context.Context, productID, buyerID uuid.UUID, quantity uint) (*models.Order, error) {
	var order *models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Product{}).
			Where("id = ? AND quantity >= ?", productID, quantity).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientStock
		}

		order = &models.Order{
			ProductID:  product.ID,
			BuyerID:    buyerID,
			FarmerID:   product.FarmerID,
			Quantity:   quantity,
			TotalPrice: float64(quantity) * product.Price,
			Status:     models.OrderStatusPending,
		}
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder flips a pending order to cancelled and restores the product's
// quantity-on-hand. The status guard is re-checked inside the transaction so a
// concurrent cancel or confirm cannot restore stock twice. A missing product
// row means the product was deleted after delivery history closed; the
// restore is skipped.
func (r *GormRepo) CancelOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, models.OrderStatusPending).
			Update("status", models.OrderStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		if err := tx.Model(&models.Product{}).
			Where("id = ?", order.ProductID).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", order.Quantity)).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = models.OrderStatusCancelled
	return order, nil
}

// SetOrderStatus transitions from -> to, guarded so a stale read cannot
// overwrite a concurrent transition.
func (r *GormRepo) SetOrderStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *GormRepo) ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID) ([]transport.OrderView, error) {
	return r.listOrders(ctx, "orders.buyer_id = ?", buyerID)
}

func (r *GormRepo) ListOrdersByFarmer(ctx context.Context, farmerID uuid.UUID) ([]transport.OrderView, error) {
	return r.listOrders(ctx, "orders.farmer_id = ?", farmerID)
}

func (r *GormRepo) listOrders(ctx context.Context, cond string, id uuid.UUID) ([]transport.OrderView, error) {
	views := make([]transport.OrderView, 0)
	err := r.DB.WithContext(ctx).
		Table("orders").
		Select("orders.id, orders.product_id, COALESCE(products.name, '') AS product_name, orders.buyer_id, COALESCE(accounts.name, '') AS buyer_name, orders.quantity, orders.total_price, orders.status, orders.created_at").
		Joins("LEFT JOIN products ON products.id = orders.product_id").
		Joins("LEFT JOIN accounts ON accounts.id = orders.buyer_id").
		Where(cond, id).
		Order("orders.created_at DESC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}
