package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sokosmart/backend/internal/logging"
	"github.com/sokosmart/backend/internal/models"
	"github.com/sokosmart/backend/internal/repo"
	"github.com/sokosmart/backend/internal/transport"
)

type OrderService struct {
	Repo *repo.GormRepo
}

// PlaceOrder checks stock, fixes the total price at the current unit price and
// creates a pending order. Stock decrement and order insert happen in one
// transaction at the repo layer.
func (s *OrderService) PlaceOrder(ctx context.Context, buyerID uuid.UUID, req transport.PlaceOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place")

	if req.ProductID == uuid.Nil {
		return nil, fmt.Errorf("%w: product_id is required", ErrValidation)
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
	}

	order, err := s.Repo.PlaceOrder(ctx, req.ProductID, buyerID, req.Quantity)
	if err != nil {
		if errIsNotFound(err) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		if errors.Is(err, repo.ErrInsufficientStock) {
			return nil, fmt.Errorf("%w: insufficient stock", ErrConflict)
		}
		l.Error("place_order_error", "error", err)
		return nil, err
	}

	return order, nil
}

// CancelOrder lets the buyer cancel their own pending order, restoring the
// decremented stock.
func (s *OrderService) CancelOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errIsNotFound(err) {
			return nil, fmt.Errorf("%w: order", ErrNotFound)
		}
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, fmt.Errorf("%w: not the buyer of this order", ErrForbidden)
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: only pending orders can be cancelled", ErrConflict)
	}

	cancelled, err := s.Repo.CancelOrder(ctx, order)
	if err != nil {
		if errors.Is(err, repo.ErrStaleStatus) {
			return nil, fmt.Errorf("%w: only pending orders can be cancelled", ErrConflict)
		}
		return nil, err
	}
	return cancelled, nil
}

// UpdateStatus moves an order along pending -> confirmed -> delivered (the
// direct pending -> delivered jump included). Terminal states never change.
func (s *OrderService) UpdateStatus(ctx context.Context, farmerID, orderID uuid.UUID, newStatus string) (*models.Order, error) {
	switch newStatus {
	case models.OrderStatusConfirmed, models.OrderStatusDelivered:
	default:
		return nil, fmt.Errorf("%w: status must be confirmed or delivered", ErrValidation)
	}

	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errIsNotFound(err) {
			return nil, fmt.Errorf("%w: order", ErrNotFound)
		}
		return nil, err
	}
	if order.FarmerID != farmerID {
		return nil, fmt.Errorf("%w: not the farmer for this order", ErrForbidden)
	}
	if !validTransition(order.Status, newStatus) {
		return nil, fmt.Errorf("%w: cannot move %s order to %s", ErrConflict, order.Status, newStatus)
	}

	if err := s.Repo.SetOrderStatus(ctx, orderID, order.Status, newStatus); err != nil {
		if errors.Is(err, repo.ErrStaleStatus) {
			return nil, fmt.Errorf("%w: order status changed concurrently", ErrConflict)
		}
		return nil, err
	}

	order.Status = newStatus
	return order, nil
}

func (s *OrderService) ListForBuyer(ctx context.Context, buyerID uuid.UUID) ([]transport.OrderView, error) {
	return s.Repo.ListOrdersByBuyer(ctx, buyerID)
}

func (s *OrderService) ListForFarmer(ctx context.Context, farmerID uuid.UUID) ([]transport.OrderView, error) {
	return s.Repo.ListOrdersByFarmer(ctx, farmerID)
}

func validTransition(from, to string) bool {
	switch from {
	case models.OrderStatusPending:
		return to == models.OrderStatusConfirmed || to == models.OrderStatusDelivered
	case models.OrderStatusConfirmed:
		return to == models.OrderStatusDelivered
	default:
		return false
	}
}
