package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokosmart/backend/internal/models"
	"github.com/sokosmart/backend/internal/transport"
)

func TestOrderService_PlaceOrder_DecrementsStock(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	farmer := seedAccount(t, r, "Wanjiku", "wanjiku@farm.co.ke", models.RoleFarmer)
	buyer := seedAccount(t, r, "Otieno", "otieno@mail.com", models.RoleBuyer)
	product := seedProduct(t, r, farmer, "Tomatoes", 50, 5)

	order, err := svc.PlaceOrder(ctx, buyer.ID, transport.PlaceOrderRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.EqualValues(t, 3, order.Quantity)
	assert.Equal(t, 150.0, order.TotalPrice)
	assert.Equal(t, farmer.ID, order.FarmerID)
	assert.EqualValues(t, 2, productQuantity(t, r, product))
}

func TestOrderService_PlaceOrder_Validation(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	farmer := seedAccount(t, r, "Wanjiku", "wanjiku@farm.co.ke", models.RoleFarmer)
	buyer := seedAccount(t, r, "Otieno", "otieno@mail.com", models.RoleBuyer)
	product := seedProduct(t, r, farmer, "Tomatoes", 50, 5)

	_, err := svc.PlaceOrder(ctx, buyer.ID, transport.PlaceOrderRequest{ProductID: product.ID, Quantity: 0})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.PlaceOrder(ctx, buyer.ID, transport.PlaceOrderRequest{Quantity: 1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.PlaceOrder(ctx, buyer.ID, transport.PlaceOrderRequest{ProductID: uuid.New(), Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderService_PlaceOrder_InsufficientStockLeavesStockUnchanged(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	farmer := seedAccount(t, r, "Wanjiku", "wanjiku@farm.co.ke", models.RoleFarmer)
	buyer := seedAccount(t, r, "Otieno", "otieno@mail.com", models.RoleBuyer)
	product := seedProduct(t, r, farmer, "Tomatoes", 50, 5)

	_, err := svc.PlaceOrder(ctx, buyer.ID, transport.PlaceOrderRequest{ProductID: product.ID, Quantity: 6})
	assert.ErrorIs(t, err, ErrConflict)
	assert.EqualValues(t, 5, productQuantity(t, r, product))

	var count int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestOrderService_CancelOrder_RestoresStock(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	farmer := seedAccount(t, r, "Wanjiku", "wanjiku@farm.co.ke", models.RoleFarmer)
	buyer := seedAccount(t, r, "Otieno", "otieno@mail.com", models.RoleBuyer)
	product := seedProduct(t, r, farmer, "Tomatoes", 50, 5)

	order, err := svc.PlaceOrder(ctx, buyer.ID, transport.PlaceOrderRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)
	require.EqualValues(t, 2, productQuantity(t, r, product))

	cancelled, err := svc.CancelOrder(ctx, buyer.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.EqualValues(t, 5, productQuantity(t, r, product))

	// Second cancel must fail and must not restore stock again.
	_, err = svc.CancelOrder(ctx, buyer.ID, order.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.EqualValues(t, 5, productQuantity(t, r, product))
}

func TestOrderService_CancelOrder_OnlyBuyer(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	farmer := seedAccount(t, r, "Wanjiku", "wanjiku@farm.co.ke", models.RoleFarmer)
	buyer := seedAccount(t, r, "Otieno", "otieno@mail.com", models.RoleBuyer)
	other := seedAccount(t, r, "Achieng", "achieng@mail.com", models.RoleBuyer)
	product := seedProduct(t, r, farmer, "Tomatoes", 50, 5)

	order, err := svc.PlaceOrder(ctx, buyer.ID, transport.PlaceOrderRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = svc.CancelOrder(ctx, other.ID, order.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CancelOrder(ctx, buyer.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderService_UpdateStatus_Transitions(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	farmer := seedAccount(t, r, "Wanjiku", "wanjiku@farm.co.ke", models.RoleFarmer)
	buyer := seedAccount(t, r, "Otieno", "otieno@mail.com", models.RoleBuyer)
	product := seedProduct(t, r, farmer, "Tomatoes", 50, 10)

	order, err := svc.PlaceOrder(ctx, buyer.ID, transport.PlaceOrderRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	confirmed, err := svc.UpdateStatus(ctx, farmer.ID, order.ID, models.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, confirmed.Status)

	delivered, err := svc.UpdateStatus(ctx, farmer.ID, order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, delivered.Status)

	// Delivered is terminal.
	_, err = svc.UpdateStatus(ctx, farmer.ID, order.ID, models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrConflict)

	// Confirm and deliver leave stock alone.
	assert.EqualValues(t, 9, productQuantity(t, r, product))
}

func TestOrderService_UpdateStatus_DirectPendingToDelivered(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	farmer := seedAccount(t, r, "Wanjiku", "wanjiku@farm.co.ke", models.RoleFarmer)
	buyer := seedAccount(t, r, "Otieno", "otieno@mail.com", models.RoleBuyer)
	product := seedProduct(t, r, farmer, "Tomatoes", 50, 10)

	order, err := svc.PlaceOrder(ctx, buyer.ID, transport.PlaceOrderRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	delivered, err := svc.UpdateStatus(ctx, farmer.ID, order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, delivered.Status)
}

func TestOrderService_UpdateStatus_OnlyOwningFarmer(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	farmer := seedAccount(t, r, "Wanjiku", "wanjiku@farm.co.ke", models.RoleFarmer)
	otherFarmer := seedAccount(t, r, "Kamau", "kamau@farm.co.ke", models.RoleFarmer)
	buyer := seedAccount(t, r, "Otieno", "otieno@mail.com", models.RoleBuyer)
	product := seedProduct(t, r, farmer, "Tomatoes", 50, 10)

	order, err := svc.PlaceOrder(ctx, buyer.ID, transport.PlaceOrderRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, otherFarmer.ID, order.ID, models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateStatus(ctx, farmer.ID, order.ID, "shipped")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOrderService_TotalPriceFixedAtPlacement(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	farmer := seedAccount(t, r, "Wanjiku", "wanjiku@farm.co.ke", models.RoleFarmer)
	buyer := seedAccount(t, r, "Otieno", "otieno@mail.com", models.RoleBuyer)
	product := seedProduct(t, r, farmer, "Tomatoes", 50, 10)

	order, err := svc.PlaceOrder(ctx, buyer.ID, transport.PlaceOrderRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	require.Equal(t, 100.0, order.TotalPrice)

	require.NoError(t, r.DB.Model(&models.Product{}).Where("id = ?", product.ID).Update("price", 80).Error)

	var fresh models.Order
	require.NoError(t, r.DB.First(&fresh, "id = ?", order.ID).Error)
	assert.Equal(t, 100.0, fresh.TotalPrice)
}

func TestOrderService_FullLifecycleScenario(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	farmer := seedAccount(t, r, "Wanjiku", "wanjiku@farm.co.ke", models.RoleFarmer)
	buyer := seedAccount(t, r, "Otieno", "otieno@mail.com", models.RoleBuyer)
	product := seedProduct(t, r, farmer, "Maize", 120, 5)

	order, err := svc.PlaceOrder(ctx, buyer.ID, transport.PlaceOrderRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPending, order.Status)
	require.Equal(t, 360.0, order.TotalPrice)
	require.EqualValues(t, 2, productQuantity(t, r, product))

	cancelled, err := svc.CancelOrder(ctx, buyer.ID, order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	require.EqualValues(t, 5, productQuantity(t, r, product))

	// Cancelled is terminal for the farmer as well.
	_, err = svc.UpdateStatus(ctx, farmer.ID, order.ID, models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestOrderService_Listings(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	farmer := seedAccount(t, r, "Wanjiku", "wanjiku@farm.co.ke", models.RoleFarmer)
	buyer := seedAccount(t, r, "Otieno", "otieno@mail.com", models.RoleBuyer)
	otherBuyer := seedAccount(t, r, "Achieng", "achieng@mail.com", models.RoleBuyer)
	product := seedProduct(t, r, farmer, "Tomatoes", 50, 10)

	_, err := svc.PlaceOrder(ctx, buyer.ID, transport.PlaceOrderRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, otherBuyer.ID, transport.PlaceOrderRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	mine, err := svc.ListForBuyer(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Tomatoes", mine[0].ProductName)
	assert.Equal(t, "Otieno", mine[0].BuyerName)

	all, err := svc.ListForFarmer(ctx, farmer.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOrderService_ListingsTolerateDeletedProduct(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	orders := &OrderService{Repo: r}
	catalog := &CatalogService{Repo: r}
	ctx := context.Background()

	farmer := seedAccount(t, r, "Wanjiku", "wanjiku@farm.co.ke", models.RoleFarmer)
	buyer := seedAccount(t, r, "Otieno", "otieno@mail.com", models.RoleBuyer)
	product := seedProduct(t, r, farmer, "Tomatoes", 50, 10)

	order, err := orders.PlaceOrder(ctx, buyer.ID, transport.PlaceOrderRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = orders.UpdateStatus(ctx, farmer.ID, order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)

	require.NoError(t, catalog.DeleteProduct(ctx, farmer.ID, product.ID))

	views, err := orders.ListForFarmer(ctx, farmer.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, product.ID, views[0].ProductID)
	assert.Equal(t, "", views[0].ProductName)
}
