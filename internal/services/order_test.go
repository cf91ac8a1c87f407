package services

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/marketplace-backend/internal/dto"
	"github.com/yungbote/marketplace-backend/internal/platform/apierr"
	"github.com/yungbote/marketplace-backend/internal/types"
)

func TestCreateOrderComputesTotals(t *testing.T) {
	env := newTestEnv(t)
	seller := env.createUser(t, "seller", types.RoleUser, types.RoleSeller)
	store := env.createStore(t, seller, "gadget-store")
	product := env.createProduct(t, store, "Widget", "WID-1", "50.00")
	buyer := env.createUser(t, "buyer")

	view := env.placeOrder(t, buyer, dto.CreateOrderItemRequest{ProductID: product.ID, Quantity: 2})

	if view.Status != types.OrderStatusPending {
		t.Fatalf("status = %s, want PENDING", view.Status)
	}
	if got := view.Subtotal.String(); got != "100.00" {
		t.Errorf("subtotal = %s, want 100.00", got)
	}
	if got := view.Total.String(); got != "115.00" {
		t.Errorf("total = %s, want 115.00 (subtotal + flat shipping)", got)
	}
	if len(view.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(view.Items))
	}
	item := view.Items[0]
	if item.ProductName != "Widget" || item.StoreID != store.ID || item.StoreName != "gadget-store" {
		t.Errorf("item snapshot = %+v, want product and store snapshotted", item)
	}
	if view.Payment == nil || view.Payment.Status != types.PaymentStatusPending {
		t.Fatalf("payment = %+v, want PENDING payment record", view.Payment)
	}
	if !view.Payment.Amount.Equal(view.Total) {
		t.Errorf("payment amount = %s, want %s", view.Payment.Amount, view.Total)
	}
	if view.ShippingInfo == nil || view.ShippingInfo.EstimatedDeliveryDate == nil {
		t.Fatalf("shipping info = %+v, want estimated delivery date set", view.ShippingInfo)
	}
	if view.OrderNumber == "" {
		t.Error("order number should be generated")
	}
}

func TestCreateOrderValidation(t *testing.T) {
	env := newTestEnv(t)
	buyer := env.createUser(t, "buyer")
	ctx := context.Background()

	_, err := env.orders.CreateOrder(ctx, buyer.ID, dto.CreateOrderRequest{
		PaymentMethod: types.PaymentMethodPix,
	})
	if !apierr.Is(err, apierr.CodeValidation) {
		t.Errorf("empty items: err = %v, want validation error", err)
	}

	seller := env.createUser(t, "seller", types.RoleUser, types.RoleSeller)
	store := env.createStore(t, seller, "store-a")
	product := env.createProduct(t, store, "Widget", "WID-2", "10.00")

	_, err = env.orders.CreateOrder(ctx, buyer.ID, dto.CreateOrderRequest{
		Items:         []dto.CreateOrderItemRequest{{ProductID: product.ID, Quantity: 0}},
		PaymentMethod: types.PaymentMethodPix,
	})
	if !apierr.Is(err, apierr.CodeValidation) {
		t.Errorf("zero quantity: err = %v, want validation error", err)
	}

	_, err = env.orders.CreateOrder(ctx, buyer.ID, dto.CreateOrderRequest{
		Items:         []dto.CreateOrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		PaymentMethod: "CASH_ON_MARS",
	})
	if !apierr.Is(err, apierr.CodeValidation) {
		t.Errorf("bad payment method: err = %v, want validation error", err)
	}
}

// The happy-path lifecycle: payment completion advances to PROCESSING,
// shipping dates advance to SHIPPED then DELIVERED, and a delivered order
// refuses cancellation.
func TestOrderLifecycle(t *testing.T) {
	env := newTestEnv(t)
	seller := env.createUser(t, "seller", types.RoleUser, types.RoleSeller)
	store := env.createStore(t, seller, "lifecycle-store")
	product := env.createProduct(t, store, "Widget", "WID-3", "50.00")
	buyer := env.createUser(t, "buyer")
	ctx := context.Background()

	view := env.placeOrder(t, buyer, dto.CreateOrderItemRequest{ProductID: product.ID, Quantity: 2})

	view, err := env.orders.UpdatePayment(ctx, seller.ID, view.ID, dto.UpdatePaymentStatusRequest{
		PaymentStatus: types.PaymentStatusCompleted,
		TransactionID: "tx-123",
	})
	if err != nil {
		t.Fatalf("update payment: %v", err)
	}
	if view.Status != types.OrderStatusProcessing {
		t.Fatalf("status after payment = %s, want PROCESSING", view.Status)
	}
	if view.Payment.PaymentDate == nil {
		t.Error("payment date should be set on completion")
	}

	shipped := time.Now().UTC()
	view, err = env.orders.UpdateShipping(ctx, seller.ID, view.ID, dto.UpdateShippingInfoRequest{
		TrackingNumber: strPtr("TRK-1"),
		ShippedDate:    &shipped,
	})
	if err != nil {
		t.Fatalf("update shipping: %v", err)
	}
	if view.Status != types.OrderStatusShipped {
		t.Fatalf("status after shipped date = %s, want SHIPPED", view.Status)
	}

	delivered := shipped.Add(48 * time.Hour)
	view, err = env.orders.UpdateShipping(ctx, seller.ID, view.ID, dto.UpdateShippingInfoRequest{
		DeliveredDate: &delivered,
	})
	if err != nil {
		t.Fatalf("confirm delivery: %v", err)
	}
	if view.Status != types.OrderStatusDelivered {
		t.Fatalf("status after delivered date = %s, want DELIVERED", view.Status)
	}

	err = env.orders.Cancel(ctx, buyer.ID, view.ID)
	if !apierr.Is(err, apierr.CodeInvalidState) {
		t.Errorf("cancel delivered order: err = %v, want invalid_state", err)
	}
}

func TestDeliveryRequiresShipment(t *testing.T) {
	env := newTestEnv(t)
	seller := env.createUser(t, "seller", types.RoleUser, types.RoleSeller)
	store := env.createStore(t, seller, "strict-store")
	product := env.createProduct(t, store, "Widget", "WID-4", "20.00")
	buyer := env.createUser(t, "buyer")
	ctx := context.Background()

	view := env.placeOrder(t, buyer, dto.CreateOrderItemRequest{ProductID: product.ID, Quantity: 1})
	view, err := env.orders.UpdatePayment(ctx, seller.ID, view.ID, dto.UpdatePaymentStatusRequest{
		PaymentStatus: types.PaymentStatusCompleted,
	})
	if err != nil {
		t.Fatalf("update payment: %v", err)
	}

	delivered := time.Now().UTC()
	_, err = env.orders.UpdateShipping(ctx, seller.ID, view.ID, dto.UpdateShippingInfoRequest{
		DeliveredDate: &delivered,
	})
	if !apierr.Is(err, apierr.CodeInvalidState) {
		t.Fatalf("delivery before shipment: err = %v, want invalid_state", err)
	}

	// The rejected update must not have leaked any field writes.
	reloaded, err := env.orders.GetOrder(ctx, buyer.ID, view.ID)
	if err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.Status != types.OrderStatusProcessing {
		t.Errorf("status = %s, want PROCESSING unchanged", reloaded.Status)
	}
	if reloaded.ShippingInfo.DeliveredDate != nil {
		t.Error("delivered date must not be set after a rejected update")
	}
}

func TestCancelStatePolicy(t *testing.T) {
	env := newTestEnv(t)
	seller := env.createUser(t, "seller", types.RoleUser, types.RoleSeller)
	store := env.createStore(t, seller, "cancel-store")
	product := env.createProduct(t, store, "Widget", "WID-5", "30.00")
	buyer := env.createUser(t, "buyer")
	ctx := context.Background()

	view := env.placeOrder(t, buyer, dto.CreateOrderItemRequest{ProductID: product.ID, Quantity: 1})
	if err := env.orders.Cancel(ctx, buyer.ID, view.ID); err != nil {
		t.Fatalf("cancel pending order: %v", err)
	}
	reloaded, err := env.orders.GetOrder(ctx, buyer.ID, view.ID)
	if err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.Status != types.OrderStatusCancelled {
		t.Fatalf("status = %s, want CANCELLED", reloaded.Status)
	}

	// Terminal: no further transitions.
	_, err = env.orders.UpdateStatus(ctx, buyer.ID, view.ID, dto.UpdateOrderStatusRequest{
		Status: types.OrderStatusProcessing,
	})
	if !apierr.Is(err, apierr.CodeInvalidState) {
		t.Errorf("transition out of CANCELLED: err = %v, want invalid_state", err)
	}
}

func TestOrderAuthorization(t *testing.T) {
	env := newTestEnv(t)
	seller := env.createUser(t, "seller", types.RoleUser, types.RoleSeller)
	store := env.createStore(t, seller, "auth-store")
	product := env.createProduct(t, store, "Widget", "WID-6", "25.00")
	buyer := env.createUser(t, "buyer")
	stranger := env.createUser(t, "stranger")
	otherSeller := env.createUser(t, "othersel", types.RoleUser, types.RoleSeller)
	env.createStore(t, otherSeller, "unrelated-store")
	admin := env.createUser(t, "admin", types.RoleUser, types.RoleAdmin)
	ctx := context.Background()

	view := env.placeOrder(t, buyer, dto.CreateOrderItemRequest{ProductID: product.ID, Quantity: 1})

	if _, err := env.orders.GetOrder(ctx, stranger.ID, view.ID); !apierr.Is(err, apierr.CodeUnauthorized) {
		t.Errorf("stranger view: err = %v, want unauthorized", err)
	}
	if _, err := env.orders.GetOrder(ctx, seller.ID, view.ID); err != nil {
		t.Errorf("selling seller view: %v", err)
	}
	if _, err := env.orders.GetOrder(ctx, otherSeller.ID, view.ID); !apierr.Is(err, apierr.CodeUnauthorized) {
		t.Errorf("unrelated seller view: err = %v, want unauthorized", err)
	}
	if _, err := env.orders.GetOrder(ctx, admin.ID, view.ID); err != nil {
		t.Errorf("admin view: %v", err)
	}

	if err := env.orders.Cancel(ctx, stranger.ID, view.ID); !apierr.Is(err, apierr.CodeUnauthorized) {
		t.Errorf("stranger cancel: err = %v, want unauthorized", err)
	}
	_, err := env.orders.UpdatePayment(ctx, buyer.ID, view.ID, dto.UpdatePaymentStatusRequest{
		PaymentStatus: types.PaymentStatusCompleted,
	})
	if !apierr.Is(err, apierr.CodeUnauthorized) {
		t.Errorf("buyer updating payment: err = %v, want unauthorized", err)
	}

	if _, err := env.orders.ListAll(ctx, buyer.ID, dto.PageRequest{}); !apierr.Is(err, apierr.CodeUnauthorized) {
		t.Errorf("non-admin ListAll: err = %v, want unauthorized", err)
	}
	page, err := env.orders.ListAll(ctx, admin.ID, dto.PageRequest{})
	if err != nil {
		t.Fatalf("admin ListAll: %v", err)
	}
	if page.TotalElements != 1 {
		t.Errorf("admin sees %d orders, want 1", page.TotalElements)
	}
}

func TestListByStore(t *testing.T) {
	env := newTestEnv(t)
	seller := env.createUser(t, "seller", types.RoleUser, types.RoleSeller)
	store := env.createStore(t, seller, "list-store")
	product := env.createProduct(t, store, "Widget", "WID-7", "40.00")
	otherSeller := env.createUser(t, "othersel", types.RoleUser, types.RoleSeller)
	otherStore := env.createStore(t, otherSeller, "other-store")
	env.createProduct(t, otherStore, "Gizmo", "GIZ-1", "60.00")
	buyer := env.createUser(t, "buyer")
	ctx := context.Background()

	env.placeOrder(t, buyer, dto.CreateOrderItemRequest{ProductID: product.ID, Quantity: 1})

	page, err := env.orders.ListByStore(ctx, seller.ID, store.ID, nil, dto.PageRequest{})
	if err != nil {
		t.Fatalf("owner ListByStore: %v", err)
	}
	if page.TotalElements != 1 {
		t.Errorf("owner sees %d orders, want 1", page.TotalElements)
	}

	if _, err := env.orders.ListByStore(ctx, otherSeller.ID, store.ID, nil, dto.PageRequest{}); !apierr.Is(err, apierr.CodeUnauthorized) {
		t.Errorf("non-owner ListByStore: err = %v, want unauthorized", err)
	}

	// Status filter.
	pending := types.OrderStatusPending
	page, err = env.orders.ListByStore(ctx, seller.ID, store.ID, &pending, dto.PageRequest{})
	if err != nil {
		t.Fatalf("filtered ListByStore: %v", err)
	}
	if page.TotalElements != 1 {
		t.Errorf("PENDING filter sees %d orders, want 1", page.TotalElements)
	}
	shipped := types.OrderStatusShipped
	page, err = env.orders.ListByStore(ctx, seller.ID, store.ID, &shipped, dto.PageRequest{})
	if err != nil {
		t.Fatalf("filtered ListByStore: %v", err)
	}
	if page.TotalElements != 0 {
		t.Errorf("SHIPPED filter sees %d orders, want 0", page.TotalElements)
	}
}

// Two writers holding the same loaded version: the second save must fail
// with a conflict instead of silently overwriting.
func TestOptimisticLockConflict(t *testing.T) {
	env := newTestEnv(t)
	seller := env.createUser(t, "seller", types.RoleUser, types.RoleSeller)
	store := env.createStore(t, seller, "race-store")
	product := env.createProduct(t, store, "Widget", "WID-8", "10.00")
	buyer := env.createUser(t, "buyer")
	ctx := context.Background()

	view := env.placeOrder(t, buyer, dto.CreateOrderItemRequest{ProductID: product.ID, Quantity: 1})

	first, err := env.orderRepo.GetByID(ctx, nil, view.ID)
	if err != nil || first == nil {
		t.Fatalf("load first copy: %v", err)
	}
	second, err := env.orderRepo.GetByID(ctx, nil, view.ID)
	if err != nil || second == nil {
		t.Fatalf("load second copy: %v", err)
	}

	if err := first.Transition(types.OrderStatusProcessing); err != nil {
		t.Fatalf("transition first copy: %v", err)
	}
	if err := env.orderRepo.SaveAggregate(ctx, nil, first); err != nil {
		t.Fatalf("save first copy: %v", err)
	}

	if err := second.Cancel(); err != nil {
		t.Fatalf("cancel second copy: %v", err)
	}
	err = env.orderRepo.SaveAggregate(ctx, nil, second)
	if !apierr.Is(err, apierr.CodeConflict) {
		t.Fatalf("stale save: err = %v, want conflict", err)
	}
}

func TestGetOrderByNumber(t *testing.T) {
	env := newTestEnv(t)
	seller := env.createUser(t, "seller", types.RoleUser, types.RoleSeller)
	store := env.createStore(t, seller, "number-store")
	product := env.createProduct(t, store, "Widget", "WID-9", "12.50")
	buyer := env.createUser(t, "buyer")
	ctx := context.Background()

	view := env.placeOrder(t, buyer, dto.CreateOrderItemRequest{ProductID: product.ID, Quantity: 2})

	byNumber, err := env.orders.GetOrderByNumber(ctx, buyer.ID, view.OrderNumber)
	if err != nil {
		t.Fatalf("get by number: %v", err)
	}
	if byNumber.ID != view.ID {
		t.Errorf("got order %s, want %s", byNumber.ID, view.ID)
	}

	if _, err := env.orders.GetOrderByNumber(ctx, buyer.ID, "ORD-0"); !apierr.Is(err, apierr.CodeNotFound) {
		t.Errorf("unknown number: err = %v, want not_found", err)
	}
}

func strPtr(s string) *string { return &s }
