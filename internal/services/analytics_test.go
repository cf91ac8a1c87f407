package services

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/marketplace-backend/internal/dto"
	"github.com/yungbote/marketplace-backend/internal/platform/apierr"
	"github.com/yungbote/marketplace-backend/internal/types"
)

func TestOrderSummary(t *testing.T) {
	env := newTestEnv(t)
	seller := env.createUser(t, "seller", types.RoleUser, types.RoleSeller)
	store := env.createStore(t, seller, "summary-store")
	cheap := env.createProduct(t, store, "Cheap", "CHP-1", "10.00")
	dear := env.createProduct(t, store, "Dear", "DEA-1", "85.00")
	buyer := env.createUser(t, "buyer")
	admin := env.createUser(t, "admin", types.RoleUser, types.RoleAdmin)
	ctx := context.Background()

	// Totals: 10 + 15 shipping = 25.00 and 85 + 15 shipping = 100.00.
	env.placeOrder(t, buyer, dto.CreateOrderItemRequest{ProductID: cheap.ID, Quantity: 1})
	env.placeOrder(t, buyer, dto.CreateOrderItemRequest{ProductID: dear.ID, Quantity: 1})

	if _, err := env.analytics.OrderSummary(ctx, buyer.ID, time.Time{}, time.Time{}); !apierr.Is(err, apierr.CodeUnauthorized) {
		t.Fatalf("non-admin summary: err = %v, want unauthorized", err)
	}

	summary, err := env.analytics.OrderSummary(ctx, admin.ID, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalOrders != 2 {
		t.Errorf("total orders = %d, want 2", summary.TotalOrders)
	}
	if got := summary.TotalRevenue.String(); got != "125.00" {
		t.Errorf("revenue = %s, want 125.00", got)
	}
	if got := summary.AverageOrderValue.String(); got != "62.50" {
		t.Errorf("average order value = %s, want 62.50", got)
	}
	if summary.OrdersByStatus[types.OrderStatusPending] != 2 {
		t.Errorf("pending count = %d, want 2", summary.OrdersByStatus[types.OrderStatusPending])
	}
	month := time.Now().UTC().Format("2006-01")
	if summary.OrdersByMonth[month] != 2 {
		t.Errorf("orders in %s = %d, want 2", month, summary.OrdersByMonth[month])
	}
}

func TestOrderSummaryEmptyRange(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", types.RoleUser, types.RoleAdmin)

	summary, err := env.analytics.OrderSummary(context.Background(), admin.ID, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalOrders != 0 {
		t.Errorf("total orders = %d, want 0", summary.TotalOrders)
	}
	if !summary.AverageOrderValue.IsZero() {
		t.Errorf("average = %s, want 0.00 without division", summary.AverageOrderValue)
	}
}

func TestStoreSummaryCountsOwnLinesOnly(t *testing.T) {
	env := newTestEnv(t)
	seller := env.createUser(t, "seller", types.RoleUser, types.RoleSeller)
	store := env.createStore(t, seller, "mine-store")
	mine := env.createProduct(t, store, "Mine", "MIN-1", "30.00")
	otherSeller := env.createUser(t, "othersel", types.RoleUser, types.RoleSeller)
	otherStore := env.createStore(t, otherSeller, "theirs-store")
	theirs := env.createProduct(t, otherStore, "Theirs", "THR-1", "70.00")
	buyer := env.createUser(t, "buyer")
	ctx := context.Background()

	// One mixed order; the store summary must only count this store's lines.
	env.placeOrder(t, buyer,
		dto.CreateOrderItemRequest{ProductID: mine.ID, Quantity: 2},
		dto.CreateOrderItemRequest{ProductID: theirs.ID, Quantity: 1},
	)

	sales, err := env.analytics.StoreSummary(ctx, seller.ID, store.ID, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("store summary: %v", err)
	}
	if sales.TotalOrders != 1 {
		t.Errorf("orders = %d, want 1", sales.TotalOrders)
	}
	if got := sales.TotalRevenue.String(); got != "60.00" {
		t.Errorf("revenue = %s, want 60.00 (own line items only)", got)
	}

	if _, err := env.analytics.StoreSummary(ctx, otherSeller.ID, store.ID, time.Time{}, time.Time{}); !apierr.Is(err, apierr.CodeUnauthorized) {
		t.Errorf("non-owner store summary: err = %v, want unauthorized", err)
	}
}

func TestTopStoresAndProducts(t *testing.T) {
	env := newTestEnv(t)
	sellerA := env.createUser(t, "sellera", types.RoleUser, types.RoleSeller)
	storeA := env.createStore(t, sellerA, "store-a")
	widget := env.createProduct(t, storeA, "Widget", "WID-A", "50.00")
	sellerB := env.createUser(t, "sellerb", types.RoleUser, types.RoleSeller)
	storeB := env.createStore(t, sellerB, "store-b")
	gizmo := env.createProduct(t, storeB, "Gizmo", "GIZ-B", "5.00")
	buyer := env.createUser(t, "buyer")
	admin := env.createUser(t, "admin", types.RoleUser, types.RoleAdmin)
	ctx := context.Background()

	env.placeOrder(t, buyer, dto.CreateOrderItemRequest{ProductID: widget.ID, Quantity: 2})
	env.placeOrder(t, buyer, dto.CreateOrderItemRequest{ProductID: gizmo.ID, Quantity: 5})

	stores, err := env.analytics.TopStores(ctx, admin.ID, time.Time{}, time.Time{}, 10)
	if err != nil {
		t.Fatalf("top stores: %v", err)
	}
	if len(stores) != 2 {
		t.Fatalf("len(stores) = %d, want 2", len(stores))
	}
	if stores[0].StoreID != storeA.ID {
		t.Errorf("top store = %s, want store-a (100.00 > 25.00)", stores[0].StoreName)
	}
	if got := stores[0].TotalRevenue.String(); got != "100.00" {
		t.Errorf("top store revenue = %s, want 100.00", got)
	}

	products, err := env.analytics.TopProducts(ctx, admin.ID, time.Time{}, time.Time{}, 1)
	if err != nil {
		t.Fatalf("top products: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("len(products) = %d, want 1 (limit)", len(products))
	}
	if products[0].ProductID != gizmo.ID || products[0].QuantitySold != 5 {
		t.Errorf("top product = %+v, want Gizmo with quantity 5", products[0])
	}
}
