package types

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/marketplace-backend/internal/money"
	"github.com/yungbote/marketplace-backend/internal/platform/apierr"
)

func newTestOrder() *Order {
	return &Order{
		ID:           uuid.New(),
		OrderNumber:  NewOrderNumber(time.Now()),
		UserID:       uuid.New(),
		Status:       OrderStatusPending,
		ShippingCost: money.MustFromString("15.00"),
	}
}

func newTestItem(unitPrice string, quantity int) OrderItem {
	return OrderItem{
		ID:          uuid.New(),
		ProductID:   uuid.New(),
		ProductName: "Mechanical Keyboard",
		ProductSKU:  "KB-0001",
		StoreID:     uuid.New(),
		StoreName:   "Peripherals & Co",
		Quantity:    quantity,
		UnitPrice:   money.MustFromString(unitPrice),
	}
}

func assertTotalsInvariant(t *testing.T, o *Order) {
	t.Helper()
	sum := money.Zero()
	for _, item := range o.Items {
		if item.Subtotal.IsNegative() {
			t.Fatalf("line item subtotal went negative: %s", item.Subtotal)
		}
		if !item.Subtotal.Equal(item.UnitPrice.MulInt(int64(item.Quantity)).Sub(item.Discount)) {
			t.Fatalf("line item subtotal %s does not match qty*price-discount", item.Subtotal)
		}
		sum = sum.Add(item.Subtotal)
	}
	if !o.Subtotal.Equal(sum) {
		t.Fatalf("order subtotal %s != sum of item subtotals %s", o.Subtotal, sum)
	}
	want := o.Subtotal.Add(o.ShippingCost).Add(o.Tax).Sub(o.Discount)
	if !o.Total.Equal(want) {
		t.Fatalf("total %s != subtotal+shipping+tax-discount %s", o.Total, want)
	}
}

func TestAddItemRecomputesTotals(t *testing.T) {
	o := newTestOrder()
	subtotal, err := o.AddItem(newTestItem("50.00", 2))
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if subtotal.String() != "100.00" {
		t.Fatalf("subtotal = %s, want 100.00", subtotal)
	}
	if o.Total.String() != "115.00" {
		t.Fatalf("total = %s, want 115.00", o.Total)
	}
	assertTotalsInvariant(t, o)
}

func TestAddItemValidation(t *testing.T) {
	o := newTestOrder()

	if _, err := o.AddItem(newTestItem("50.00", 0)); !apierr.Is(err, apierr.CodeValidation) {
		t.Fatalf("zero quantity: expected validation error, got %v", err)
	}

	item := newTestItem("10.00", 1)
	item.Discount = money.MustFromString("10.01")
	if _, err := o.AddItem(item); !apierr.Is(err, apierr.CodeValidation) {
		t.Fatalf("negative subtotal: expected validation error, got %v", err)
	}

	o.Status = OrderStatusProcessing
	if _, err := o.AddItem(newTestItem("50.00", 1)); !apierr.Is(err, apierr.CodeInvalidState) {
		t.Fatalf("add on non-PENDING order: expected invalid_state, got %v", err)
	}
}

func TestRemoveItem(t *testing.T) {
	o := newTestOrder()
	item := newTestItem("50.00", 2)
	if _, err := o.AddItem(item); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := o.AddItem(newTestItem("9.90", 1)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if err := o.RemoveItem(uuid.New()); !apierr.Is(err, apierr.CodeNotFound) {
		t.Fatalf("unknown item: expected not_found, got %v", err)
	}

	if err := o.RemoveItem(item.ID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(o.Items) != 1 {
		t.Fatalf("expected 1 item left, got %d", len(o.Items))
	}
	assertTotalsInvariant(t, o)

	o.Status = OrderStatusShipped
	if err := o.RemoveItem(o.Items[0].ID); !apierr.Is(err, apierr.CodeInvalidState) {
		t.Fatalf("remove on SHIPPED order: expected invalid_state, got %v", err)
	}
}

func TestRecalculateTotalsIdempotent(t *testing.T) {
	o := newTestOrder()
	if _, err := o.AddItem(newTestItem("33.33", 3)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	o.Tax = money.MustFromString("4.50")
	o.Discount = money.MustFromString("10.00")
	o.RecalculateTotals()
	first := o.Total
	o.RecalculateTotals()
	if !o.Total.Equal(first) {
		t.Fatalf("recalculation is not idempotent: %s then %s", first, o.Total)
	}
	assertTotalsInvariant(t, o)
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusDelivered, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCompleted, true},
		{OrderStatusDelivered, OrderStatusRefunded, true},
		{OrderStatusCompleted, OrderStatusRefunded, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusRefunded, OrderStatusProcessing, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			o := newTestOrder()
			o.Status = tc.from
			err := o.Transition(tc.to)
			if tc.allowed {
				if err != nil {
					t.Fatalf("expected transition to succeed: %v", err)
				}
				if o.Status != tc.to {
					t.Fatalf("status = %s, want %s", o.Status, tc.to)
				}
				return
			}
			if !apierr.Is(err, apierr.CodeInvalidState) {
				t.Fatalf("expected invalid_state, got %v", err)
			}
			if o.Status != tc.from {
				t.Fatalf("rejected transition mutated status to %s", o.Status)
			}
		})
	}
}

func TestCancelOnlyBeforeShipment(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusPending, OrderStatusProcessing} {
		o := newTestOrder()
		o.Status = status
		if err := o.Cancel(); err != nil {
			t.Fatalf("cancel from %s: %v", status, err)
		}
		if o.Status != OrderStatusCancelled {
			t.Fatalf("status = %s, want CANCELLED", o.Status)
		}
	}
	for _, status := range []OrderStatus{OrderStatusShipped, OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded} {
		o := newTestOrder()
		o.Status = status
		if err := o.Cancel(); !apierr.Is(err, apierr.CodeInvalidState) {
			t.Fatalf("cancel from %s: expected invalid_state, got %v", status, err)
		}
		if o.Status != status {
			t.Fatalf("failed cancel mutated status to %s", o.Status)
		}
	}
}

func TestPaymentCompletionAdvancesPendingOrder(t *testing.T) {
	o := newTestOrder()
	if _, err := o.AddItem(newTestItem("50.00", 2)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := o.AttachPayment(PaymentMethodPix, "pix-key"); err != nil {
		t.Fatalf("AttachPayment: %v", err)
	}
	if o.Payment.Status != PaymentStatusPending {
		t.Fatalf("new payment status = %s, want PENDING", o.Payment.Status)
	}
	if !o.Payment.Amount.Equal(o.Total) {
		t.Fatalf("payment amount %s != order total %s", o.Payment.Amount, o.Total)
	}

	now := time.Now().UTC()
	if err := o.ApplyPaymentUpdate(PaymentStatusCompleted, "txn-123", "", now); err != nil {
		t.Fatalf("ApplyPaymentUpdate: %v", err)
	}
	if o.Payment.Status != PaymentStatusCompleted {
		t.Fatalf("payment status = %s, want COMPLETED", o.Payment.Status)
	}
	if o.Status != OrderStatusProcessing {
		t.Fatalf("order status = %s, want PROCESSING", o.Status)
	}
	if o.Payment.PaymentDate == nil || !o.Payment.PaymentDate.Equal(now) {
		t.Fatal("payment date not set on completion")
	}
	if o.Payment.TransactionID != "txn-123" {
		t.Fatalf("transaction id = %q", o.Payment.TransactionID)
	}
}

func TestPaymentCompletionLeavesAdvancedOrderAlone(t *testing.T) {
	o := newTestOrder()
	o.Status = OrderStatusShipped
	o.Payment = &OrderPayment{OrderID: o.ID, Method: PaymentMethodBoleto, Status: PaymentStatusProcessing}
	if err := o.ApplyPaymentUpdate(PaymentStatusCompleted, "", "", time.Now().UTC()); err != nil {
		t.Fatalf("ApplyPaymentUpdate: %v", err)
	}
	if o.Status != OrderStatusShipped {
		t.Fatalf("order status = %s, want SHIPPED", o.Status)
	}
}

func TestShippingLifecycle(t *testing.T) {
	o := newTestOrder()
	o.Status = OrderStatusProcessing
	o.ShippingInfo = &ShippingInfo{OrderID: o.ID, RecipientName: "Ana", Street: "Rua A", City: "Recife", State: "PE", ZipCode: "50000-000", Country: "BR"}

	shipped := time.Now().UTC()
	tracking := "BR123456789"
	if err := o.ApplyShippingUpdate(&tracking, nil, &shipped, nil); err != nil {
		t.Fatalf("shipped update: %v", err)
	}
	if o.Status != OrderStatusShipped {
		t.Fatalf("status = %s, want SHIPPED", o.Status)
	}
	if o.ShippingInfo.TrackingNumber != tracking {
		t.Fatalf("tracking = %q", o.ShippingInfo.TrackingNumber)
	}

	delivered := shipped.Add(48 * time.Hour)
	if err := o.ApplyShippingUpdate(nil, nil, nil, &delivered); err != nil {
		t.Fatalf("delivered update: %v", err)
	}
	if o.Status != OrderStatusDelivered {
		t.Fatalf("status = %s, want DELIVERED", o.Status)
	}
}

func TestDeliveryRequiresShippedFirst(t *testing.T) {
	o := newTestOrder()
	o.ShippingInfo = &ShippingInfo{OrderID: o.ID}
	delivered := time.Now().UTC()
	err := o.ApplyShippingUpdate(nil, nil, nil, &delivered)
	if !apierr.Is(err, apierr.CodeInvalidState) {
		t.Fatalf("expected invalid_state, got %v", err)
	}
	if o.ShippingInfo.DeliveredDate != nil {
		t.Fatal("rejected update set the delivered date")
	}
	if o.Status != OrderStatusPending {
		t.Fatalf("rejected update mutated status to %s", o.Status)
	}
}

func TestShippedAndDeliveredInOneUpdate(t *testing.T) {
	o := newTestOrder()
	o.Status = OrderStatusProcessing
	o.ShippingInfo = &ShippingInfo{OrderID: o.ID}
	shipped := time.Now().UTC()
	delivered := shipped.Add(time.Hour)
	if err := o.ApplyShippingUpdate(nil, nil, &shipped, &delivered); err != nil {
		t.Fatalf("combined update: %v", err)
	}
	if o.Status != OrderStatusDelivered {
		t.Fatalf("status = %s, want DELIVERED", o.Status)
	}
}
