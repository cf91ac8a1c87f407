package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/marketplace-backend/internal/money"
	"github.com/yungbote/marketplace-backend/internal/platform/apierr"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled,
		OrderStatusRefunded:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// orderTransitions is the single transition table for order status. Every
// path that changes status, including the generic update endpoint, goes
// through it; there is no admin bypass.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusCompleted, OrderStatusRefunded},
}

func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodPix          PaymentMethod = "PIX"
	PaymentMethodBoleto       PaymentMethod = "BOLETO"
	PaymentMethodPaypal       PaymentMethod = "PAYPAL"
	PaymentMethodStoreCredit  PaymentMethod = "STORE_CREDIT"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodBankTransfer,
		PaymentMethodPix, PaymentMethodBoleto, PaymentMethodPaypal, PaymentMethodStoreCredit:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusCompleted  PaymentStatus = "COMPLETED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
	PaymentStatusRefunded   PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted,
		PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// OrderItem is one product line inside an order. Name, SKU, unit price and
// the owning store are snapshots taken at order placement, so later catalog
// edits never rewrite order history. Quantity and price are immutable after
// creation; a line can only be removed while the order is still PENDING.
type OrderItem struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     uuid.UUID   `gorm:"type:uuid;not null;index;column:order_id" json:"order_id"`
	ProductID   uuid.UUID   `gorm:"type:uuid;not null;index;column:product_id" json:"product_id"`
	ProductName string      `gorm:"not null;column:product_name" json:"product_name"`
	ProductSKU  string      `gorm:"not null;column:product_sku" json:"product_sku"`
	StoreID     uuid.UUID   `gorm:"type:uuid;not null;index;column:store_id" json:"store_id"`
	StoreName   string      `gorm:"column:store_name" json:"store_name"`
	Quantity    int         `gorm:"not null;column:quantity" json:"quantity"`
	UnitPrice   money.Money `gorm:"type:decimal(12,2);not null;column:unit_price" json:"unit_price"`
	Discount    money.Money `gorm:"type:decimal(12,2);not null;column:discount" json:"discount"`
	Subtotal    money.Money `gorm:"type:decimal(12,2);not null;column:subtotal" json:"subtotal"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
}

func (OrderItem) TableName() string { return "order_item" }

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// ComputeSubtotal derives quantity * unitPrice - discount. The result is
// stored but never authoritative on its own; RecalculateTotals re-derives it.
func (oi *OrderItem) ComputeSubtotal() money.Money {
	return oi.UnitPrice.MulInt(int64(oi.Quantity)).Sub(oi.Discount)
}

type OrderPayment struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID        uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex;column:order_id" json:"order_id"`
	Method         PaymentMethod `gorm:"not null;column:method" json:"method"`
	Status         PaymentStatus `gorm:"not null;column:status" json:"status"`
	TransactionID  string        `gorm:"column:transaction_id" json:"transaction_id,omitempty"`
	Amount         money.Money   `gorm:"type:decimal(12,2);not null;column:amount" json:"amount"`
	PaymentDetails string        `gorm:"column:payment_details" json:"payment_details,omitempty"`
	PaymentDate    *time.Time    `gorm:"column:payment_date" json:"payment_date,omitempty"`
	CreatedAt      time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null" json:"updated_at"`
}

func (OrderPayment) TableName() string { return "order_payment" }

func (op *OrderPayment) BeforeCreate(tx *gorm.DB) error {
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}
	return nil
}

type ShippingInfo struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID               uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex;column:order_id" json:"order_id"`
	RecipientName         string     `gorm:"not null;column:recipient_name" json:"recipient_name"`
	Street                string     `gorm:"not null;column:street" json:"street"`
	Number                string     `gorm:"column:number" json:"number"`
	Complement            string     `gorm:"column:complement" json:"complement,omitempty"`
	Neighborhood          string     `gorm:"column:neighborhood" json:"neighborhood"`
	City                  string     `gorm:"not null;column:city" json:"city"`
	State                 string     `gorm:"not null;column:state" json:"state"`
	ZipCode               string     `gorm:"not null;column:zip_code" json:"zip_code"`
	Country               string     `gorm:"not null;column:country" json:"country"`
	PhoneNumber           string     `gorm:"column:phone_number" json:"phone_number"`
	ShippingMethod        string     `gorm:"column:shipping_method" json:"shipping_method"`
	TrackingNumber        string     `gorm:"column:tracking_number" json:"tracking_number,omitempty"`
	EstimatedDeliveryDate *time.Time `gorm:"column:estimated_delivery_date" json:"estimated_delivery_date,omitempty"`
	ShippedDate           *time.Time `gorm:"column:shipped_date" json:"shipped_date,omitempty"`
	DeliveredDate         *time.Time `gorm:"column:delivered_date" json:"delivered_date,omitempty"`
	CreatedAt             time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"not null" json:"updated_at"`
}

func (ShippingInfo) TableName() string { return "shipping_info" }

func (si *ShippingInfo) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// Order is the aggregate root. It exclusively owns its items, payment and
// shipping info; the three are persisted and deleted with the order as one
// unit. Totals are only ever set by RecalculateTotals. Version backs the
// optimistic concurrency check on every mutating save.
type Order struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber  string        `gorm:"uniqueIndex;not null;column:order_number" json:"order_number"`
	UserID       uuid.UUID     `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Status       OrderStatus   `gorm:"not null;column:status" json:"status"`
	Items        []OrderItem   `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrderID" json:"items"`
	Payment      *OrderPayment `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrderID" json:"payment,omitempty"`
	ShippingInfo *ShippingInfo `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrderID" json:"shipping_info,omitempty"`
	Subtotal     money.Money   `gorm:"type:decimal(12,2);not null;column:subtotal" json:"subtotal"`
	ShippingCost money.Money   `gorm:"type:decimal(12,2);not null;column:shipping_cost" json:"shipping_cost"`
	Discount     money.Money   `gorm:"type:decimal(12,2);not null;column:discount" json:"discount"`
	Tax          money.Money   `gorm:"type:decimal(12,2);not null;column:tax" json:"tax"`
	Total        money.Money   `gorm:"type:decimal(12,2);not null;column:total" json:"total"`
	Notes        string        `gorm:"column:notes" json:"notes"`
	Version      int           `gorm:"not null;default:0;column:version" json:"version"`
	CreatedAt    time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"not null" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	if o.OrderNumber == "" {
		o.OrderNumber = NewOrderNumber(time.Now())
	}
	return nil
}

// NewOrderNumber generates the human-readable unique order number.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%d", now.UnixMilli())
}

// AddItem validates and appends a line item, recomputes totals and returns
// the new order subtotal. Lines can only be added while the order is PENDING.
func (o *Order) AddItem(item OrderItem) (money.Money, error) {
	if o.Status != OrderStatusPending {
		return money.Zero(), apierr.InvalidState("order %s is %s; line items can only change while PENDING", o.OrderNumber, o.Status)
	}
	if item.Quantity <= 0 {
		return money.Zero(), apierr.Validation("quantity must be positive, got %d", item.Quantity)
	}
	if item.UnitPrice.IsNegative() || item.Discount.IsNegative() {
		return money.Zero(), apierr.Validation("unit price and discount must not be negative")
	}
	item.OrderID = o.ID
	item.Subtotal = item.ComputeSubtotal()
	if item.Subtotal.IsNegative() {
		return money.Zero(), apierr.Validation("discount %s exceeds line total for product %s", item.Discount, item.ProductID)
	}
	o.Items = append(o.Items, item)
	o.RecalculateTotals()
	return o.Subtotal, nil
}

// RemoveItem drops a line item while the order is still editable (PENDING).
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if o.Status != OrderStatusPending {
		return apierr.InvalidState("order %s is %s; line items can only change while PENDING", o.OrderNumber, o.Status)
	}
	for i, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.RecalculateTotals()
			return nil
		}
	}
	return apierr.NotFound("line item %s not found on order %s", itemID, o.OrderNumber)
}

// RecalculateTotals is the only place totals are derived:
// subtotal = sum of line subtotals, total = subtotal + shipping + tax - discount.
// Idempotent; must run after every structural mutation.
func (o *Order) RecalculateTotals() {
	subtotal := money.Zero()
	for i := range o.Items {
		o.Items[i].Subtotal = o.Items[i].ComputeSubtotal()
		subtotal = subtotal.Add(o.Items[i].Subtotal)
	}
	o.Subtotal = subtotal
	o.Total = subtotal.Add(o.ShippingCost).Add(o.Tax).Sub(o.Discount)
}

// Transition moves the order to newStatus if the transition table allows it.
// On failure nothing is mutated.
func (o *Order) Transition(newStatus OrderStatus) error {
	if !newStatus.Valid() {
		return apierr.Validation("unknown order status %q", newStatus)
	}
	if o.Status == newStatus {
		return apierr.InvalidState("order %s is already %s", o.OrderNumber, newStatus)
	}
	if o.Status.Terminal() {
		return apierr.InvalidState("order %s is %s, a terminal status", o.OrderNumber, o.Status)
	}
	if !o.Status.CanTransitionTo(newStatus) {
		return apierr.InvalidState("order %s cannot go from %s to %s", o.OrderNumber, o.Status, newStatus)
	}
	o.Status = newStatus
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// Cancel is the explicit cancellation path; it is only legal before shipment.
func (o *Order) Cancel() error {
	if o.Status != OrderStatusPending && o.Status != OrderStatusProcessing {
		return apierr.InvalidState("order %s is %s; only PENDING or PROCESSING orders can be cancelled", o.OrderNumber, o.Status)
	}
	return o.Transition(OrderStatusCancelled)
}

// AttachPayment creates (or replaces) the order's payment record with status
// PENDING and amount pinned to the current total.
func (o *Order) AttachPayment(method PaymentMethod, details string) error {
	if !method.Valid() {
		return apierr.Validation("unknown payment method %q", method)
	}
	o.Payment = &OrderPayment{
		OrderID:        o.ID,
		Method:         method,
		Status:         PaymentStatusPending,
		PaymentDetails: details,
		Amount:         o.Total,
	}
	return nil
}

// ApplyPaymentUpdate moves the payment record to newStatus. Completing the
// payment while the order is PENDING advances the order to PROCESSING in the
// same step; the caller persists both in one transaction.
func (o *Order) ApplyPaymentUpdate(newStatus PaymentStatus, transactionID, details string, now time.Time) error {
	if o.Payment == nil {
		return apierr.NotFound("no payment record on order %s", o.OrderNumber)
	}
	if !newStatus.Valid() {
		return apierr.Validation("unknown payment status %q", newStatus)
	}
	o.Payment.Status = newStatus
	if transactionID != "" {
		o.Payment.TransactionID = transactionID
	}
	if details != "" {
		o.Payment.PaymentDetails = details
	}
	o.Payment.UpdatedAt = now
	if newStatus == PaymentStatusCompleted {
		o.Payment.PaymentDate = &now
		if o.Status == OrderStatusPending {
			if err := o.Transition(OrderStatusProcessing); err != nil {
				return err
			}
		}
	}
	return nil
}

// ApplyShippingUpdate partially updates the shipment record. Setting the
// shipped date while PROCESSING advances the order to SHIPPED; setting the
// delivered date requires the order to be SHIPPED first and advances it to
// DELIVERED. Preconditions are checked before any field changes, so a
// rejected update leaves the aggregate untouched.
func (o *Order) ApplyShippingUpdate(trackingNumber *string, estimatedDeliveryDate, shippedDate, deliveredDate *time.Time) error {
	if o.ShippingInfo == nil {
		return apierr.NotFound("no shipping info on order %s", o.OrderNumber)
	}
	if deliveredDate != nil {
		afterShipped := o.Status
		if shippedDate != nil && afterShipped == OrderStatusProcessing {
			afterShipped = OrderStatusShipped
		}
		if afterShipped != OrderStatusShipped {
			return apierr.InvalidState("order %s is %s; it must be SHIPPED before delivery can be confirmed", o.OrderNumber, o.Status)
		}
	}
	now := time.Now().UTC()
	if trackingNumber != nil {
		o.ShippingInfo.TrackingNumber = *trackingNumber
	}
	if estimatedDeliveryDate != nil {
		o.ShippingInfo.EstimatedDeliveryDate = estimatedDeliveryDate
	}
	if shippedDate != nil {
		o.ShippingInfo.ShippedDate = shippedDate
		if o.Status == OrderStatusProcessing {
			if err := o.Transition(OrderStatusShipped); err != nil {
				return err
			}
		}
	}
	if deliveredDate != nil {
		o.ShippingInfo.DeliveredDate = deliveredDate
		if err := o.Transition(OrderStatusDelivered); err != nil {
			return err
		}
	}
	o.ShippingInfo.UpdatedAt = now
	return nil
}
