package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/marketplace-backend/internal/money"
	"github.com/yungbote/marketplace-backend/internal/types"
)

type CreateOrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required"`
}

type CreateShippingInfoRequest struct {
	RecipientName  string `json:"recipient_name" binding:"required"`
	Street         string `json:"street" binding:"required"`
	Number         string `json:"number"`
	Complement     string `json:"complement"`
	Neighborhood   string `json:"neighborhood"`
	City           string `json:"city" binding:"required"`
	State          string `json:"state" binding:"required"`
	ZipCode        string `json:"zip_code" binding:"required"`
	Country        string `json:"country" binding:"required"`
	PhoneNumber    string `json:"phone_number"`
	ShippingMethod string `json:"shipping_method"`
}

type CreateOrderRequest struct {
	Items          []CreateOrderItemRequest  `json:"items" binding:"required"`
	ShippingInfo   CreateShippingInfoRequest `json:"shipping_info" binding:"required"`
	PaymentMethod  types.PaymentMethod       `json:"payment_method" binding:"required"`
	PaymentDetails string                    `json:"payment_details"`
	Notes          string                    `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status types.OrderStatus `json:"status" binding:"required"`
	Notes  string            `json:"notes"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus  types.PaymentStatus `json:"payment_status" binding:"required"`
	TransactionID  string              `json:"transaction_id"`
	PaymentDetails string              `json:"payment_details"`
}

type UpdateShippingInfoRequest struct {
	TrackingNumber        *string    `json:"tracking_number"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date"`
	ShippedDate           *time.Time `json:"shipped_date"`
	DeliveredDate         *time.Time `json:"delivered_date"`
}

// OrderView is the flattened read model returned by every order endpoint.
// It is assembled from the aggregate per request, never persisted.
type OrderView struct {
	ID           uuid.UUID          `json:"id"`
	OrderNumber  string             `json:"order_number"`
	UserID       uuid.UUID          `json:"user_id"`
	UserName     string             `json:"user_name"`
	Status       types.OrderStatus  `json:"status"`
	Items        []OrderItemView    `json:"items"`
	Payment      *OrderPaymentView  `json:"payment,omitempty"`
	ShippingInfo *ShippingInfoView  `json:"shipping_info,omitempty"`
	Subtotal     money.Money        `json:"subtotal"`
	ShippingCost money.Money        `json:"shipping_cost"`
	Discount     money.Money        `json:"discount"`
	Tax          money.Money        `json:"tax"`
	Total        money.Money        `json:"total"`
	Notes        string             `json:"notes"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type OrderItemView struct {
	ID          uuid.UUID   `json:"id"`
	ProductID   uuid.UUID   `json:"product_id"`
	ProductName string      `json:"product_name"`
	ProductSKU  string      `json:"product_sku"`
	StoreID     uuid.UUID   `json:"store_id"`
	StoreName   string      `json:"store_name"`
	Quantity    int         `json:"quantity"`
	UnitPrice   money.Money `json:"unit_price"`
	Discount    money.Money `json:"discount"`
	Subtotal    money.Money `json:"subtotal"`
}

type OrderPaymentView struct {
	ID             uuid.UUID           `json:"id"`
	Method         types.PaymentMethod `json:"method"`
	Status         types.PaymentStatus `json:"status"`
	TransactionID  string              `json:"transaction_id,omitempty"`
	Amount         money.Money         `json:"amount"`
	PaymentDetails string              `json:"payment_details,omitempty"`
	PaymentDate    *time.Time          `json:"payment_date,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type ShippingInfoView struct {
	ID                    uuid.UUID  `json:"id"`
	RecipientName         string     `json:"recipient_name"`
	Street                string     `json:"street"`
	Number                string     `json:"number"`
	Complement            string     `json:"complement,omitempty"`
	Neighborhood          string     `json:"neighborhood"`
	City                  string     `json:"city"`
	State                 string     `json:"state"`
	ZipCode               string     `json:"zip_code"`
	Country               string     `json:"country"`
	PhoneNumber           string     `json:"phone_number"`
	ShippingMethod        string     `json:"shipping_method"`
	TrackingNumber        string     `json:"tracking_number,omitempty"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date,omitempty"`
	ShippedDate           *time.Time `json:"shipped_date,omitempty"`
	DeliveredDate         *time.Time `json:"delivered_date,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// NewOrderView flattens the aggregate plus the denormalized owner name.
func NewOrderView(o *types.Order, userName string) OrderView {
	view := OrderView{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		UserID:       o.UserID,
		UserName:     userName,
		Status:       o.Status,
		Items:        make([]OrderItemView, 0, len(o.Items)),
		Subtotal:     o.Subtotal,
		ShippingCost: o.ShippingCost,
		Discount:     o.Discount,
		Tax:          o.Tax,
		Total:        o.Total,
		Notes:        o.Notes,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	for _, item := range o.Items {
		view.Items = append(view.Items, OrderItemView{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			StoreID:     item.StoreID,
			StoreName:   item.StoreName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			Subtotal:    item.Subtotal,
		})
	}
	if p := o.Payment; p != nil {
		view.Payment = &OrderPaymentView{
			ID:             p.ID,
			Method:         p.Method,
			Status:         p.Status,
			TransactionID:  p.TransactionID,
			Amount:         p.Amount,
			PaymentDetails: p.PaymentDetails,
			PaymentDate:    p.PaymentDate,
			CreatedAt:      p.CreatedAt,
			UpdatedAt:      p.UpdatedAt,
		}
	}
	if s := o.ShippingInfo; s != nil {
		view.ShippingInfo = &ShippingInfoView{
			ID:                    s.ID,
			RecipientName:         s.RecipientName,
			Street:                s.Street,
			Number:                s.Number,
			Complement:            s.Complement,
			Neighborhood:          s.Neighborhood,
			City:                  s.City,
			State:                 s.State,
			ZipCode:               s.ZipCode,
			Country:               s.Country,
			PhoneNumber:           s.PhoneNumber,
			ShippingMethod:        s.ShippingMethod,
			TrackingNumber:        s.TrackingNumber,
			EstimatedDeliveryDate: s.EstimatedDeliveryDate,
			ShippedDate:           s.ShippedDate,
			DeliveredDate:         s.DeliveredDate,
			CreatedAt:             s.CreatedAt,
			UpdatedAt:             s.UpdatedAt,
		}
	}
	return view
}
