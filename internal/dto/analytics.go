package dto

import (
	"github.com/google/uuid"

	"github.com/yungbote/marketplace-backend/internal/money"
	"github.com/yungbote/marketplace-backend/internal/types"
)

type OrderSummary struct {
	TotalOrders       int64                       `json:"total_orders"`
	TotalRevenue      money.Money                 `json:"total_revenue"`
	AverageOrderValue money.Money                 `json:"average_order_value"`
	OrdersByStatus    map[types.OrderStatus]int64 `json:"orders_by_status"`
	OrdersByMonth     map[string]int64            `json:"orders_by_month"`
}

type StoreSales struct {
	StoreID      uuid.UUID   `json:"store_id"`
	StoreName    string      `json:"store_name"`
	TotalOrders  int64       `json:"total_orders"`
	TotalRevenue money.Money `json:"total_revenue"`
}

type ProductSales struct {
	ProductID    uuid.UUID   `json:"product_id"`
	ProductName  string      `json:"product_name"`
	QuantitySold int64       `json:"quantity_sold"`
	TotalRevenue money.Money `json:"total_revenue"`
}
