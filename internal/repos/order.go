package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/marketplace-backend/internal/dto"
	"github.com/yungbote/marketplace-backend/internal/logger"
	"github.com/yungbote/marketplace-backend/internal/platform/apierr"
	"github.com/yungbote/marketplace-backend/internal/types"
)

type OrderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, order *types.Order) error
	GetByID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*types.Order, error)
	GetByOrderNumber(ctx context.Context, tx *gorm.DB, orderNumber string) (*types.Order, error)
	SaveAggregate(ctx context.Context, tx *gorm.DB, order *types.Order) error
	ListAll(ctx context.Context, tx *gorm.DB, page dto.PageRequest) ([]*types.Order, int64, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, page dto.PageRequest) ([]*types.Order, int64, error)
	ListByStatus(ctx context.Context, tx *gorm.DB, status types.OrderStatus, page dto.PageRequest) ([]*types.Order, int64, error)
	ListByStore(ctx context.Context, tx *gorm.DB, storeID uuid.UUID, status *types.OrderStatus, page dto.PageRequest) ([]*types.Order, int64, error)
	ListInDateRange(ctx context.Context, tx *gorm.DB, start, end time.Time) ([]*types.Order, error)
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return &orderRepo{db: db, log: baseLog.With("repo", "OrderRepo")}
}

// Sort keys accepted from the list endpoints, mapped to real columns so user
// input never reaches the ORDER BY clause directly.
var orderSortColumns = map[string]string{
	"createdAt":   "created_at",
	"created_at":  "created_at",
	"updatedAt":   "updated_at",
	"updated_at":  "updated_at",
	"total":       "total",
	"status":      "status",
	"orderNumber": "order_number",
}

func orderSortClause(page dto.PageRequest) string {
	col, ok := orderSortColumns[page.SortBy]
	if !ok {
		col = "created_at"
	}
	if page.Direction == "asc" {
		return col + " ASC"
	}
	return col + " DESC"
}

func (or *orderRepo) Create(ctx context.Context, tx *gorm.DB, order *types.Order) error {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	return transaction.WithContext(ctx).Create(order).Error
}

func (or *orderRepo) GetByID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*types.Order, error) {
	return or.getOne(ctx, tx, "id = ?", orderID)
}

func (or *orderRepo) GetByOrderNumber(ctx context.Context, tx *gorm.DB, orderNumber string) (*types.Order, error) {
	return or.getOne(ctx, tx, "order_number = ?", orderNumber)
}

func (or *orderRepo) getOne(ctx context.Context, tx *gorm.DB, cond string, arg interface{}) (*types.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var order types.Order
	err := transaction.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		Preload("ShippingInfo").
		First(&order, cond, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SaveAggregate persists the order header and its children as one unit. The
// header update carries a version predicate: if another writer bumped the row
// since this aggregate was loaded, zero rows match and the save fails with a
// conflict instead of silently overwriting.
func (or *orderRepo) SaveAggregate(ctx context.Context, tx *gorm.DB, order *types.Order) error {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	loadedVersion := order.Version
	res := transaction.WithContext(ctx).
		Model(&types.Order{}).
		Where("id = ? AND version = ?", order.ID, loadedVersion).
		Updates(map[string]interface{}{
			"status":        order.Status,
			"subtotal":      order.Subtotal,
			"shipping_cost": order.ShippingCost,
			"discount":      order.Discount,
			"tax":           order.Tax,
			"total":         order.Total,
			"notes":         order.Notes,
			"version":       loadedVersion + 1,
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		or.log.Warn("Optimistic lock conflict on order save", "order_id", order.ID, "version", loadedVersion)
		return apierr.Conflict("order %s was modified concurrently", order.OrderNumber)
	}
	order.Version = loadedVersion + 1

	keepIDs := make([]uuid.UUID, 0, len(order.Items))
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		keepIDs = append(keepIDs, order.Items[i].ID)
	}
	removal := transaction.WithContext(ctx).Where("order_id = ?", order.ID)
	if len(keepIDs) > 0 {
		removal = removal.Where("id NOT IN ?", keepIDs)
	}
	if err := removal.Delete(&types.OrderItem{}).Error; err != nil {
		return err
	}
	if len(order.Items) > 0 {
		if err := transaction.WithContext(ctx).Save(&order.Items).Error; err != nil {
			return err
		}
	}
	if order.Payment != nil {
		order.Payment.OrderID = order.ID
		if err := transaction.WithContext(ctx).Save(order.Payment).Error; err != nil {
			return err
		}
	}
	if order.ShippingInfo != nil {
		order.ShippingInfo.OrderID = order.ID
		if err := transaction.WithContext(ctx).Save(order.ShippingInfo).Error; err != nil {
			return err
		}
	}
	return nil
}

func (or *orderRepo) ListAll(ctx context.Context, tx *gorm.DB, page dto.PageRequest) ([]*types.Order, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	query := transaction.WithContext(ctx).Model(&types.Order{})
	return or.paginate(query, page)
}

func (or *orderRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, page dto.PageRequest) ([]*types.Order, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	query := transaction.WithContext(ctx).Model(&types.Order{}).Where("user_id = ?", userID)
	return or.paginate(query, page)
}

func (or *orderRepo) ListByStatus(ctx context.Context, tx *gorm.DB, status types.OrderStatus, page dto.PageRequest) ([]*types.Order, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	query := transaction.WithContext(ctx).Model(&types.Order{}).Where("status = ?", status)
	return or.paginate(query, page)
}

// ListByStore finds orders containing at least one line item sold by the
// store. The store id is snapshotted on order_item, so this is a subquery
// rather than a join through the live product catalog.
func (or *orderRepo) ListByStore(ctx context.Context, tx *gorm.DB, storeID uuid.UUID, status *types.OrderStatus, page dto.PageRequest) ([]*types.Order, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	sub := transaction.WithContext(ctx).
		Model(&types.OrderItem{}).
		Select("order_id").
		Where("store_id = ?", storeID)
	query := transaction.WithContext(ctx).Model(&types.Order{}).Where("id IN (?)", sub)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	return or.paginate(query, page)
}

func (or *orderRepo) paginate(query *gorm.DB, page dto.PageRequest) ([]*types.Order, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []*types.Order
	if err := query.
		Preload("Items").
		Preload("Payment").
		Preload("ShippingInfo").
		Order(orderSortClause(page)).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (or *orderRepo) ListInDateRange(ctx context.Context, tx *gorm.DB, start, end time.Time) ([]*types.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var orders []*types.Order
	if err := transaction.WithContext(ctx).
		Preload("Items").
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
