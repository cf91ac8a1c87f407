package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/marketplace-backend/internal/dto"
	"github.com/yungbote/marketplace-backend/internal/logger"
	"github.com/yungbote/marketplace-backend/internal/money"
	"github.com/yungbote/marketplace-backend/internal/platform/apierr"
	"github.com/yungbote/marketplace-backend/internal/repos"
	"github.com/yungbote/marketplace-backend/internal/types"
)

// OrderService orchestrates the order aggregate: every mutation loads the
// aggregate, authorizes the actor, applies the change through the aggregate's
// own methods and persists the whole unit inside one transaction with an
// optimistic version check.
type OrderService interface {
	CreateOrder(ctx context.Context, actorID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderView, error)
	GetOrder(ctx context.Context, actorID, orderID uuid.UUID) (*dto.OrderView, error)
	GetOrderByNumber(ctx context.Context, actorID uuid.UUID, orderNumber string) (*dto.OrderView, error)
	ListAll(ctx context.Context, actorID uuid.UUID, page dto.PageRequest) (dto.Page[dto.OrderView], error)
	ListMine(ctx context.Context, actorID uuid.UUID, page dto.PageRequest) (dto.Page[dto.OrderView], error)
	ListByStatus(ctx context.Context, actorID uuid.UUID, status types.OrderStatus, page dto.PageRequest) (dto.Page[dto.OrderView], error)
	ListByStore(ctx context.Context, actorID, storeID uuid.UUID, status *types.OrderStatus, page dto.PageRequest) (dto.Page[dto.OrderView], error)
	UpdateStatus(ctx context.Context, actorID, orderID uuid.UUID, req dto.UpdateOrderStatusRequest) (*dto.OrderView, error)
	UpdatePayment(ctx context.Context, actorID, orderID uuid.UUID, req dto.UpdatePaymentStatusRequest) (*dto.OrderView, error)
	UpdateShipping(ctx context.Context, actorID, orderID uuid.UUID, req dto.UpdateShippingInfoRequest) (*dto.OrderView, error)
	Cancel(ctx context.Context, actorID, orderID uuid.UUID) error
}

// OrderConfig carries the workflow knobs that are environment-driven. The
// flat shipping rate stands in for a real rating engine.
type OrderConfig struct {
	FlatShippingRate      money.Money
	EstimatedDeliveryDays int
}

func DefaultOrderConfig() OrderConfig {
	return OrderConfig{
		FlatShippingRate:      money.MustFromString("15.00"),
		EstimatedDeliveryDays: 7,
	}
}

type orderService struct {
	db          *gorm.DB
	log         *logger.Logger
	cfg         OrderConfig
	orderRepo   repos.OrderRepo
	productRepo repos.ProductRepo
	userRepo    repos.UserRepo
	storeRepo   repos.StoreRepo
	policy      *OrderPolicy
}

func NewOrderService(
	db *gorm.DB,
	log *logger.Logger,
	cfg OrderConfig,
	orderRepo repos.OrderRepo,
	productRepo repos.ProductRepo,
	userRepo repos.UserRepo,
	storeRepo repos.StoreRepo,
	policy *OrderPolicy,
) OrderService {
	return &orderService{
		db:          db,
		log:         log.With("service", "OrderService"),
		cfg:         cfg,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		storeRepo:   storeRepo,
		policy:      policy,
	}
}

// loadActor resolves the caller into a policy Actor inside the current
// transaction: the user row with roles plus owned store ids for sellers.
func (os *orderService) loadActor(ctx context.Context, tx *gorm.DB, actorID uuid.UUID) (Actor, error) {
	user, err := os.userRepo.GetByID(ctx, tx, actorID)
	if err != nil {
		return Actor{}, err
	}
	if user == nil {
		return Actor{}, apierr.Unauthorized("unknown actor %s", actorID)
	}
	actor := Actor{User: user}
	if user.IsSeller() {
		ids, err := os.storeRepo.OwnedStoreIDs(ctx, tx, actorID)
		if err != nil {
			return Actor{}, err
		}
		actor.StoreIDs = ids
	}
	return actor, nil
}

func (os *orderService) CreateOrder(ctx context.Context, actorID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderView, error) {
	if len(req.Items) == 0 {
		return nil, apierr.Validation("order must contain at least one item")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, apierr.Validation("quantity must be positive for product %s", item.ProductID)
		}
	}
	if !req.PaymentMethod.Valid() {
		return nil, apierr.Validation("unknown payment method %q", req.PaymentMethod)
	}

	var view *dto.OrderView
	err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := os.userRepo.GetByID(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if user == nil {
			return apierr.NotFound("user %s not found", actorID)
		}

		productIDs := make([]uuid.UUID, 0, len(req.Items))
		for _, item := range req.Items {
			productIDs = append(productIDs, item.ProductID)
		}
		products, err := os.productRepo.GetByIDs(ctx, tx, productIDs)
		if err != nil {
			return err
		}
		productsByID := make(map[uuid.UUID]*types.Product, len(products))
		for _, p := range products {
			productsByID[p.ID] = p
		}

		storeNames := make(map[uuid.UUID]string)
		for _, item := range req.Items {
			product, ok := productsByID[item.ProductID]
			if !ok {
				return apierr.NotFound("product %s not found", item.ProductID)
			}
			if _, seen := storeNames[product.StoreID]; !seen {
				store, err := os.storeRepo.GetByID(ctx, tx, product.StoreID)
				if err != nil {
					return err
				}
				if store != nil {
					storeNames[product.StoreID] = store.Name
				}
			}
		}

		now := time.Now().UTC()
		order := &types.Order{
			ID:           uuid.New(),
			OrderNumber:  types.NewOrderNumber(now),
			UserID:       user.ID,
			Status:       types.OrderStatusPending,
			ShippingCost: os.cfg.FlatShippingRate,
			Notes:        req.Notes,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		for _, itemReq := range req.Items {
			product := productsByID[itemReq.ProductID]
			// Name, SKU, price and store are snapshotted here; later catalog
			// edits never touch this order.
			item := types.OrderItem{
				ID:          uuid.New(),
				ProductID:   product.ID,
				ProductName: product.Name,
				ProductSKU:  product.SKU,
				StoreID:     product.StoreID,
				StoreName:   storeNames[product.StoreID],
				Quantity:    itemReq.Quantity,
				UnitPrice:   product.Price,
				CreatedAt:   now,
			}
			if _, err := order.AddItem(item); err != nil {
				return err
			}
		}

		estimated := now.AddDate(0, 0, os.cfg.EstimatedDeliveryDays)
		order.ShippingInfo = &types.ShippingInfo{
			ID:                    uuid.New(),
			OrderID:               order.ID,
			RecipientName:         req.ShippingInfo.RecipientName,
			Street:                req.ShippingInfo.Street,
			Number:                req.ShippingInfo.Number,
			Complement:            req.ShippingInfo.Complement,
			Neighborhood:          req.ShippingInfo.Neighborhood,
			City:                  req.ShippingInfo.City,
			State:                 req.ShippingInfo.State,
			ZipCode:               req.ShippingInfo.ZipCode,
			Country:               req.ShippingInfo.Country,
			PhoneNumber:           req.ShippingInfo.PhoneNumber,
			ShippingMethod:        req.ShippingInfo.ShippingMethod,
			EstimatedDeliveryDate: &estimated,
			CreatedAt:             now,
			UpdatedAt:             now,
		}

		if err := order.AttachPayment(req.PaymentMethod, req.PaymentDetails); err != nil {
			return err
		}
		order.Payment.ID = uuid.New()
		order.Payment.CreatedAt = now
		order.Payment.UpdatedAt = now

		if err := os.orderRepo.Create(ctx, tx, order); err != nil {
			return err
		}

		v := dto.NewOrderView(order, user.Name)
		view = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	os.log.Info("Order created", "order_number", view.OrderNumber, "user_id", actorID, "total", view.Total.String())
	return view, nil
}

func (os *orderService) GetOrder(ctx context.Context, actorID, orderID uuid.UUID) (*dto.OrderView, error) {
	order, err := os.orderRepo.GetByID(ctx, nil, orderID)
	if err != nil {
		return nil, err
	}
	return os.authorizeAndView(ctx, actorID, order, orderID.String())
}

func (os *orderService) GetOrderByNumber(ctx context.Context, actorID uuid.UUID, orderNumber string) (*dto.OrderView, error) {
	order, err := os.orderRepo.GetByOrderNumber(ctx, nil, orderNumber)
	if err != nil {
		return nil, err
	}
	return os.authorizeAndView(ctx, actorID, order, orderNumber)
}

func (os *orderService) authorizeAndView(ctx context.Context, actorID uuid.UUID, order *types.Order, ref string) (*dto.OrderView, error) {
	if order == nil {
		return nil, apierr.NotFound("order %s not found", ref)
	}
	actor, err := os.loadActor(ctx, nil, actorID)
	if err != nil {
		return nil, err
	}
	if err := os.policy.Authorize(OrderActionView, actor, order); err != nil {
		return nil, err
	}
	return os.assembleView(ctx, nil, order)
}

func (os *orderService) assembleView(ctx context.Context, tx *gorm.DB, order *types.Order) (*dto.OrderView, error) {
	owner, err := os.userRepo.GetByID(ctx, tx, order.UserID)
	if err != nil {
		return nil, err
	}
	ownerName := ""
	if owner != nil {
		ownerName = owner.Name
	}
	view := dto.NewOrderView(order, ownerName)
	return &view, nil
}

func (os *orderService) ListAll(ctx context.Context, actorID uuid.UUID, page dto.PageRequest) (dto.Page[dto.OrderView], error) {
	page = page.Normalize()
	actor, err := os.loadActor(ctx, nil, actorID)
	if err != nil {
		return dto.Page[dto.OrderView]{}, err
	}
	if !actor.User.IsAdmin() {
		return dto.Page[dto.OrderView]{}, apierr.Unauthorized("only admins may list all orders")
	}
	orders, total, err := os.orderRepo.ListAll(ctx, nil, page)
	if err != nil {
		return dto.Page[dto.OrderView]{}, err
	}
	return os.viewsPage(ctx, orders, page, total)
}

func (os *orderService) ListMine(ctx context.Context, actorID uuid.UUID, page dto.PageRequest) (dto.Page[dto.OrderView], error) {
	page = page.Normalize()
	orders, total, err := os.orderRepo.ListByUser(ctx, nil, actorID, page)
	if err != nil {
		return dto.Page[dto.OrderView]{}, err
	}
	return os.viewsPage(ctx, orders, page, total)
}

func (os *orderService) ListByStatus(ctx context.Context, actorID uuid.UUID, status types.OrderStatus, page dto.PageRequest) (dto.Page[dto.OrderView], error) {
	page = page.Normalize()
	if !status.Valid() {
		return dto.Page[dto.OrderView]{}, apierr.Validation("unknown order status %q", status)
	}
	actor, err := os.loadActor(ctx, nil, actorID)
	if err != nil {
		return dto.Page[dto.OrderView]{}, err
	}
	if !actor.User.IsAdmin() {
		return dto.Page[dto.OrderView]{}, apierr.Unauthorized("only admins may list orders by status")
	}
	orders, total, err := os.orderRepo.ListByStatus(ctx, nil, status, page)
	if err != nil {
		return dto.Page[dto.OrderView]{}, err
	}
	return os.viewsPage(ctx, orders, page, total)
}

func (os *orderService) ListByStore(ctx context.Context, actorID, storeID uuid.UUID, status *types.OrderStatus, page dto.PageRequest) (dto.Page[dto.OrderView], error) {
	page = page.Normalize()
	if status != nil && !status.Valid() {
		return dto.Page[dto.OrderView]{}, apierr.Validation("unknown order status %q", *status)
	}
	actor, err := os.loadActor(ctx, nil, actorID)
	if err != nil {
		return dto.Page[dto.OrderView]{}, err
	}
	if !actor.User.IsAdmin() && !actor.OwnsStore(storeID) {
		return dto.Page[dto.OrderView]{}, apierr.Unauthorized("user %s does not own store %s", actorID, storeID)
	}
	orders, total, err := os.orderRepo.ListByStore(ctx, nil, storeID, status, page)
	if err != nil {
		return dto.Page[dto.OrderView]{}, err
	}
	return os.viewsPage(ctx, orders, page, total)
}

func (os *orderService) viewsPage(ctx context.Context, orders []*types.Order, page dto.PageRequest, total int64) (dto.Page[dto.OrderView], error) {
	views := make([]dto.OrderView, 0, len(orders))
	names := make(map[uuid.UUID]string)
	for _, order := range orders {
		name, ok := names[order.UserID]
		if !ok {
			owner, err := os.userRepo.GetByID(ctx, nil, order.UserID)
			if err != nil {
				return dto.Page[dto.OrderView]{}, err
			}
			if owner != nil {
				name = owner.Name
			}
			names[order.UserID] = name
		}
		views = append(views, dto.NewOrderView(order, name))
	}
	return dto.NewPage(views, page, total), nil
}

// mutate is the shared load -> authorize -> apply -> save skeleton for every
// order mutation. The whole thing runs in one transaction, so a failure at
// any step leaves no partial writes, and the optimistic version check in
// SaveAggregate rejects racing writers.
func (os *orderService) mutate(ctx context.Context, actorID, orderID uuid.UUID, action OrderAction, apply func(order *types.Order) error) (*dto.OrderView, error) {
	var view *dto.OrderView
	err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := os.orderRepo.GetByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apierr.NotFound("order %s not found", orderID)
		}
		actor, err := os.loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if err := os.policy.Authorize(action, actor, order); err != nil {
			return err
		}
		if err := apply(order); err != nil {
			return err
		}
		order.RecalculateTotals()
		if err := os.orderRepo.SaveAggregate(ctx, tx, order); err != nil {
			return err
		}
		v, err := os.assembleView(ctx, tx, order)
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (os *orderService) UpdateStatus(ctx context.Context, actorID, orderID uuid.UUID, req dto.UpdateOrderStatusRequest) (*dto.OrderView, error) {
	view, err := os.mutate(ctx, actorID, orderID, OrderActionUpdateStatus, func(order *types.Order) error {
		if err := order.Transition(req.Status); err != nil {
			return err
		}
		if req.Notes != "" {
			order.Notes = req.Notes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	os.log.Info("Order status updated", "order_id", orderID, "status", req.Status)
	return view, nil
}

func (os *orderService) UpdatePayment(ctx context.Context, actorID, orderID uuid.UUID, req dto.UpdatePaymentStatusRequest) (*dto.OrderView, error) {
	view, err := os.mutate(ctx, actorID, orderID, OrderActionUpdatePayment, func(order *types.Order) error {
		return order.ApplyPaymentUpdate(req.PaymentStatus, req.TransactionID, req.PaymentDetails, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	os.log.Info("Order payment updated", "order_id", orderID, "payment_status", req.PaymentStatus)
	return view, nil
}

func (os *orderService) UpdateShipping(ctx context.Context, actorID, orderID uuid.UUID, req dto.UpdateShippingInfoRequest) (*dto.OrderView, error) {
	view, err := os.mutate(ctx, actorID, orderID, OrderActionUpdateShipping, func(order *types.Order) error {
		return order.ApplyShippingUpdate(req.TrackingNumber, req.EstimatedDeliveryDate, req.ShippedDate, req.DeliveredDate)
	})
	if err != nil {
		return nil, err
	}
	os.log.Info("Order shipping updated", "order_id", orderID)
	return view, nil
}

func (os *orderService) Cancel(ctx context.Context, actorID, orderID uuid.UUID) error {
	_, err := os.mutate(ctx, actorID, orderID, OrderActionCancel, func(order *types.Order) error {
		return order.Cancel()
	})
	if err != nil {
		return err
	}
	os.log.Info("Order cancelled", "order_id", orderID, "actor_id", actorID)
	return nil
}
