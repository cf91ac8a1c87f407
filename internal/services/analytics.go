package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/yungbote/marketplace-backend/internal/clients/redis"
	"github.com/yungbote/marketplace-backend/internal/dto"
	"github.com/yungbote/marketplace-backend/internal/logger"
	"github.com/yungbote/marketplace-backend/internal/money"
	"github.com/yungbote/marketplace-backend/internal/platform/apierr"
	"github.com/yungbote/marketplace-backend/internal/repos"
	"github.com/yungbote/marketplace-backend/internal/types"
)

// AnalyticsService aggregates order history into dashboard figures. All
// aggregation runs over the snapshotted line items, so figures stay stable
// when the catalog changes after the fact.
type AnalyticsService interface {
	OrderSummary(ctx context.Context, actorID uuid.UUID, start, end time.Time) (*dto.OrderSummary, error)
	StoreSummary(ctx context.Context, actorID, storeID uuid.UUID, start, end time.Time) (*dto.StoreSales, error)
	TopStores(ctx context.Context, actorID uuid.UUID, start, end time.Time, limit int) ([]dto.StoreSales, error)
	TopProducts(ctx context.Context, actorID uuid.UUID, start, end time.Time, limit int) ([]dto.ProductSales, error)
}

type analyticsService struct {
	log       *logger.Logger
	orderRepo repos.OrderRepo
	userRepo  repos.UserRepo
	storeRepo repos.StoreRepo
	cache     *redisclient.Cache
	cacheTTL  time.Duration
}

func NewAnalyticsService(
	log *logger.Logger,
	orderRepo repos.OrderRepo,
	userRepo repos.UserRepo,
	storeRepo repos.StoreRepo,
	cache *redisclient.Cache,
	cacheTTL time.Duration,
) AnalyticsService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &analyticsService{
		log:       log.With("service", "AnalyticsService"),
		orderRepo: orderRepo,
		userRepo:  userRepo,
		storeRepo: storeRepo,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

func (as *analyticsService) requireAdmin(ctx context.Context, tx *gorm.DB, actorID uuid.UUID) error {
	user, err := as.userRepo.GetByID(ctx, tx, actorID)
	if err != nil {
		return err
	}
	if user == nil || !user.IsAdmin() {
		return apierr.Unauthorized("analytics are restricted to admins")
	}
	return nil
}

func normalizeRange(start, end time.Time) (time.Time, time.Time, error) {
	if end.IsZero() {
		end = time.Now().UTC()
	}
	if start.IsZero() {
		start = end.AddDate(0, -12, 0)
	}
	if !start.Before(end) {
		return start, end, apierr.Validation("start date must be before end date")
	}
	return start, end, nil
}

// OrderSummary is the admin dashboard headline: order count, revenue, the
// average order value (half-up at two decimals) and the status/month
// breakdowns. The result is cached per range.
func (as *analyticsService) OrderSummary(ctx context.Context, actorID uuid.UUID, start, end time.Time) (*dto.OrderSummary, error) {
	if err := as.requireAdmin(ctx, nil, actorID); err != nil {
		return nil, err
	}
	start, end, err := normalizeRange(start, end)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("analytics:summary:%d:%d", start.Unix(), end.Unix())
	var cached dto.OrderSummary
	hit, err := as.cache.GetJSON(ctx, cacheKey, &cached)
	if err != nil {
		as.log.Warn("Cache read failed, recomputing", "key", cacheKey, "error", err)
	} else if hit {
		return &cached, nil
	}

	orders, err := as.orderRepo.ListInDateRange(ctx, nil, start, end)
	if err != nil {
		return nil, err
	}

	summary := dto.OrderSummary{
		TotalOrders:    int64(len(orders)),
		TotalRevenue:   money.Zero(),
		OrdersByStatus: make(map[types.OrderStatus]int64),
		OrdersByMonth:  make(map[string]int64),
	}
	for _, order := range orders {
		summary.TotalRevenue = summary.TotalRevenue.Add(order.Total)
		summary.OrdersByStatus[order.Status]++
		summary.OrdersByMonth[order.CreatedAt.Format("2006-01")]++
	}
	if summary.TotalOrders > 0 {
		avg, err := summary.TotalRevenue.DivRound(summary.TotalOrders)
		if err != nil {
			return nil, err
		}
		summary.AverageOrderValue = avg
	} else {
		summary.AverageOrderValue = money.Zero()
	}

	if err := as.cache.SetJSON(ctx, cacheKey, summary, as.cacheTTL); err != nil {
		as.log.Warn("Cache write failed", "key", cacheKey, "error", err)
	}
	return &summary, nil
}

// StoreSummary reports one store's sales over the range: orders containing at
// least one of the store's line items, revenue counted over those line items
// only. Open to the store owner and admins.
func (as *analyticsService) StoreSummary(ctx context.Context, actorID, storeID uuid.UUID, start, end time.Time) (*dto.StoreSales, error) {
	user, err := as.userRepo.GetByID(ctx, nil, actorID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apierr.Unauthorized("unknown actor %s", actorID)
	}
	if !user.IsAdmin() {
		owned, err := as.storeRepo.OwnedStoreIDs(ctx, nil, actorID)
		if err != nil {
			return nil, err
		}
		owns := false
		for _, id := range owned {
			if id == storeID {
				owns = true
				break
			}
		}
		if !owns {
			return nil, apierr.Unauthorized("user %s does not own store %s", actorID, storeID)
		}
	}
	start, end, err = normalizeRange(start, end)
	if err != nil {
		return nil, err
	}

	store, err := as.storeRepo.GetByID(ctx, nil, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apierr.NotFound("store %s not found", storeID)
	}

	orders, err := as.orderRepo.ListInDateRange(ctx, nil, start, end)
	if err != nil {
		return nil, err
	}

	sales := dto.StoreSales{
		StoreID:      storeID,
		StoreName:    store.Name,
		TotalRevenue: money.Zero(),
	}
	for _, order := range orders {
		inOrder := false
		for _, item := range order.Items {
			if item.StoreID == storeID {
				inOrder = true
				sales.TotalRevenue = sales.TotalRevenue.Add(item.Subtotal)
			}
		}
		if inOrder {
			sales.TotalOrders++
		}
	}
	return &sales, nil
}

func (as *analyticsService) TopStores(ctx context.Context, actorID uuid.UUID, start, end time.Time, limit int) ([]dto.StoreSales, error) {
	if err := as.requireAdmin(ctx, nil, actorID); err != nil {
		return nil, err
	}
	start, end, err := normalizeRange(start, end)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	orders, err := as.orderRepo.ListInDateRange(ctx, nil, start, end)
	if err != nil {
		return nil, err
	}

	byStore := make(map[uuid.UUID]*dto.StoreSales)
	ordersSeen := make(map[uuid.UUID]map[uuid.UUID]bool)
	for _, order := range orders {
		for _, item := range order.Items {
			entry, ok := byStore[item.StoreID]
			if !ok {
				entry = &dto.StoreSales{
					StoreID:      item.StoreID,
					StoreName:    item.StoreName,
					TotalRevenue: money.Zero(),
				}
				byStore[item.StoreID] = entry
				ordersSeen[item.StoreID] = make(map[uuid.UUID]bool)
			}
			entry.TotalRevenue = entry.TotalRevenue.Add(item.Subtotal)
			if !ordersSeen[item.StoreID][order.ID] {
				ordersSeen[item.StoreID][order.ID] = true
				entry.TotalOrders++
			}
		}
	}

	ranked := make([]dto.StoreSales, 0, len(byStore))
	for _, entry := range byStore {
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].TotalRevenue.Cmp(ranked[j].TotalRevenue) > 0
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (as *analyticsService) TopProducts(ctx context.Context, actorID uuid.UUID, start, end time.Time, limit int) ([]dto.ProductSales, error) {
	if err := as.requireAdmin(ctx, nil, actorID); err != nil {
		return nil, err
	}
	start, end, err := normalizeRange(start, end)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	orders, err := as.orderRepo.ListInDateRange(ctx, nil, start, end)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[uuid.UUID]*dto.ProductSales)
	for _, order := range orders {
		for _, item := range order.Items {
			entry, ok := byProduct[item.ProductID]
			if !ok {
				entry = &dto.ProductSales{
					ProductID:    item.ProductID,
					ProductName:  item.ProductName,
					TotalRevenue: money.Zero(),
				}
				byProduct[item.ProductID] = entry
			}
			entry.QuantitySold += int64(item.Quantity)
			entry.TotalRevenue = entry.TotalRevenue.Add(item.Subtotal)
		}
	}

	ranked := make([]dto.ProductSales, 0, len(byProduct))
	for _, entry := range byProduct {
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].QuantitySold - ranked[j].QuantitySold; c != 0 {
			return c > 0
		}
		return ranked[i].TotalRevenue.Cmp(ranked[j].TotalRevenue) > 0
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
