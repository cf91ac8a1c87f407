package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/marketplace-backend/internal/db"
	"github.com/yungbote/marketplace-backend/internal/dto"
	"github.com/yungbote/marketplace-backend/internal/logger"
	"github.com/yungbote/marketplace-backend/internal/money"
	"github.com/yungbote/marketplace-backend/internal/repos"
	"github.com/yungbote/marketplace-backend/internal/types"
)

// testEnv wires the full service stack against an in-memory sqlite database.
type testEnv struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  repos.UserRepo
	roleRepo  repos.RoleRepo
	storeRepo repos.StoreRepo
	prodRepo  repos.ProductRepo
	catRepo   repos.CategoryRepo
	orderRepo repos.OrderRepo
	orders    OrderService
	analytics AnalyticsService
	auth      AuthService
	stores    StoreService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// A named shared-cache DSN keeps the database alive across pooled
	// connections for the duration of the test.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(func() { log.Sync() })

	env := &testEnv{
		db:        gdb,
		log:       log,
		userRepo:  repos.NewUserRepo(gdb, log),
		roleRepo:  repos.NewRoleRepo(gdb, log),
		storeRepo: repos.NewStoreRepo(gdb, log),
		prodRepo:  repos.NewProductRepo(gdb, log),
		catRepo:   repos.NewCategoryRepo(gdb, log),
		orderRepo: repos.NewOrderRepo(gdb, log),
	}
	if err := env.roleRepo.EnsureAll(context.Background(), nil,
		[]string{types.RoleUser, types.RoleSeller, types.RoleAdmin}); err != nil {
		t.Fatalf("seed roles: %v", err)
	}

	policy := NewOrderPolicy()
	env.orders = NewOrderService(gdb, log, DefaultOrderConfig(), env.orderRepo, env.prodRepo, env.userRepo, env.storeRepo, policy)
	env.analytics = NewAnalyticsService(log, env.orderRepo, env.userRepo, env.storeRepo, nil, 0)
	env.auth = NewAuthService(gdb, log, env.userRepo, env.roleRepo, "test-secret", time.Hour)
	env.stores = NewStoreService(gdb, log, env.storeRepo, env.userRepo, env.roleRepo)
	return env
}

func (e *testEnv) createUser(t *testing.T, name string, roleNames ...string) *types.User {
	t.Helper()
	ctx := context.Background()
	if len(roleNames) == 0 {
		roleNames = []string{types.RoleUser}
	}
	roles := make([]types.Role, 0, len(roleNames))
	for _, rn := range roleNames {
		role, err := e.roleRepo.GetByName(ctx, nil, rn)
		if err != nil || role == nil {
			t.Fatalf("role %s: %v", rn, err)
		}
		roles = append(roles, *role)
	}
	user := &types.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    strings.ToLower(name) + "@example.com",
		Password: "hashed",
		Roles:    roles,
	}
	if err := e.userRepo.Create(ctx, nil, user); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user
}

func (e *testEnv) createStore(t *testing.T, owner *types.User, name string) *types.Store {
	t.Helper()
	store := &types.Store{
		ID:      uuid.New(),
		Name:    name,
		Status:  types.StoreStatusActive,
		OwnerID: owner.ID,
	}
	if err := e.storeRepo.Create(context.Background(), nil, store); err != nil {
		t.Fatalf("create store %s: %v", name, err)
	}
	return store
}

func (e *testEnv) createProduct(t *testing.T, store *types.Store, name, sku, price string) *types.Product {
	t.Helper()
	product := &types.Product{
		ID:            uuid.New(),
		Name:          name,
		SKU:           sku,
		Price:         money.MustFromString(price),
		StockQuantity: 100,
		Status:        types.ProductStatusActive,
		StoreID:       store.ID,
	}
	if err := e.prodRepo.Create(context.Background(), nil, product); err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return product
}

func (e *testEnv) placeOrder(t *testing.T, buyer *types.User, items ...dto.CreateOrderItemRequest) *dto.OrderView {
	t.Helper()
	view, err := e.orders.CreateOrder(context.Background(), buyer.ID, dto.CreateOrderRequest{
		Items: items,
		ShippingInfo: dto.CreateShippingInfoRequest{
			RecipientName: buyer.Name,
			Street:        "Rua das Flores",
			City:          "Sao Paulo",
			State:         "SP",
			ZipCode:       "01000-000",
			Country:       "BR",
		},
		PaymentMethod: types.PaymentMethodPix,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return view
}
