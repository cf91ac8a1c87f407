package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/marketplace-backend/internal/dto"
	"github.com/yungbote/marketplace-backend/internal/platform/apierr"
	"github.com/yungbote/marketplace-backend/internal/requestdata"
	"github.com/yungbote/marketplace-backend/internal/types"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.auth.RegisterUser(ctx, dto.RegisterRequest{
		Name:     "Maria Silva",
		Email:    "Maria@Example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "maria@example.com" {
		t.Errorf("email = %s, want lowercased", user.Email)
	}
	if user.Password == "supersecret" {
		t.Error("password must be stored hashed")
	}
	if !user.HasRole(types.RoleUser) {
		t.Error("new users should get the base role")
	}

	// Duplicate email.
	_, err = env.auth.RegisterUser(ctx, dto.RegisterRequest{
		Name:     "Other",
		Email:    "maria@example.com",
		Password: "supersecret",
	})
	if !apierr.Is(err, apierr.CodeConflict) {
		t.Errorf("duplicate email: err = %v, want conflict", err)
	}

	resp, err := env.auth.LoginUser(ctx, dto.LoginRequest{Email: "maria@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" || resp.TokenType != "Bearer" {
		t.Fatalf("login response = %+v, want bearer token", resp)
	}

	_, err = env.auth.LoginUser(ctx, dto.LoginRequest{Email: "maria@example.com", Password: "wrong"})
	if !apierr.Is(err, apierr.CodeUnauthorized) {
		t.Errorf("wrong password: err = %v, want unauthorized", err)
	}
	_, err = env.auth.LoginUser(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "supersecret"})
	if !apierr.Is(err, apierr.CodeUnauthorized) {
		t.Errorf("unknown email: err = %v, want unauthorized", err)
	}

	authedCtx, err := env.auth.SetContextFromToken(ctx, resp.AccessToken)
	if err != nil {
		t.Fatalf("set context from token: %v", err)
	}
	rd := requestdata.GetRequestData(authedCtx)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("request data = %+v, want user id %s", rd, user.ID)
	}
	if !rd.HasRole(types.RoleUser) {
		t.Error("roles should round-trip through the token")
	}

	if _, err := env.auth.SetContextFromToken(ctx, "not-a-token"); !apierr.Is(err, apierr.CodeUnauthorized) {
		t.Errorf("garbage token: err = %v, want unauthorized", err)
	}
}

func TestCreateStoreGrantsSellerRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "shopkeeper")

	store, err := env.stores.CreateStore(ctx, user.ID, dto.CreateStoreRequest{Name: "corner-shop"})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if store.OwnerID != user.ID {
		t.Errorf("owner = %s, want %s", store.OwnerID, user.ID)
	}
	if store.Status != types.StoreStatusActive {
		t.Errorf("status = %s, want ACTIVE", store.Status)
	}

	reloaded, err := env.userRepo.GetByID(ctx, nil, user.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload user: %v", err)
	}
	if !reloaded.IsSeller() {
		t.Error("store owner should be granted the seller role")
	}

	// Store names are unique marketplace-wide.
	_, err = env.stores.CreateStore(ctx, user.ID, dto.CreateStoreRequest{Name: "corner-shop"})
	if !apierr.Is(err, apierr.CodeConflict) {
		t.Errorf("duplicate store name: err = %v, want conflict", err)
	}

	_, err = env.stores.CreateStore(ctx, uuid.New(), dto.CreateStoreRequest{Name: "ghost-shop"})
	if !apierr.Is(err, apierr.CodeNotFound) {
		t.Errorf("unknown owner: err = %v, want not_found", err)
	}
}
