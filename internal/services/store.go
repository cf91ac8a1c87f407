package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/marketplace-backend/internal/dto"
	"github.com/yungbote/marketplace-backend/internal/logger"
	"github.com/yungbote/marketplace-backend/internal/normalization"
	"github.com/yungbote/marketplace-backend/internal/platform/apierr"
	"github.com/yungbote/marketplace-backend/internal/repos"
	"github.com/yungbote/marketplace-backend/internal/types"
)

type StoreService interface {
	CreateStore(ctx context.Context, ownerID uuid.UUID, req dto.CreateStoreRequest) (*types.Store, error)
	GetStore(ctx context.Context, storeID uuid.UUID) (*types.Store, error)
	ListStores(ctx context.Context, page dto.PageRequest) (dto.Page[*types.Store], error)
	MyStores(ctx context.Context, ownerID uuid.UUID) ([]*types.Store, error)
	UpdateStore(ctx context.Context, actorID, storeID uuid.UUID, req dto.UpdateStoreRequest) (*types.Store, error)
}

type storeService struct {
	db        *gorm.DB
	log       *logger.Logger
	storeRepo repos.StoreRepo
	userRepo  repos.UserRepo
	roleRepo  repos.RoleRepo
}

func NewStoreService(
	db *gorm.DB,
	log *logger.Logger,
	storeRepo repos.StoreRepo,
	userRepo repos.UserRepo,
	roleRepo repos.RoleRepo,
) StoreService {
	return &storeService{
		db:        db,
		log:       log.With("service", "StoreService"),
		storeRepo: storeRepo,
		userRepo:  userRepo,
		roleRepo:  roleRepo,
	}
}

// CreateStore opens a store for the user and grants the seller role if they
// do not hold it yet; opening your first store is how you become a seller.
func (ss *storeService) CreateStore(ctx context.Context, ownerID uuid.UUID, req dto.CreateStoreRequest) (*types.Store, error) {
	name := normalization.TrimInputString(req.Name)
	if name == "" {
		return nil, apierr.Validation("store name is required")
	}

	var store *types.Store
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner, err := ss.userRepo.GetByID(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		if owner == nil {
			return apierr.NotFound("user %s not found", ownerID)
		}
		taken, err := ss.storeRepo.NameExists(ctx, tx, name)
		if err != nil {
			return err
		}
		if taken {
			return apierr.Conflict("store name %q is already taken", name)
		}

		store = &types.Store{
			ID:          uuid.New(),
			Name:        name,
			Description: req.Description,
			LogoURL:     req.LogoURL,
			Status:      types.StoreStatusActive,
			OwnerID:     ownerID,
		}
		if req.Address != nil {
			store.Address = &types.StoreAddress{
				ID:           uuid.New(),
				StoreID:      store.ID,
				Street:       req.Address.Street,
				Number:       req.Address.Number,
				Complement:   req.Address.Complement,
				Neighborhood: req.Address.Neighborhood,
				City:         req.Address.City,
				State:        req.Address.State,
				ZipCode:      req.Address.ZipCode,
				Country:      req.Address.Country,
			}
		}
		if err := ss.storeRepo.Create(ctx, tx, store); err != nil {
			return err
		}

		if !owner.IsSeller() {
			role, err := ss.roleRepo.GetByName(ctx, tx, types.RoleSeller)
			if err != nil {
				return err
			}
			if role == nil {
				return apierr.NotFound("role %s is not seeded", types.RoleSeller)
			}
			if err := ss.userRepo.AddRole(ctx, tx, owner, role); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ss.log.Info("Store created", "store_id", store.ID, "owner_id", ownerID, "name", name)
	return store, nil
}

func (ss *storeService) GetStore(ctx context.Context, storeID uuid.UUID) (*types.Store, error) {
	store, err := ss.storeRepo.GetByID(ctx, nil, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apierr.NotFound("store %s not found", storeID)
	}
	return store, nil
}

func (ss *storeService) ListStores(ctx context.Context, page dto.PageRequest) (dto.Page[*types.Store], error) {
	page = page.Normalize()
	stores, total, err := ss.storeRepo.List(ctx, nil, page.Offset(), page.Size)
	if err != nil {
		return dto.Page[*types.Store]{}, err
	}
	return dto.NewPage(stores, page, total), nil
}

func (ss *storeService) MyStores(ctx context.Context, ownerID uuid.UUID) ([]*types.Store, error) {
	return ss.storeRepo.GetByOwner(ctx, nil, ownerID)
}

func (ss *storeService) UpdateStore(ctx context.Context, actorID, storeID uuid.UUID, req dto.UpdateStoreRequest) (*types.Store, error) {
	var store *types.Store
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		store, err = ss.storeRepo.GetByID(ctx, tx, storeID)
		if err != nil {
			return err
		}
		if store == nil {
			return apierr.NotFound("store %s not found", storeID)
		}
		actor, err := ss.userRepo.GetByID(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if actor == nil {
			return apierr.Unauthorized("unknown actor %s", actorID)
		}
		if store.OwnerID != actorID && !actor.IsAdmin() {
			return apierr.Unauthorized("user %s does not own store %s", actorID, storeID)
		}

		if req.Name != nil {
			name := normalization.TrimInputString(*req.Name)
			if name == "" {
				return apierr.Validation("store name must not be empty")
			}
			if name != store.Name {
				taken, err := ss.storeRepo.NameExists(ctx, tx, name)
				if err != nil {
					return err
				}
				if taken {
					return apierr.Conflict("store name %q is already taken", name)
				}
				store.Name = name
			}
		}
		if req.Description != nil {
			store.Description = *req.Description
		}
		if req.LogoURL != nil {
			store.LogoURL = *req.LogoURL
		}
		if req.Address != nil {
			address := &types.StoreAddress{
				StoreID:      store.ID,
				Street:       req.Address.Street,
				Number:       req.Address.Number,
				Complement:   req.Address.Complement,
				Neighborhood: req.Address.Neighborhood,
				City:         req.Address.City,
				State:        req.Address.State,
				ZipCode:      req.Address.ZipCode,
				Country:      req.Address.Country,
			}
			if err := ss.storeRepo.UpsertAddress(ctx, tx, address); err != nil {
				return err
			}
			store.Address = address
		}
		return ss.storeRepo.Update(ctx, tx, store)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}
