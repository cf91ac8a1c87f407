package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/marketplace-backend/internal/logger"
	"github.com/yungbote/marketplace-backend/internal/types"
)

type StoreRepo interface {
	Create(ctx context.Context, tx *gorm.DB, store *types.Store) error
	GetByID(ctx context.Context, tx *gorm.DB, storeID uuid.UUID) (*types.Store, error)
	GetByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Store, error)
	OwnedStoreIDs(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]uuid.UUID, error)
	NameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, store *types.Store) error
	UpsertAddress(ctx context.Context, tx *gorm.DB, address *types.StoreAddress) error
	List(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.Store, int64, error)
}

type storeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStoreRepo(db *gorm.DB, baseLog *logger.Logger) StoreRepo {
	return &storeRepo{db: db, log: baseLog.With("repo", "StoreRepo")}
}

func (sr *storeRepo) Create(ctx context.Context, tx *gorm.DB, store *types.Store) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).Create(store).Error
}

func (sr *storeRepo) GetByID(ctx context.Context, tx *gorm.DB, storeID uuid.UUID) (*types.Store, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var store types.Store
	err := transaction.WithContext(ctx).
		Preload("Address").
		First(&store, "id = ?", storeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (sr *storeRepo) GetByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Store, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var stores []*types.Store
	if err := transaction.WithContext(ctx).
		Preload("Address").
		Where("owner_id = ?", ownerID).
		Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

func (sr *storeRepo) OwnedStoreIDs(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.Store{}).
		Where("owner_id = ?", ownerID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (sr *storeRepo) NameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Store{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (sr *storeRepo) Update(ctx context.Context, tx *gorm.DB, store *types.Store) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).Save(store).Error
}

func (sr *storeRepo) UpsertAddress(ctx context.Context, tx *gorm.DB, address *types.StoreAddress) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var existing types.StoreAddress
	err := transaction.WithContext(ctx).First(&existing, "store_id = ?", address.StoreID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return transaction.WithContext(ctx).Create(address).Error
	}
	if err != nil {
		return err
	}
	address.ID = existing.ID
	address.CreatedAt = existing.CreatedAt
	return transaction.WithContext(ctx).Save(address).Error
}

func (sr *storeRepo) List(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.Store, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var total int64
	if err := transaction.WithContext(ctx).Model(&types.Store{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var stores []*types.Store
	if err := transaction.WithContext(ctx).
		Preload("Address").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&stores).Error; err != nil {
		return nil, 0, err
	}
	return stores, total, nil
}
