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

type CategoryService interface {
	CreateCategory(ctx context.Context, actorID uuid.UUID, req dto.CreateCategoryRequest) (*types.Category, error)
	GetCategory(ctx context.Context, categoryID uuid.UUID) (*types.Category, error)
	ListRoots(ctx context.Context) ([]*types.Category, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]*types.Category, error)
}

type categoryService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo repos.CategoryRepo
	userRepo     repos.UserRepo
}

func NewCategoryService(db *gorm.DB, log *logger.Logger, categoryRepo repos.CategoryRepo, userRepo repos.UserRepo) CategoryService {
	return &categoryService{
		db:           db,
		log:          log.With("service", "CategoryService"),
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
	}
}

// CreateCategory is admin-only; the category tree is curated, not
// seller-managed.
func (cs *categoryService) CreateCategory(ctx context.Context, actorID uuid.UUID, req dto.CreateCategoryRequest) (*types.Category, error) {
	name := normalization.TrimInputString(req.Name)
	if name == "" {
		return nil, apierr.Validation("category name is required")
	}

	var category *types.Category
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := cs.userRepo.GetByID(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if actor == nil || !actor.IsAdmin() {
			return apierr.Unauthorized("only admins may manage categories")
		}
		if req.ParentID != nil {
			parent, err := cs.categoryRepo.GetByID(ctx, tx, *req.ParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return apierr.NotFound("parent category %s not found", *req.ParentID)
			}
		}
		category = &types.Category{
			ID:          uuid.New(),
			Name:        name,
			Description: req.Description,
			ParentID:    req.ParentID,
		}
		return cs.categoryRepo.Create(ctx, tx, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (cs *categoryService) GetCategory(ctx context.Context, categoryID uuid.UUID) (*types.Category, error) {
	category, err := cs.categoryRepo.GetByID(ctx, nil, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apierr.NotFound("category %s not found", categoryID)
	}
	return category, nil
}

func (cs *categoryService) ListRoots(ctx context.Context) ([]*types.Category, error) {
	return cs.categoryRepo.ListRoots(ctx, nil)
}

func (cs *categoryService) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*types.Category, error) {
	return cs.categoryRepo.ListChildren(ctx, nil, parentID)
}
