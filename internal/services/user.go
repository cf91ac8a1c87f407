package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/marketplace-backend/internal/logger"
	"github.com/yungbote/marketplace-backend/internal/normalization"
	"github.com/yungbote/marketplace-backend/internal/platform/apierr"
	"github.com/yungbote/marketplace-backend/internal/repos"
	"github.com/yungbote/marketplace-backend/internal/types"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, name, phone *string) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apierr.NotFound("user %s not found", userID)
	}
	return user, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, name, phone *string) (*types.User, error) {
	var user *types.User
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = us.userRepo.GetByID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return apierr.NotFound("user %s not found", userID)
		}
		if name != nil {
			trimmed := normalization.TrimInputString(*name)
			if trimmed == "" {
				return apierr.Validation("name must not be empty")
			}
			user.Name = trimmed
		}
		if phone != nil {
			user.Phone = normalization.TrimInputString(*phone)
		}
		return tx.WithContext(ctx).Save(user).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
