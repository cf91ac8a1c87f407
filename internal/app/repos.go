package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/marketplace-backend/internal/logger"
	"github.com/yungbote/marketplace-backend/internal/repos"
)

type Repos struct {
	User     repos.UserRepo
	Role     repos.RoleRepo
	Store    repos.StoreRepo
	Product  repos.ProductRepo
	Category repos.CategoryRepo
	Order    repos.OrderRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:     repos.NewUserRepo(db, log),
		Role:     repos.NewRoleRepo(db, log),
		Store:    repos.NewStoreRepo(db, log),
		Product:  repos.NewProductRepo(db, log),
		Category: repos.NewCategoryRepo(db, log),
		Order:    repos.NewOrderRepo(db, log),
	}
}
