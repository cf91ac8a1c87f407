package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/marketplace-backend/internal/dto"
	"github.com/yungbote/marketplace-backend/internal/logger"
	"github.com/yungbote/marketplace-backend/internal/money"
	"github.com/yungbote/marketplace-backend/internal/normalization"
	"github.com/yungbote/marketplace-backend/internal/platform/apierr"
	"github.com/yungbote/marketplace-backend/internal/repos"
	"github.com/yungbote/marketplace-backend/internal/types"
)

type ProductService interface {
	CreateProduct(ctx context.Context, actorID uuid.UUID, req dto.CreateProductRequest) (*types.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*types.Product, error)
	UpdateProduct(ctx context.Context, actorID, productID uuid.UUID, req dto.UpdateProductRequest) (*types.Product, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, page dto.PageRequest) (dto.Page[*types.Product], error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID, page dto.PageRequest) (dto.Page[*types.Product], error)
}

type productService struct {
	db           *gorm.DB
	log          *logger.Logger
	productRepo  repos.ProductRepo
	categoryRepo repos.CategoryRepo
	storeRepo    repos.StoreRepo
	userRepo     repos.UserRepo
}

func NewProductService(
	db *gorm.DB,
	log *logger.Logger,
	productRepo repos.ProductRepo,
	categoryRepo repos.CategoryRepo,
	storeRepo repos.StoreRepo,
	userRepo repos.UserRepo,
) ProductService {
	return &productService{
		db:           db,
		log:          log.With("service", "ProductService"),
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		storeRepo:    storeRepo,
		userRepo:     userRepo,
	}
}

func (ps *productService) requireStoreOwner(ctx context.Context, tx *gorm.DB, actorID, storeID uuid.UUID) error {
	actor, err := ps.userRepo.GetByID(ctx, tx, actorID)
	if err != nil {
		return err
	}
	if actor == nil {
		return apierr.Unauthorized("unknown actor %s", actorID)
	}
	if actor.IsAdmin() {
		return nil
	}
	store, err := ps.storeRepo.GetByID(ctx, tx, storeID)
	if err != nil {
		return err
	}
	if store == nil {
		return apierr.NotFound("store %s not found", storeID)
	}
	if store.OwnerID != actorID {
		return apierr.Unauthorized("user %s does not own store %s", actorID, storeID)
	}
	return nil
}

func (ps *productService) CreateProduct(ctx context.Context, actorID uuid.UUID, req dto.CreateProductRequest) (*types.Product, error) {
	name := normalization.TrimInputString(req.Name)
	if name == "" {
		return nil, apierr.Validation("product name is required")
	}
	sku := normalization.TrimInputString(req.SKU)
	if sku == "" {
		return nil, apierr.Validation("sku is required")
	}
	price, err := money.FromString(req.Price)
	if err != nil {
		return nil, apierr.Validation("invalid price %q", req.Price)
	}
	if price.IsNegative() {
		return nil, apierr.Validation("price must not be negative")
	}
	if req.StockQuantity < 0 {
		return nil, apierr.Validation("stock quantity must not be negative")
	}

	var product *types.Product
	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ps.requireStoreOwner(ctx, tx, actorID, req.StoreID); err != nil {
			return err
		}
		taken, err := ps.productRepo.SKUExists(ctx, tx, sku)
		if err != nil {
			return err
		}
		if taken {
			return apierr.Conflict("sku %q is already in use", sku)
		}
		if req.CategoryID != nil {
			category, err := ps.categoryRepo.GetByID(ctx, tx, *req.CategoryID)
			if err != nil {
				return err
			}
			if category == nil {
				return apierr.NotFound("category %s not found", *req.CategoryID)
			}
		}
		product = &types.Product{
			ID:            uuid.New(),
			Name:          name,
			Description:   req.Description,
			SKU:           sku,
			Price:         price,
			StockQuantity: req.StockQuantity,
			Status:        types.ProductStatusActive,
			StoreID:       req.StoreID,
			CategoryID:    req.CategoryID,
		}
		return ps.productRepo.Create(ctx, tx, product)
	})
	if err != nil {
		return nil, err
	}
	ps.log.Info("Product created", "product_id", product.ID, "store_id", req.StoreID, "sku", sku)
	return product, nil
}

func (ps *productService) GetProduct(ctx context.Context, productID uuid.UUID) (*types.Product, error) {
	product, err := ps.productRepo.GetByID(ctx, nil, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apierr.NotFound("product %s not found", productID)
	}
	return product, nil
}

func (ps *productService) UpdateProduct(ctx context.Context, actorID, productID uuid.UUID, req dto.UpdateProductRequest) (*types.Product, error) {
	var product *types.Product
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = ps.productRepo.GetByID(ctx, tx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return apierr.NotFound("product %s not found", productID)
		}
		if err := ps.requireStoreOwner(ctx, tx, actorID, product.StoreID); err != nil {
			return err
		}

		if req.Name != nil {
			name := normalization.TrimInputString(*req.Name)
			if name == "" {
				return apierr.Validation("product name must not be empty")
			}
			product.Name = name
		}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.Price != nil {
			price, err := money.FromString(*req.Price)
			if err != nil {
				return apierr.Validation("invalid price %q", *req.Price)
			}
			if price.IsNegative() {
				return apierr.Validation("price must not be negative")
			}
			product.Price = price
		}
		if req.StockQuantity != nil {
			if *req.StockQuantity < 0 {
				return apierr.Validation("stock quantity must not be negative")
			}
			product.StockQuantity = *req.StockQuantity
		}
		if req.CategoryID != nil {
			category, err := ps.categoryRepo.GetByID(ctx, tx, *req.CategoryID)
			if err != nil {
				return err
			}
			if category == nil {
				return apierr.NotFound("category %s not found", *req.CategoryID)
			}
			product.CategoryID = req.CategoryID
		}
		return ps.productRepo.Update(ctx, tx, product)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (ps *productService) ListByStore(ctx context.Context, storeID uuid.UUID, page dto.PageRequest) (dto.Page[*types.Product], error) {
	page = page.Normalize()
	products, total, err := ps.productRepo.ListByStore(ctx, nil, storeID, page.Offset(), page.Size)
	if err != nil {
		return dto.Page[*types.Product]{}, err
	}
	return dto.NewPage(products, page, total), nil
}

func (ps *productService) ListByCategory(ctx context.Context, categoryID uuid.UUID, page dto.PageRequest) (dto.Page[*types.Product], error) {
	page = page.Normalize()
	products, total, err := ps.productRepo.ListByCategory(ctx, nil, categoryID, page.Offset(), page.Size)
	if err != nil {
		return dto.Page[*types.Product]{}, err
	}
	return dto.NewPage(products, page, total), nil
}
