package dto

import (
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type CreateStoreRequest struct {
	Name        string                     `json:"name" binding:"required"`
	Description string                     `json:"description"`
	LogoURL     string                     `json:"logo_url"`
	Address     *CreateStoreAddressRequest `json:"address"`
}

type UpdateStoreRequest struct {
	Name        *string                    `json:"name"`
	Description *string                    `json:"description"`
	LogoURL     *string                    `json:"logo_url"`
	Address     *CreateStoreAddressRequest `json:"address"`
}

type CreateStoreAddressRequest struct {
	Street       string `json:"street" binding:"required"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	ZipCode      string `json:"zip_code" binding:"required"`
	Country      string `json:"country" binding:"required"`
}

type CreateProductRequest struct {
	Name          string     `json:"name" binding:"required"`
	Description   string     `json:"description"`
	SKU           string     `json:"sku" binding:"required"`
	Price         string     `json:"price" binding:"required"`
	StockQuantity int        `json:"stock_quantity"`
	StoreID       uuid.UUID  `json:"store_id" binding:"required"`
	CategoryID    *uuid.UUID `json:"category_id"`
}

type UpdateProductRequest struct {
	Name          *string    `json:"name"`
	Description   *string    `json:"description"`
	Price         *string    `json:"price"`
	StockQuantity *int       `json:"stock_quantity"`
	CategoryID    *uuid.UUID `json:"category_id"`
}

type CreateCategoryRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
}
