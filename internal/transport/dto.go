// Package transport holds the JSON request and response shapes of the public
// API. Field names follow the client's camelCase contract.
package transport

import (
	"github.com/google/uuid"

	"github.com/kakamalem/marketplace/internal/models"
)

type RegisterRequest struct {
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ShippingAddress struct {
	AddressID *uuid.UUID `json:"addressId,omitempty"`

	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Line      string   `json:"line"`
	City      string   `json:"city"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type CreateOrderItem struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity"  validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	ShippingAddress ShippingAddress   `json:"shippingAddress"`
	PaymentMethod   string            `json:"paymentMethod" validate:"required"`
	Currency        string            `json:"currency"      validate:"required,len=3"`
	Items           []CreateOrderItem `json:"items"         validate:"required,min=1,dive"`
	GuestEmail      string            `json:"guestEmail"`
}

type CreateOrderResponse struct {
	Order models.Order `json:"order"`
}

type ReorderEntry struct {
	ID           uuid.UUID `json:"id"           validate:"required"`
	DisplayOrder int       `json:"displayOrder" validate:"gte=0"`
}

type ReorderProductsRequest struct {
	Products []ReorderEntry `json:"products" validate:"required,min=1,dive"`
}

type ReorderCategoriesRequest struct {
	Categories []ReorderEntry `json:"categories" validate:"required,min=1,dive"`
}

// ReorderRow reports one row's outcome so clients can roll back just the rows
// that failed instead of reverting the whole drag.
type ReorderRow struct {
	ID    uuid.UUID `json:"id"`
	OK    bool      `json:"ok"`
	Error string    `json:"error,omitempty"`
}

type ReorderResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Rows    []ReorderRow `json:"rows"`
}

type CreateStorefrontRequest struct {
	Name         string `json:"name"         validate:"required,min=3"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	ContactPhone string `json:"contactPhone"`
}

type UpdateStorefrontStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
}

type CreateProductRequest struct {
	Name        string      `json:"name"        validate:"required"`
	Description string      `json:"description"`
	Price       float64     `json:"price"       validate:"gte=0"`
	Stock       int         `json:"stock"       validate:"gte=0"`
	CategoryID  *uuid.UUID  `json:"categoryId"`
	StoreIDs    []uuid.UUID `json:"storeIds"`
}

type PatchProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity"  validate:"required,gt=0"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

type CreateAddressRequest struct {
	Label     string   `json:"label"`
	FirstName string   `json:"firstName" validate:"required"`
	LastName  string   `json:"lastName"  validate:"required"`
	Phone     string   `json:"phone"     validate:"required"`
	Line      string   `json:"line"      validate:"required"`
	City      string   `json:"city"`
	Latitude  *float64 `json:"latitude"  validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
