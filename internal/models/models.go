package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

const (
	StorefrontStatusPendingReview = "pending_review"
	StorefrontStatusActive        = "active"
	StorefrontStatusSuspended     = "suspended"
	StorefrontStatusInactive      = "inactive"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"  json:"id"`
	Email        string         `gorm:"uniqueIndex;not null"  json:"email"`
	PasswordHash string         `gorm:"not null"              json:"-"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	Roles        pq.StringArray `gorm:"type:text[];not null"  json:"roles"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) PK() uuid.UUID { return u.ID }

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"               json:"id"`
	Token     string    `gorm:"uniqueIndex;not null"     json:"token"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"                 json:"expires_at"`
	Revoked   bool      `gorm:"default:false"            json:"revoked"`
}

type Storefront struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"           json:"id"`
	SellerID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"seller_id"`
	Name         string    `gorm:"not null"                       json:"name"`
	Slug         string    `gorm:"uniqueIndex;not null"           json:"slug"`
	Description  string    `json:"description"`
	ContactPhone string    `json:"contact_phone"`
	Status       string    `gorm:"not null;default:pending_review" json:"status"`
	ViewCount    int64     `gorm:"default:0"                      json:"view_count"`
	VisitorCount int64     `gorm:"default:0"                      json:"visitor_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (s *Storefront) PK() uuid.UUID { return s.ID }

func (s *Storefront) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type Category struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"not null"             json:"name"`
	Slug         string    `gorm:"uniqueIndex;not null" json:"slug"`
	DisplayOrder int       `gorm:"default:0"            json:"display_order"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey"     json:"id"`
	Name         string       `gorm:"not null"                 json:"name"`
	Slug         string       `gorm:"uniqueIndex;not null"     json:"slug"`
	Description  string       `json:"description"`
	Price        float64      `gorm:"not null"                 json:"price"`
	Stock        int          `gorm:"default:0"                json:"stock"`
	DisplayOrder int          `gorm:"default:0"                json:"display_order"`
	SellerID     *uuid.UUID   `gorm:"type:uuid;index"          json:"seller_id,omitempty"`
	Seller       *User        `gorm:"foreignKey:SellerID"      json:"seller,omitempty"`
	CategoryID   *uuid.UUID   `gorm:"type:uuid;index"          json:"category_id,omitempty"`
	Stores       []Storefront `gorm:"many2many:product_stores" json:"stores,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (p *Product) PK() uuid.UUID { return p.ID }

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Order struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey"     json:"id"`
	UserID        *uuid.UUID    `gorm:"type:uuid;index"          json:"user_id,omitempty"`
	GuestEmail    *string       `gorm:"index"                    json:"guest_email,omitempty"`
	Status        string        `gorm:"not null;default:pending" json:"status"`
	PaymentStatus string        `gorm:"not null;default:pending" json:"payment_status"`
	PaymentMethod string        `gorm:"not null"                 json:"payment_method"`
	Currency      string        `gorm:"not null"                 json:"currency"`
	ShippingCost  float64       `json:"shipping_cost"`
	Subtotal      float64       `json:"subtotal"`
	Total         float64       `json:"total"`
	Shipping      OrderShipping `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping"`
	Items         []OrderItem   `gorm:"foreignKey:OrderID"       json:"items"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// OrderShipping is the address snapshot taken at checkout. Orders keep their
// own copy so later edits to the address book never rewrite order history.
type OrderShipping struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Line      string   `json:"line"`
	City      string   `json:"city"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"      json:"id"`
	OrderID         uuid.UUID  `gorm:"type:uuid;index;not null"  json:"order_id"`
	ProductID       uuid.UUID  `gorm:"type:uuid;not null"        json:"product_id"`
	Product         *Product   `gorm:"foreignKey:ProductID"      json:"product,omitempty"`
	ProductSellerID *uuid.UUID `gorm:"type:uuid;index"           json:"product_seller_id,omitempty"`
	ProductSeller   *User      `gorm:"foreignKey:ProductSellerID" json:"product_seller,omitempty"`
	ProductName     string     `json:"product_name"`
	Quantity        int        `gorm:"not null;check:quantity>0" json:"quantity"`
	UnitPrice       float64    `gorm:"not null"                  json:"unit_price"`
	LineTotal       float64    `gorm:"not null"                  json:"line_total"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey"                  json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"    json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"          json:"product_id"`
	Quantity  int       `gorm:"default:1;check:quantity>0"  json:"quantity"`
}

type Address struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Label     string    `json:"label"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Line      string    `json:"line"`
	City      string    `json:"city"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
