package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kakamalem/marketplace/internal/checkout"
	"github.com/kakamalem/marketplace/internal/logging"
	"github.com/kakamalem/marketplace/internal/mail"
	"github.com/kakamalem/marketplace/internal/models"
	"github.com/kakamalem/marketplace/internal/mykafka"
	"github.com/kakamalem/marketplace/internal/ownership"
	"github.com/kakamalem/marketplace/internal/repo"
	"github.com/kakamalem/marketplace/internal/transport"
)

// ShippingPolicy is the marketplace-wide fee policy applied at checkout.
type ShippingPolicy struct {
	Mode      checkout.ShippingMode
	Fee       float64
	Threshold float64
}

type OrderService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
	Mail     *mail.Client
	Shipping ShippingPolicy
}

// Legal lifecycle moves. Orders are immutable after creation except these two
// status columns.
var orderStatusTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
}

var paymentStatusTransitions = map[string][]string{
	models.PaymentStatusPending: {models.PaymentStatusPaid, models.PaymentStatusFailed, models.PaymentStatusRefunded},
	models.PaymentStatusPaid:    {models.PaymentStatusRefunded},
}

func transitionAllowed(table map[string][]string, from, to string) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CreateOrder validates the submission the same way the checkout wizard's
// shipping step does, prices every line from the database, snapshots product
// name and seller onto the items, and persists the order. The confirmation
// email and the order_created event are best-effort.
func (s *OrderService) CreateOrder(ctx context.Context, req transport.CreateOrderRequest, userID *uuid.UUID) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create_order")

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}
	if !checkout.PaymentMethodAvailable(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: payment method %q is not available", ErrValidation, req.PaymentMethod)
	}

	shipping, guestEmail, err := s.resolveShipping(ctx, req, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		ids = append(ids, it.ProductID)
	}
	products, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var subtotal float64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		product, ok := byID[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown product %s", ErrValidation, it.ProductID)
		}

		lineTotal := float64(it.Quantity) * product.Price
		items = append(items, models.OrderItem{
			ProductID:       product.ID,
			ProductSellerID: product.SellerID,
			ProductName:     product.Name,
			Quantity:        it.Quantity,
			UnitPrice:       product.Price,
			LineTotal:       lineTotal,
		})
		subtotal += lineTotal
	}

	shippingCost := checkout.ShippingCost(s.Shipping.Mode, subtotal, s.Shipping.Threshold, s.Shipping.Fee)

	order := models.Order{
		UserID:        userID,
		GuestEmail:    guestEmail,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: req.PaymentMethod,
		Currency:      strings.ToUpper(req.Currency),
		ShippingCost:  shippingCost,
		Subtotal:      subtotal,
		Total:         subtotal + shippingCost,
		Shipping:      *shipping,
		Items:         items,
	}
	if err := s.Repo.CreateOrder(ctx, &order); err != nil {
		return nil, err
	}

	if userID != nil {
		if err := s.Repo.ClearCart(ctx, *userID); err != nil {
			l.Warn("cart_not_cleared", "error", err)
		}
	}

	if err := s.Producer.PublishEvent(ctx, mykafka.TopicOrderEvents, order.ID.String(), map[string]any{
		"type":     "order_created",
		"order_id": order.ID,
		"total":    order.Total,
		"currency": order.Currency,
	}); err != nil {
		l.Warn("order_event_not_published", "error", err)
	}

	if to := order.Shipping.Email; to != "" {
		s.Mail.SendOrderConfirmation(ctx, to, order)
	}

	l.Info("create_order_success", "order_id", order.ID, "total", order.Total)
	return &order, nil
}

func (s *OrderService) resolveShipping(ctx context.Context, req transport.CreateOrderRequest, userID *uuid.UUID) (*models.OrderShipping, *string, error) {
	in := checkout.ShippingInput{
		AddressID: req.ShippingAddress.AddressID,
		FirstName: req.ShippingAddress.FirstName,
		LastName:  req.ShippingAddress.LastName,
		Email:     req.ShippingAddress.Email,
		Phone:     req.ShippingAddress.Phone,
		Latitude:  req.ShippingAddress.Latitude,
		Longitude: req.ShippingAddress.Longitude,
	}

	if userID != nil {
		if err := checkout.ValidateShipping(in, true); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		address, err := s.Repo.AddressByID(ctx, *in.AddressID, *userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, fmt.Errorf("%w: shipping address not found", ErrValidation)
			}
			return nil, nil, err
		}
		user, err := s.Repo.UserByID(ctx, *userID)
		if err != nil {
			return nil, nil, err
		}
		return &models.OrderShipping{
			FirstName: address.FirstName,
			LastName:  address.LastName,
			Email:     user.Email,
			Phone:     address.Phone,
			Line:      address.Line,
			City:      address.City,
			Latitude:  address.Latitude,
			Longitude: address.Longitude,
		}, nil, nil
	}

	if err := checkout.ValidateShipping(in, false); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	guestEmail := strings.ToLower(strings.TrimSpace(req.GuestEmail))
	if guestEmail == "" {
		guestEmail = strings.ToLower(strings.TrimSpace(in.Email))
	}
	return &models.OrderShipping{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Line:      req.ShippingAddress.Line,
		City:      req.ShippingAddress.City,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	}, &guestEmail, nil
}

// GetOrder fetches one order, gated the same way for both the confirmation
// page and the account page: the buyer, a matching guest email, a seller who
// owns at least one line item, or an admin.
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID, actor Actor) (*models.Order, error) {
	order, err := s.Repo.OrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		return nil, err
	}

	if s.canView(ctx, order, actor) {
		return order, nil
	}
	return nil, fmt.Errorf("%w: not your order", ErrForbidden)
}

func (s *OrderService) canView(ctx context.Context, order *models.Order, actor Actor) bool {
	if actor.HasRole(models.RoleAdmin) {
		return true
	}
	if actor.UserID != nil && order.UserID != nil && *actor.UserID == *order.UserID {
		return true
	}
	if actor.GuestEmail != "" && order.GuestEmail != nil &&
		strings.EqualFold(actor.GuestEmail, *order.GuestEmail) {
		return true
	}
	if actor.UserID != nil && actor.HasRole(models.RoleSeller) {
		storefrontID := s.sellerStorefrontID(ctx, *actor.UserID)
		for _, item := range order.Items {
			if ownership.BelongsToSeller(item, *actor.UserID, storefrontID) {
				return true
			}
		}
	}
	return false
}

func (s *OrderService) sellerStorefrontID(ctx context.Context, sellerID uuid.UUID) *uuid.UUID {
	storefront, err := s.Repo.StorefrontBySeller(ctx, sellerID)
	if err != nil {
		return nil
	}
	return &storefront.ID
}

func (s *OrderService) OrdersForBuyer(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, error) {
	return s.Repo.OrdersByUser(ctx, userID, limit, offset)
}

// UpdateStatus moves an order through its lifecycle. Only an admin or a
// seller with an attributed line item may do it, and only along legal edges.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string, actor Actor) (*models.Order, error) {
	return s.updateLifecycle(ctx, id, actor, func(order *models.Order) error {
		if !transitionAllowed(orderStatusTransitions, order.Status, status) {
			return fmt.Errorf("%w: cannot move order from %s to %s", ErrValidation, order.Status, status)
		}
		order.Status = status
		return s.Repo.UpdateOrderStatus(ctx, id, status)
	})
}

func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string, actor Actor) (*models.Order, error) {
	return s.updateLifecycle(ctx, id, actor, func(order *models.Order) error {
		if !transitionAllowed(paymentStatusTransitions, order.PaymentStatus, paymentStatus) {
			return fmt.Errorf("%w: cannot move payment from %s to %s", ErrValidation, order.PaymentStatus, paymentStatus)
		}
		order.PaymentStatus = paymentStatus
		return s.Repo.UpdateOrderPaymentStatus(ctx, id, paymentStatus)
	})
}

func (s *OrderService) updateLifecycle(ctx context.Context, id uuid.UUID, actor Actor, apply func(*models.Order) error) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.update_lifecycle", "order_id", id)

	order, err := s.Repo.OrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		return nil, err
	}

	if !s.canMutate(ctx, order, actor) {
		return nil, fmt.Errorf("%w: seller or admin access required", ErrForbidden)
	}
	if err := apply(order); err != nil {
		return nil, err
	}

	if err := s.Producer.PublishEvent(ctx, mykafka.TopicOrderEvents, order.ID.String(), map[string]any{
		"type":           "order_status_changed",
		"order_id":       order.ID,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
	}); err != nil {
		l.Warn("order_event_not_published", "error", err)
	}

	l.Info("order_lifecycle_updated", "status", order.Status, "payment_status", order.PaymentStatus)
	return order, nil
}

func (s *OrderService) canMutate(ctx context.Context, order *models.Order, actor Actor) bool {
	if actor.HasRole(models.RoleAdmin) {
		return true
	}
	if actor.UserID == nil || !actor.HasRole(models.RoleSeller) {
		return false
	}
	storefrontID := s.sellerStorefrontID(ctx, *actor.UserID)
	for _, item := range order.Items {
		if ownership.BelongsToSeller(item, *actor.UserID, storefrontID) {
			return true
		}
	}
	return false
}
