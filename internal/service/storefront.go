package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/kakamalem/marketplace/internal/logging"
	"github.com/kakamalem/marketplace/internal/models"
	"github.com/kakamalem/marketplace/internal/mykafka"
	"github.com/kakamalem/marketplace/internal/repo"
	"github.com/kakamalem/marketplace/internal/transport"
)

type StorefrontService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

// Legal storefront lifecycle moves, keyed by current status.
var storefrontStatusTransitions = map[string][]string{
	models.StorefrontStatusPendingReview: {models.StorefrontStatusActive, models.StorefrontStatusSuspended},
	models.StorefrontStatusActive:        {models.StorefrontStatusSuspended, models.StorefrontStatusInactive},
	models.StorefrontStatusSuspended:     {models.StorefrontStatusActive},
	models.StorefrontStatusInactive:      {models.StorefrontStatusActive},
}

// Create opens the caller's storefront. One per seller: a second call is a
// conflict, as is a slug clash. On success the caller's role set gains
// "seller" and the storefront starts in pending_review.
func (s *StorefrontService) Create(ctx context.Context, req transport.CreateStorefrontRequest, userID uuid.UUID) (*models.Storefront, error) {
	l := logging.FromContext(ctx).With("svc", "storefront.create", "user_id", userID)

	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}

	if _, err := s.Repo.StorefrontBySeller(ctx, userID); err == nil {
		return nil, fmt.Errorf("%w: you already have a storefront", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	storeSlug := req.Slug
	if storeSlug == "" {
		storeSlug = slug.Make(req.Name)
	} else {
		storeSlug = slug.Make(storeSlug)
	}
	taken, err := s.Repo.SlugTaken(ctx, storeSlug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: slug %q is taken", ErrConflict, storeSlug)
	}

	storefront := models.Storefront{
		SellerID:     userID,
		Name:         req.Name,
		Slug:         storeSlug,
		Description:  req.Description,
		ContactPhone: req.ContactPhone,
		Status:       models.StorefrontStatusPendingReview,
	}
	if err := s.Repo.CreateStorefront(ctx, &storefront); err != nil {
		return nil, err
	}

	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasRole(models.RoleSeller) {
		roles := append([]string{}, user.Roles...)
		roles = append(roles, models.RoleSeller)
		if err := s.Repo.UpdateUserRoles(ctx, userID, roles); err != nil {
			return nil, err
		}
	}

	if err := s.Producer.PublishEvent(ctx, mykafka.TopicStorefrontEvents, storefront.ID.String(), map[string]any{
		"type":          "storefront_created",
		"storefront_id": storefront.ID,
		"seller_id":     userID,
		"slug":          storefront.Slug,
	}); err != nil {
		l.Warn("storefront_event_not_published", "error", err)
	}

	l.Info("storefront_created", "storefront_id", storefront.ID, "slug", storefront.Slug)
	return &storefront, nil
}

func (s *StorefrontService) BySlug(ctx context.Context, storeSlug string) (*models.Storefront, error) {
	storefront, err := s.Repo.StorefrontBySlug(ctx, storeSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: storefront %q", ErrNotFound, storeSlug)
		}
		return nil, err
	}
	return storefront, nil
}

// UpdateStatus moves a storefront through its lifecycle. Admins may make any
// legal move; a seller may only deactivate their own active storefront.
func (s *StorefrontService) UpdateStatus(ctx context.Context, id uuid.UUID, status string, actor Actor) (*models.Storefront, error) {
	storefront, err := s.Repo.StorefrontByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: storefront %s", ErrNotFound, id)
		}
		return nil, err
	}

	if !transitionAllowed(storefrontStatusTransitions, storefront.Status, status) {
		return nil, fmt.Errorf("%w: cannot move storefront from %s to %s", ErrValidation, storefront.Status, status)
	}

	switch {
	case actor.HasRole(models.RoleAdmin):
	case actor.UserID != nil && *actor.UserID == storefront.SellerID:
		if status != models.StorefrontStatusInactive {
			return nil, fmt.Errorf("%w: sellers may only deactivate their storefront", ErrForbidden)
		}
	default:
		return nil, fmt.Errorf("%w: not your storefront", ErrForbidden)
	}

	if err := s.Repo.UpdateStorefrontStatus(ctx, id, status); err != nil {
		return nil, err
	}
	storefront.Status = status
	return storefront, nil
}

// RecordView bumps the storefront's analytics counters on a page view.
// Concurrent visits may undercount; the counters are informational only.
func (s *StorefrontService) RecordView(ctx context.Context, storeSlug string, newVisitor bool) error {
	storefront, err := s.Repo.StorefrontBySlug(ctx, storeSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: storefront %q", ErrNotFound, storeSlug)
		}
		return err
	}
	return s.Repo.RecordView(ctx, storefront.ID, newVisitor)
}
