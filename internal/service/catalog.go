package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/kakamalem/marketplace/internal/es"
	"github.com/kakamalem/marketplace/internal/logging"
	"github.com/kakamalem/marketplace/internal/models"
	"github.com/kakamalem/marketplace/internal/repo"
	"github.com/kakamalem/marketplace/internal/transport"
)

type CatalogService struct {
	Repo *repo.GormRepo
	ES   *elasticsearch.Client
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest, sellerID uuid.UUID) (*models.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}

	var stores []models.Storefront
	for _, id := range req.StoreIDs {
		storefront, err := s.Repo.StorefrontByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: unknown storefront %s", ErrValidation, id)
			}
			return nil, err
		}
		stores = append(stores, *storefront)
	}

	product := models.Product{
		Name:        req.Name,
		Slug:        slug.Make(req.Name) + "-" + uuid.NewString()[:8],
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		SellerID:    &sellerID,
		CategoryID:  req.CategoryID,
		Stores:      stores,
	}
	if err := s.Repo.CreateProduct(ctx, &product); err != nil {
		return nil, err
	}

	s.indexProduct(ctx, product)
	return &product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, limit, offset int) (int64, []models.Product, error) {
	return s.Repo.ListProducts(ctx, limit, offset)
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uuid.UUID, req transport.PatchProductRequest, actor Actor) (*models.Product, error) {
	product, err := s.Repo.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		return nil, err
	}
	if !s.canManage(product, actor) {
		return nil, fmt.Errorf("%w: not your product", ErrForbidden)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}
	s.indexProduct(ctx, *product)
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID, actor Actor) error {
	product, err := s.Repo.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		return err
	}
	if !s.canManage(product, actor) {
		return fmt.Errorf("%w: not your product", ErrForbidden)
	}
	return s.Repo.DeleteProduct(ctx, id)
}

func (s *CatalogService) canManage(product *models.Product, actor Actor) bool {
	if actor.HasRole(models.RoleAdmin) {
		return true
	}
	if actor.UserID == nil {
		return false
	}
	return product.SellerID != nil && *product.SellerID == *actor.UserID
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (*models.Category, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	category := models.Category{
		Name: req.Name,
		Slug: slug.Make(req.Name),
	}
	if err := s.Repo.CreateCategory(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

// ReorderProducts applies a drag-and-drop batch row by row. Rows are
// independent writes with no transaction; each row's outcome is reported so
// the client can roll back only the rows that failed.
func (s *CatalogService) ReorderProducts(ctx context.Context, entries []transport.ReorderEntry) ([]transport.ReorderRow, bool) {
	return s.applyReorder(ctx, entries, s.Repo.SetProductDisplayOrder)
}

func (s *CatalogService) ReorderCategories(ctx context.Context, entries []transport.ReorderEntry) ([]transport.ReorderRow, bool) {
	return s.applyReorder(ctx, entries, s.Repo.SetCategoryDisplayOrder)
}

func (s *CatalogService) applyReorder(ctx context.Context, entries []transport.ReorderEntry, set func(context.Context, uuid.UUID, int) error) ([]transport.ReorderRow, bool) {
	l := logging.FromContext(ctx).With("svc", "catalog.reorder")

	rows := make([]transport.ReorderRow, 0, len(entries))
	allOK := true
	for _, entry := range entries {
		row := transport.ReorderRow{ID: entry.ID, OK: true}
		if err := set(ctx, entry.ID, entry.DisplayOrder); err != nil {
			row.OK = false
			allOK = false
			if errors.Is(err, gorm.ErrRecordNotFound) {
				row.Error = "not found"
			} else {
				row.Error = "update failed"
				l.Error("reorder_row_failed", "id", entry.ID, "error", err)
			}
		}
		rows = append(rows, row)
	}
	return rows, allOK
}

// indexProduct mirrors the product into the search index. Search staleness is
// preferable to a failed write, so indexing errors are only logged.
func (s *CatalogService) indexProduct(ctx context.Context, product models.Product) {
	if s.ES == nil {
		return
	}
	l := logging.FromContext(ctx).With("svc", "catalog.index_product", "product_id", product.ID)

	doc, err := json.Marshal(product)
	if err != nil {
		l.Warn("product_not_indexed", "error", err)
		return
	}
	res, err := s.ES.Index(
		es.ProductIndex,
		bytes.NewReader(doc),
		s.ES.Index.WithContext(ctx),
		s.ES.Index.WithDocumentID(product.ID.String()),
	)
	if err != nil {
		l.Warn("product_not_indexed", "error", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		l.Warn("product_not_indexed", "status", res.Status())
	}
}
