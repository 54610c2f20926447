package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/threadline-dev/threadline/internal/models"
)

// ErrProductNotFound is returned when a product ID does not exist
var ErrProductNotFound = errors.New("product not found")

// Service implements catalog reads and admin-gated mutations. It performs no
// authorization itself; mutating routes are guarded before the service runs.
type Service struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// ListFilter narrows a product listing. Zero values mean "no constraint".
type ListFilter struct {
	Category string
	Featured bool
	InStock  bool
	Limit    int
}

// CreateProductParams carries validated fields for a new product
type CreateProductParams struct {
	Name          string
	Description   string
	Price         float64
	Category      string
	Sizes         []string
	Colors        []string
	Images        []string
	InStock       bool
	StockQuantity int
	Featured      bool
}

// UpdateProductParams carries a partial update; nil fields are left unchanged
type UpdateProductParams struct {
	Name          *string
	Description   *string
	Price         *float64
	Category      *string
	Sizes         []string
	Colors        []string
	Images        []string
	InStock       *bool
	StockQuantity *int
	Featured      *bool
}

// List returns products matching the filter, newest first
func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Featured {
		query = query.Where("featured = ?", true)
	}
	if filter.InStock {
		query = query.Where("in_stock = ?", true)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get returns a single product by ID
func (s *Service) Get(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &product, nil
}

// Create inserts a new product
func (s *Service) Create(ctx context.Context, params CreateProductParams) (*models.Product, error) {
	product := &models.Product{
		Name:          params.Name,
		Description:   params.Description,
		Price:         params.Price,
		Category:      params.Category,
		InStock:       params.InStock,
		StockQuantity: params.StockQuantity,
		Featured:      params.Featured,
	}
	product.SetSizes(params.Sizes)
	product.SetColors(params.Colors)
	product.SetImages(params.Images)

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID).
		Str("name", product.Name).
		Str("category", product.Category).
		Msg("Product created")

	return product, nil
}

// Update applies a partial update to an existing product
func (s *Service) Update(ctx context.Context, id string, params UpdateProductParams) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		product.Name = *params.Name
	}
	if params.Description != nil {
		product.Description = *params.Description
	}
	if params.Price != nil {
		product.Price = *params.Price
	}
	if params.Category != nil {
		product.Category = *params.Category
	}
	if params.Sizes != nil {
		product.SetSizes(params.Sizes)
	}
	if params.Colors != nil {
		product.SetColors(params.Colors)
	}
	if params.Images != nil {
		product.SetImages(params.Images)
	}
	if params.InStock != nil {
		product.InStock = *params.InStock
	}
	if params.StockQuantity != nil {
		product.StockQuantity = *params.StockQuantity
	}
	if params.Featured != nil {
		product.Featured = *params.Featured
	}

	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID).
		Msg("Product updated")

	return product, nil
}

// Delete removes a product. Returns the deleted product so callers can
// schedule cleanup of its uploaded images.
func (s *Service) Delete(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Delete(product).Error; err != nil {
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID).
		Str("name", product.Name).
		Msg("Product deleted")

	return product, nil
}

// ReferencedImages returns the set of image URLs referenced by any product.
// Used by the orphan upload cleanup worker.
func (s *Service) ReferencedImages(ctx context.Context) (map[string]bool, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Select("images").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load product images: %w", err)
	}

	referenced := make(map[string]bool)
	for _, product := range products {
		for _, image := range product.ImageList() {
			referenced[image] = true
		}
	}
	return referenced, nil
}
