package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/threadline-dev/threadline/internal/catalog"
	"github.com/threadline-dev/threadline/internal/models"
	"github.com/threadline-dev/threadline/internal/tasks"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	Category      string   `json:"category" binding:"required,productcategory"`
	Sizes         []string `json:"sizes" binding:"omitempty,dive,productsize"`
	Colors        []string `json:"colors"`
	Images        []string `json:"images"`
	InStock       *bool    `json:"in_stock"`
	StockQuantity int      `json:"stock_quantity" binding:"omitempty,min=0"`
	Featured      bool     `json:"featured"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Name          *string  `json:"name" binding:"omitempty,min=1"`
	Description   *string  `json:"description" binding:"omitempty,min=1"`
	Price         *float64 `json:"price" binding:"omitempty,gt=0"`
	Category      *string  `json:"category" binding:"omitempty,productcategory"`
	Sizes         []string `json:"sizes" binding:"omitempty,dive,productsize"`
	Colors        []string `json:"colors"`
	Images        []string `json:"images"`
	InStock       *bool    `json:"in_stock"`
	StockQuantity *int     `json:"stock_quantity" binding:"omitempty,min=0"`
	Featured      *bool    `json:"featured"`
}

// ProductDetail represents a product in API responses, with the JSON text
// columns expanded into arrays
type ProductDetail struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Category      string    `json:"category"`
	Sizes         []string  `json:"sizes"`
	Colors        []string  `json:"colors"`
	Images        []string  `json:"images"`
	InStock       bool      `json:"in_stock"`
	StockQuantity int       `json:"stock_quantity"`
	Featured      bool      `json:"featured"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toProductDetail(p *models.Product) ProductDetail {
	return ProductDetail{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		Sizes:         p.SizeList(),
		Colors:        p.ColorList(),
		Images:        p.ImageList(),
		InStock:       p.InStock,
		StockQuantity: p.StockQuantity,
		Featured:      p.Featured,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// listProducts returns the catalog, optionally filtered.
// GET /api/products?category=&featured=&inStock=&limit=
func (s *Server) listProducts(c *gin.Context) {
	filter := catalog.ListFilter{
		Category: c.Query("category"),
		Featured: c.Query("featured") == "true",
		InStock:  c.Query("inStock") == "true",
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		filter.Limit = limit
	}

	if filter.Category != "" && !models.ValidCategory(filter.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}

	products, err := s.catalogService.List(c.Request.Context(), filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list products")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	details := make([]ProductDetail, len(products))
	for i := range products {
		details[i] = toProductDetail(&products[i])
	}

	c.JSON(http.StatusOK, details)
}

// getProduct returns a single product.
// GET /api/products/:id
func (s *Server) getProduct(c *gin.Context) {
	product, err := s.catalogService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to fetch product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	c.JSON(http.StatusOK, toProductDetail(product))
}

// createProduct creates a new product. Admin only.
// POST /api/products
func (s *Server) createProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	product, err := s.catalogService.Create(c.Request.Context(), catalog.CreateProductParams{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Category:      req.Category,
		Sizes:         req.Sizes,
		Colors:        req.Colors,
		Images:        req.Images,
		InStock:       inStock,
		StockQuantity: req.StockQuantity,
		Featured:      req.Featured,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": toProductDetail(product),
	})
}

// updateProduct applies a partial update. Admin only.
// PUT /api/products/:id
func (s *Server) updateProduct(c *gin.Context) {
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := s.catalogService.Update(c.Request.Context(), c.Param("id"), catalog.UpdateProductParams{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Category:      req.Category,
		Sizes:         req.Sizes,
		Colors:        req.Colors,
		Images:        req.Images,
		InStock:       req.InStock,
		StockQuantity: req.StockQuantity,
		Featured:      req.Featured,
	})
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to update product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": toProductDetail(product),
	})
}

// deleteProduct removes a product and schedules cleanup of its stored
// images. Admin only.
// DELETE /api/products/:id
func (s *Server) deleteProduct(c *gin.Context) {
	product, err := s.catalogService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to delete product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	// Image cleanup happens out of band; a queue failure must not undo the
	// delete, so it only logs
	if images := product.ImageList(); len(images) > 0 && s.asynqClient != nil {
		task, err := tasks.NewCleanupProductImagesTask(product.ID, images)
		if err == nil {
			_, err = s.asynqClient.Enqueue(task)
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("product_id", product.ID).Msg("Failed to enqueue image cleanup")
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
