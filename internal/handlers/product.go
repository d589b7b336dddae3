package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/catalogadmin/internal/cache"
	"github.com/example/catalogadmin/internal/events"
	"github.com/example/catalogadmin/internal/middleware"
	"github.com/example/catalogadmin/internal/models"
)

var errProductNotFound = fiber.NewError(fiber.StatusNotFound, "Product not found")

// ProductHandler manages product CRUD.
type ProductHandler struct {
	catalog
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, c cache.Cache, hub *events.Hub) *ProductHandler {
	return &ProductHandler{catalog: newCatalog(db, c, hub)}
}

type imageRequest struct {
	URL string `json:"url"`
}

type productRequest struct {
	Name          string          `json:"name" validate:"required" msg:"Name is required"`
	Images        []imageRequest  `json:"images" validate:"required,min=1" msg:"Images are required."`
	Price         decimal.Decimal `json:"price" validate:"required" msg:"Price is required"`
	CategorySlug  string          `json:"categorySlug" validate:"required" msg:"Category is required"`
	ProductSlug   string          `json:"productSlug" validate:"required" msg:"Product URL is required"`
	BrandSlug     string          `json:"brandSlug" validate:"required" msg:"Brand is required"`
	Description   string          `json:"description" validate:"required" msg:"Product description is required"`
	PaymentMethod string          `json:"paymentMethod" validate:"required" msg:"Payment method is required"`
	IsFeatured    bool            `json:"isFeatured"`
	IsArchived    bool            `json:"isArchived"`
}

func (r productRequest) images(productID uuid.UUID) []models.Image {
	images := make([]models.Image, 0, len(r.Images))
	for _, img := range r.Images {
		images = append(images, models.Image{ProductID: productID, URL: img.URL})
	}
	return images
}

// ListProducts returns the store's unarchived products with images, category and brand.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	return h.cachedJSON(c, cache.Products, func(ctx context.Context) (interface{}, error) {
		products := []models.Product{}
		storeID, ok := parseStoreID(c)
		if !ok {
			return products, nil
		}

		query := h.db.WithContext(ctx).Where("store_id = ? AND is_archived = ?", storeID, false)
		if v := c.Query("categorySlug"); v != "" {
			query = query.Where("category_slug = ?", v)
		}
		if v := c.Query("brandSlug"); v != "" {
			query = query.Where("brand_slug = ?", v)
		}
		if c.Query("isFeatured") != "" {
			query = query.Where("is_featured = ?", true)
		}

		err := query.Preload("Images").
			Preload("Category").
			Preload("Brand").
			Order("created_at desc").
			Find(&products).Error
		return products, err
	})
}

// GetProduct returns the product with the given slug, with its relations, or null.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	return h.cachedJSON(c, cache.Products, func(ctx context.Context) (interface{}, error) {
		var product models.Product
		query := h.db.WithContext(ctx).
			Preload("Images").
			Preload("Category").
			Preload("Brand").
			Where("product_slug = ?", c.Params("slug"))
		found, err := findOne(query, &product)
		if err != nil || !found {
			return nil, err
		}
		return product, nil
	})
}

// CreateProduct stores a product together with its images.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx, auth middleware.AuthContext) error {
	var req productRequest
	store, err := h.authorize(c, auth, &req)
	if err != nil {
		return err
	}

	product := models.Product{
		StoreID:       store.ID,
		Name:          req.Name,
		ProductSlug:   req.ProductSlug,
		Price:         req.Price,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
		IsFeatured:    req.IsFeatured,
		IsArchived:    req.IsArchived,
		CategorySlug:  req.CategorySlug,
		BrandSlug:     req.BrandSlug,
		Images:        req.images(uuid.Nil),
	}
	if err := h.db.WithContext(c.UserContext()).Create(&product).Error; err != nil {
		return err
	}

	h.afterWrite(c, store, cache.Products, events.ActionCreated, product.ProductSlug, cache.Products)
	return c.JSON(product)
}

// UpdateProduct rewrites a product and replaces its image set in one transaction.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx, auth middleware.AuthContext) error {
	var req productRequest
	store, err := h.authorize(c, auth, &req)
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	var existing models.Product
	if err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findOne(tx.Where("store_id = ? AND product_slug = ?", store.ID, c.Params("slug")), &existing)
		if err != nil {
			return err
		}
		if !found {
			return errProductNotFound
		}

		if err := tx.Model(&existing).Updates(map[string]interface{}{
			"name":           req.Name,
			"product_slug":   req.ProductSlug,
			"price":          req.Price,
			"description":    req.Description,
			"payment_method": req.PaymentMethod,
			"is_featured":    req.IsFeatured,
			"is_archived":    req.IsArchived,
			"category_slug":  req.CategorySlug,
			"brand_slug":     req.BrandSlug,
		}).Error; err != nil {
			return err
		}

		// Replace the image set.
		if err := tx.Where("product_id = ?", existing.ID).Delete(&models.Image{}).Error; err != nil {
			return err
		}
		images := req.images(existing.ID)
		return tx.Create(&images).Error
	}); err != nil {
		return err
	}

	var product models.Product
	if err := h.db.WithContext(ctx).
		Preload("Images").
		Preload("Category").
		Preload("Brand").
		First(&product, "id = ?", existing.ID).Error; err != nil {
		return err
	}

	h.afterWrite(c, store, cache.Products, events.ActionUpdated, product.ProductSlug, cache.Products)
	return c.JSON(product)
}

// DeleteProduct removes every product matching the slug within the store, with its images.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx, auth middleware.AuthContext) error {
	store, err := h.authorize(c, auth, nil)
	if err != nil {
		return err
	}

	slug := c.Params("slug")
	var count int64
	if err := h.db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		if err := tx.Model(&models.Product{}).
			Where("store_id = ? AND product_slug = ?", store.ID, slug).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("product_id IN ?", ids).Delete(&models.Image{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Product{})
		count = res.RowsAffected
		return res.Error
	}); err != nil {
		return err
	}

	h.afterWrite(c, store, cache.Products, events.ActionDeleted, slug, cache.Products)
	return c.JSON(countResult(count))
}
