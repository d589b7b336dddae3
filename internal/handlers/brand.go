package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/catalogadmin/internal/cache"
	"github.com/example/catalogadmin/internal/events"
	"github.com/example/catalogadmin/internal/middleware"
	"github.com/example/catalogadmin/internal/models"
)

// BrandHandler manages store brands.
type BrandHandler struct {
	catalog
}

// NewBrandHandler constructs BrandHandler.
func NewBrandHandler(db *gorm.DB, c cache.Cache, hub *events.Hub) *BrandHandler {
	return &BrandHandler{catalog: newCatalog(db, c, hub)}
}

type brandCreateRequest struct {
	Name         string `json:"name" validate:"required" msg:"Name is required"`
	BrandSlug    string `json:"brandSlug" validate:"required" msg:"Brand URL is required"`
	ImageURL     string `json:"imageUrl"`
	CategorySlug string `json:"categorySlug"`
	IsActive     *bool  `json:"isActive"`
	IsFeatured   bool   `json:"isFeatured"`
}

type brandUpdateRequest struct {
	Name         string `json:"name" validate:"required" msg:"Name is required"`
	BrandSlug    string `json:"brandSlug" validate:"required" msg:"Brand URL is required"`
	ImageURL     string `json:"imageUrl" validate:"required" msg:"Image is required"`
	CategorySlug string `json:"categorySlug" validate:"required" msg:"Category is required"`
	IsActive     *bool  `json:"isActive"`
	IsFeatured   *bool  `json:"isFeatured"`
}

// Brand writes touch product listings, which embed the brand.
var brandNamespaces = []string{cache.Brands, cache.Products}

// ListBrands returns the store's brands, optionally narrowed by category or featured flag.
func (h *BrandHandler) ListBrands(c *fiber.Ctx) error {
	return h.cachedJSON(c, cache.Brands, func(ctx context.Context) (interface{}, error) {
		brands := []models.Brand{}
		storeID, ok := parseStoreID(c)
		if !ok {
			return brands, nil
		}

		query := h.db.WithContext(ctx).Where("store_id = ?", storeID)
		if v := c.Query("categorySlug"); v != "" {
			query = query.Where("category_slug = ?", v)
		}
		if c.Query("isFeatured") != "" {
			query = query.Where("is_featured = ?", true)
		}

		err := query.Order("created_at desc").Find(&brands).Error
		return brands, err
	})
}

// GetBrand returns the brand with the given slug, with its category, or null.
func (h *BrandHandler) GetBrand(c *fiber.Ctx) error {
	return h.cachedJSON(c, cache.Brands, func(ctx context.Context) (interface{}, error) {
		var brand models.Brand
		query := h.db.WithContext(ctx).Preload("Category").Where("brand_slug = ?", c.Params("slug"))
		found, err := findOne(query, &brand)
		if err != nil || !found {
			return nil, err
		}
		return brand, nil
	})
}

// CreateBrand stores a new brand. Brands are active unless told otherwise.
func (h *BrandHandler) CreateBrand(c *fiber.Ctx, auth middleware.AuthContext) error {
	var req brandCreateRequest
	store, err := h.authorize(c, auth, &req)
	if err != nil {
		return err
	}

	brand := models.Brand{
		StoreID:      store.ID,
		Name:         req.Name,
		BrandSlug:    req.BrandSlug,
		ImageURL:     req.ImageURL,
		CategorySlug: req.CategorySlug,
		IsActive:     req.IsActive == nil || *req.IsActive,
		IsFeatured:   req.IsFeatured,
	}
	if err := h.db.WithContext(c.UserContext()).Create(&brand).Error; err != nil {
		return err
	}

	h.afterWrite(c, store, cache.Brands, events.ActionCreated, brand.BrandSlug, brandNamespaces...)
	return c.JSON(brand)
}

// UpdateBrand rewrites every brand matching the slug within the store.
func (h *BrandHandler) UpdateBrand(c *fiber.Ctx, auth middleware.AuthContext) error {
	var req brandUpdateRequest
	store, err := h.authorize(c, auth, &req)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"name":          req.Name,
		"brand_slug":    req.BrandSlug,
		"image_url":     req.ImageURL,
		"category_slug": req.CategorySlug,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}

	res := h.db.WithContext(c.UserContext()).Model(&models.Brand{}).
		Where("store_id = ? AND brand_slug = ?", store.ID, c.Params("slug")).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}

	h.afterWrite(c, store, cache.Brands, events.ActionUpdated, req.BrandSlug, brandNamespaces...)
	return c.JSON(countResult(res.RowsAffected))
}

// DeleteBrand removes every brand matching the slug within the store.
func (h *BrandHandler) DeleteBrand(c *fiber.Ctx, auth middleware.AuthContext) error {
	store, err := h.authorize(c, auth, nil)
	if err != nil {
		return err
	}

	slug := c.Params("slug")
	res := h.db.WithContext(c.UserContext()).
		Where("store_id = ? AND brand_slug = ?", store.ID, slug).
		Delete(&models.Brand{})
	if res.Error != nil {
		return res.Error
	}

	h.afterWrite(c, store, cache.Brands, events.ActionDeleted, slug, brandNamespaces...)
	return c.JSON(countResult(res.RowsAffected))
}
