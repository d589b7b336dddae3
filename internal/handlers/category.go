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

// CategoryHandler manages store categories.
type CategoryHandler struct {
	catalog
}

// NewCategoryHandler constructs CategoryHandler.
func NewCategoryHandler(db *gorm.DB, c cache.Cache, hub *events.Hub) *CategoryHandler {
	return &CategoryHandler{catalog: newCatalog(db, c, hub)}
}

type categoryCreateRequest struct {
	Name         string `json:"name" validate:"required" msg:"Name is required"`
	ImageURL     string `json:"imageUrl" validate:"required" msg:"Image URL is required"`
	Description  string `json:"description" validate:"required" msg:"category description is required"`
	CategorySlug string `json:"categorySlug" validate:"required" msg:"Category URL is required"`
	IsActive     *bool  `json:"isActive"`
}

type categoryUpdateRequest struct {
	Name         string `json:"name" validate:"required" msg:"Name is required"`
	ImageURL     string `json:"imageUrl" validate:"required" msg:"Image is required"`
	CategorySlug string `json:"categorySlug" validate:"required" msg:"Category URL is required"`
	Description  string `json:"description" validate:"required" msg:"Description is required"`
	IsActive     *bool  `json:"isActive"`
}

// Categories are embedded in brand and product responses.
var categoryNamespaces = []string{cache.Categories, cache.Brands, cache.Products}

// ListCategories returns the store's categories, newest first.
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	return h.cachedJSON(c, cache.Categories, func(ctx context.Context) (interface{}, error) {
		categories := []models.Category{}
		storeID, ok := parseStoreID(c)
		if !ok {
			return categories, nil
		}
		err := h.db.WithContext(ctx).
			Where("store_id = ?", storeID).
			Order("created_at desc").
			Find(&categories).Error
		return categories, err
	})
}

// GetCategory returns the category with the given slug or null.
func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	return h.cachedJSON(c, cache.Categories, func(ctx context.Context) (interface{}, error) {
		var category models.Category
		found, err := findOne(h.db.WithContext(ctx).Where("category_slug = ?", c.Params("slug")), &category)
		if err != nil || !found {
			return nil, err
		}
		return category, nil
	})
}

// CreateCategory stores a new category. Categories are active unless told otherwise.
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx, auth middleware.AuthContext) error {
	var req categoryCreateRequest
	store, err := h.authorize(c, auth, &req)
	if err != nil {
		return err
	}

	category := models.Category{
		StoreID:      store.ID,
		Name:         req.Name,
		CategorySlug: req.CategorySlug,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if err := h.db.WithContext(c.UserContext()).Create(&category).Error; err != nil {
		return err
	}

	h.afterWrite(c, store, cache.Categories, events.ActionCreated, category.CategorySlug, categoryNamespaces...)
	return c.JSON(category)
}

// UpdateCategory rewrites every category matching the slug within the store.
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx, auth middleware.AuthContext) error {
	var req categoryUpdateRequest
	store, err := h.authorize(c, auth, &req)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"name":          req.Name,
		"category_slug": req.CategorySlug,
		"image_url":     req.ImageURL,
		"description":   req.Description,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	res := h.db.WithContext(c.UserContext()).Model(&models.Category{}).
		Where("store_id = ? AND category_slug = ?", store.ID, c.Params("slug")).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}

	h.afterWrite(c, store, cache.Categories, events.ActionUpdated, req.CategorySlug, categoryNamespaces...)
	return c.JSON(countResult(res.RowsAffected))
}

// DeleteCategory removes every category matching the slug within the store.
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx, auth middleware.AuthContext) error {
	store, err := h.authorize(c, auth, nil)
	if err != nil {
		return err
	}

	slug := c.Params("slug")
	res := h.db.WithContext(c.UserContext()).
		Where("store_id = ? AND category_slug = ?", store.ID, slug).
		Delete(&models.Category{})
	if res.Error != nil {
		return res.Error
	}

	h.afterWrite(c, store, cache.Categories, events.ActionDeleted, slug, categoryNamespaces...)
	return c.JSON(countResult(res.RowsAffected))
}
