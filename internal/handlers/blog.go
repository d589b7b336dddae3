package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/catalogadmin/internal/cache"
	"github.com/example/catalogadmin/internal/events"
	"github.com/example/catalogadmin/internal/middleware"
	"github.com/example/catalogadmin/internal/models"
	"github.com/example/catalogadmin/internal/utils"
)

// BlogHandler manages store articles.
type BlogHandler struct {
	catalog
}

// NewBlogHandler constructs BlogHandler.
func NewBlogHandler(db *gorm.DB, c cache.Cache, hub *events.Hub) *BlogHandler {
	return &BlogHandler{catalog: newCatalog(db, c, hub)}
}

type blogCreateRequest struct {
	Title       string `json:"title" validate:"required" msg:"Title is required"`
	Content     string `json:"content" validate:"required" msg:"Article text is required"`
	ImageURL    string `json:"imageUrl" validate:"required" msg:"Image URL is required"`
	BlogSlug    string `json:"blogSlug" validate:"required" msg:"Article URL is required"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

type blogUpdateRequest struct {
	Title       string `json:"title" validate:"required" msg:"Title is required"`
	Content     string `json:"content" validate:"required" msg:"Article text is required"`
	Date        string `json:"date" validate:"required" msg:"Date is required"`
	Description string `json:"description" validate:"required" msg:"Short description is required"`
	ImageURL    string `json:"imageUrl" validate:"required" msg:"Image URL is required"`
	BlogSlug    string `json:"blogSlug" validate:"required" msg:"Article URL is required"`
}

// ListBlogs returns the store's articles, newest first.
func (h *BlogHandler) ListBlogs(c *fiber.Ctx) error {
	return h.cachedJSON(c, cache.Blogs, func(ctx context.Context) (interface{}, error) {
		blogs := []models.Blog{}
		storeID, ok := parseStoreID(c)
		if !ok {
			return blogs, nil
		}
		err := h.db.WithContext(ctx).
			Where("store_id = ?", storeID).
			Order("created_at desc").
			Find(&blogs).Error
		return blogs, err
	})
}

// GetBlog returns the article with the given slug or null.
func (h *BlogHandler) GetBlog(c *fiber.Ctx) error {
	return h.cachedJSON(c, cache.Blogs, func(ctx context.Context) (interface{}, error) {
		var blog models.Blog
		found, err := findOne(h.db.WithContext(ctx).Where("blog_slug = ?", c.Params("slug")), &blog)
		if err != nil || !found {
			return nil, err
		}
		return blog, nil
	})
}

// CreateBlog stores a new article.
func (h *BlogHandler) CreateBlog(c *fiber.Ctx, auth middleware.AuthContext) error {
	var req blogCreateRequest
	store, err := h.authorize(c, auth, &req)
	if err != nil {
		return err
	}

	blog := models.Blog{
		StoreID:     store.ID,
		Title:       req.Title,
		Content:     req.Content,
		ImageURL:    req.ImageURL,
		BlogSlug:    req.BlogSlug,
		Description: req.Description,
		Date:        req.Date,
	}
	if err := h.db.WithContext(c.UserContext()).Create(&blog).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			return fiber.NewError(fiber.StatusBadRequest, "Blog URL must be unique")
		}
		return err
	}

	h.afterWrite(c, store, cache.Blogs, events.ActionCreated, blog.BlogSlug, cache.Blogs)
	return c.JSON(blog)
}

// UpdateBlog rewrites every article matching the slug within the store.
func (h *BlogHandler) UpdateBlog(c *fiber.Ctx, auth middleware.AuthContext) error {
	var req blogUpdateRequest
	store, err := h.authorize(c, auth, &req)
	if err != nil {
		return err
	}

	res := h.db.WithContext(c.UserContext()).Model(&models.Blog{}).
		Where("store_id = ? AND blog_slug = ?", store.ID, c.Params("slug")).
		Updates(map[string]interface{}{
			"title":       req.Title,
			"content":     req.Content,
			"blog_slug":   req.BlogSlug,
			"image_url":   req.ImageURL,
			"description": req.Description,
			"date":        req.Date,
		})
	if res.Error != nil {
		return res.Error
	}

	h.afterWrite(c, store, cache.Blogs, events.ActionUpdated, req.BlogSlug, cache.Blogs)
	return c.JSON(countResult(res.RowsAffected))
}

// DeleteBlog removes every article matching the slug within the store.
func (h *BlogHandler) DeleteBlog(c *fiber.Ctx, auth middleware.AuthContext) error {
	store, err := h.authorize(c, auth, nil)
	if err != nil {
		return err
	}

	slug := c.Params("slug")
	res := h.db.WithContext(c.UserContext()).
		Where("store_id = ? AND blog_slug = ?", store.ID, slug).
		Delete(&models.Blog{})
	if res.Error != nil {
		return res.Error
	}

	h.afterWrite(c, store, cache.Blogs, events.ActionDeleted, slug, cache.Blogs)
	return c.JSON(countResult(res.RowsAffected))
}
