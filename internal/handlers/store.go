package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/catalogadmin/internal/cache"
	"github.com/example/catalogadmin/internal/events"
	"github.com/example/catalogadmin/internal/middleware"
	"github.com/example/catalogadmin/internal/models"
)

// StoreHandler manages the caller's stores.
type StoreHandler struct {
	catalog
}

// NewStoreHandler constructs StoreHandler.
func NewStoreHandler(db *gorm.DB, c cache.Cache, hub *events.Hub) *StoreHandler {
	return &StoreHandler{catalog: newCatalog(db, c, hub)}
}

type storeRequest struct {
	Name string `json:"name" validate:"required" msg:"Name is required"`
}

// CreateStore creates a store owned by the caller.
func (h *StoreHandler) CreateStore(c *fiber.Ctx, auth middleware.AuthContext) error {
	if !auth.Authenticated() {
		return errUnauthenticated
	}

	var req storeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateRequired(&req); err != nil {
		return err
	}

	store := models.Store{Name: req.Name, UserID: auth.UserID}
	if err := h.db.WithContext(c.UserContext()).Create(&store).Error; err != nil {
		return err
	}

	return c.JSON(store)
}

// ListStores returns the caller's stores, newest first.
func (h *StoreHandler) ListStores(c *fiber.Ctx, auth middleware.AuthContext) error {
	if !auth.Authenticated() {
		return errUnauthenticated
	}

	stores, err := h.storesOf(c, auth)
	if err != nil {
		return err
	}
	return c.JSON(stores)
}

// GetStore returns one of the caller's stores.
func (h *StoreHandler) GetStore(c *fiber.Ctx, auth middleware.AuthContext) error {
	store, err := h.ownedStore(c, auth)
	if err != nil {
		return err
	}
	return c.JSON(store)
}

// UpdateStore renames one of the caller's stores.
func (h *StoreHandler) UpdateStore(c *fiber.Ctx, auth middleware.AuthContext) error {
	var req storeRequest
	store, err := h.authorize(c, auth, &req)
	if err != nil {
		return err
	}

	res := h.db.WithContext(c.UserContext()).Model(&models.Store{}).
		Where("id = ? AND user_id = ?", store.ID, auth.UserID).
		Update("name", req.Name)
	if res.Error != nil {
		return res.Error
	}

	return c.JSON(countResult(res.RowsAffected))
}

// DeleteStore removes a store and its whole catalog.
func (h *StoreHandler) DeleteStore(c *fiber.Ctx, auth middleware.AuthContext) error {
	store, err := h.authorize(c, auth, nil)
	if err != nil {
		return err
	}

	var count int64
	if err := h.db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		productIDs := tx.Model(&models.Product{}).Select("id").Where("store_id = ?", store.ID)
		if err := tx.Where("product_id IN (?)", productIDs).Delete(&models.Image{}).Error; err != nil {
			return err
		}
		for _, model := range []interface{}{&models.Product{}, &models.Brand{}, &models.Category{}, &models.Blog{}} {
			if err := tx.Where("store_id = ?", store.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ? AND user_id = ?", store.ID, auth.UserID).Delete(&models.Store{})
		count = res.RowsAffected
		return res.Error
	}); err != nil {
		return err
	}

	h.afterWrite(c, store, "stores", events.ActionDeleted, "", cache.All...)
	return c.JSON(countResult(count))
}
