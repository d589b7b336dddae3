package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/catalogadmin/internal/cache"
	"github.com/example/catalogadmin/internal/events"
	"github.com/example/catalogadmin/internal/middleware"
	"github.com/example/catalogadmin/internal/models"
)

var (
	errUnauthenticated = fiber.NewError(fiber.StatusUnauthorized, "Unauthenticated")
	// Unknown stores and stores owned by someone else answer the same way.
	errNotOwned = fiber.NewError(fiber.StatusForbidden, "Unauthorized")
)

// catalog bundles the dependencies shared by the store-scoped handlers.
type catalog struct {
	db    *gorm.DB
	cache cache.Cache
	hub   *events.Hub
}

func newCatalog(db *gorm.DB, c cache.Cache, hub *events.Hub) catalog {
	if c == nil {
		c = cache.Noop{}
	}
	return catalog{db: db, cache: c, hub: hub}
}

// authorize runs the write preamble shared by every mutating endpoint: identity, request
// body, required fields (first failure only) and ownership of the route's store.
// payload is nil for requests without a body.
func (h *catalog) authorize(c *fiber.Ctx, auth middleware.AuthContext, payload interface{}) (*models.Store, error) {
	if !auth.Authenticated() {
		return nil, errUnauthenticated
	}

	if payload != nil {
		if err := c.BodyParser(payload); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validateRequired(payload); err != nil {
			return nil, err
		}
	}

	return h.ownedStore(c, auth)
}

// ownedStore loads the route's store only when it belongs to the caller.
func (h *catalog) ownedStore(c *fiber.Ctx, auth middleware.AuthContext) (*models.Store, error) {
	if !auth.Authenticated() {
		return nil, errUnauthenticated
	}

	storeID, ok := parseStoreID(c)
	if !ok {
		return nil, errNotOwned
	}

	var store models.Store
	err := h.db.WithContext(c.UserContext()).
		Where("id = ? AND user_id = ?", storeID, auth.UserID).
		First(&store).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errNotOwned
	}
	if err != nil {
		return nil, err
	}

	return &store, nil
}

// storesOf lists the caller's stores, newest first.
func (h *catalog) storesOf(c *fiber.Ctx, auth middleware.AuthContext) ([]models.Store, error) {
	stores := []models.Store{}
	err := h.db.WithContext(c.UserContext()).
		Where("user_id = ?", auth.UserID).
		Order("created_at desc").
		Find(&stores).Error
	return stores, err
}

func parseStoreID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("storeId"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// cachedJSON serves a public read through the cache, keyed by the request URL.
func (h *catalog) cachedJSON(c *fiber.Ctx, namespace string, load func(ctx context.Context) (interface{}, error)) error {
	ctx := c.UserContext()
	key := c.OriginalURL()

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	data, version, ok := h.cache.Get(ctx, namespace, key)
	if ok {
		return c.Send(data)
	}

	value, err := load(ctx)
	if err != nil {
		return err
	}

	data, err = json.Marshal(value)
	if err != nil {
		return err
	}
	h.cache.Set(ctx, namespace, key, version, data)

	return c.Send(data)
}

// afterWrite invalidates dependent caches and notifies dashboards watching the store.
// slug may alias the request buffer, so the event carries a copy.
func (h *catalog) afterWrite(c *fiber.Ctx, store *models.Store, entity, action, slug string, namespaces ...string) {
	h.cache.Invalidate(c.UserContext(), namespaces...)
	h.hub.Publish(events.Event{
		StoreID: store.ID.String(),
		Entity:  entity,
		Action:  action,
		Slug:    utils.CopyString(slug),
	})
}

// findOne loads the first row matching query into dest and reports whether one existed.
func findOne(query *gorm.DB, dest interface{}) (bool, error) {
	res := query.Limit(1).Find(dest)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func countResult(rows int64) fiber.Map {
	return fiber.Map{"count": rows}
}
