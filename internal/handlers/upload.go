package handlers

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/catalogadmin/internal/middleware"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// UploadHandler stores catalog images on local disk.
type UploadHandler struct {
	catalog
	dir string
}

// NewUploadHandler constructs UploadHandler writing into dir.
func NewUploadHandler(db *gorm.DB, dir string) *UploadHandler {
	return &UploadHandler{catalog: newCatalog(db, nil, nil), dir: dir}
}

// UploadImage saves the multipart "image" field and returns its public URL.
func (h *UploadHandler) UploadImage(c *fiber.Ctx, auth middleware.AuthContext) error {
	store, err := h.authorize(c, auth, nil)
	if err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "image file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		return fiber.NewError(fiber.StatusBadRequest, "unsupported image format")
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return err
	}

	name := uuid.New().String() + ext
	if err := c.SaveFile(file, filepath.Join(h.dir, name)); err != nil {
		return err
	}
	log.Printf("[uploads] store %s saved %s (%d bytes)", store.ID, name, file.Size)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": "/uploads/" + name})
}
