package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler answers handler errors with a plain-text message. Errors that are not
// *fiber.Error are logged and reported as a generic internal error.
func ErrorHandler(c *fiber.Ctx, err error) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).SendString(fe.Message)
	}

	log.Printf("[%s %s] %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).SendString("Internal error")
}
