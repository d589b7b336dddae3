package handlers

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/forbidden", func(c *fiber.Ctx) error {
		return errNotOwned
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("connection reset")
	})

	cases := []struct {
		path string
		code int
		body string
	}{
		{"/forbidden", fiber.StatusForbidden, "Unauthorized"},
		{"/boom", fiber.StatusInternalServerError, "Internal error"},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
		if err != nil {
			t.Fatalf("%s: %v", tc.path, err)
		}
		raw, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != tc.code || string(raw) != tc.body {
			t.Fatalf("%s: expected %d %q, got %d %q", tc.path, tc.code, tc.body, resp.StatusCode, raw)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			t.Fatalf("%s: expected text/plain, got %q", tc.path, ct)
		}
	}
}
