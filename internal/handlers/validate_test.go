package handlers

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func requireMessage(t *testing.T, err error, want string) {
	t.Helper()
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected *fiber.Error, got %v", err)
	}
	if fe.Code != fiber.StatusBadRequest || fe.Message != want {
		t.Fatalf("expected 400 %q, got %d %q", want, fe.Code, fe.Message)
	}
}

func TestValidateReportsFirstMissingField(t *testing.T) {
	err := validateRequired(&blogUpdateRequest{Title: "Hello", Content: "Body"})
	requireMessage(t, err, "Date is required")

	err = validateRequired(&categoryCreateRequest{Name: "Chairs", ImageURL: "/x.png"})
	requireMessage(t, err, "category description is required")

	err = validateRequired(&brandUpdateRequest{Name: "Acme", BrandSlug: "acme", ImageURL: "/a.png"})
	requireMessage(t, err, "Category is required")
}

func TestValidateProductImagesAndPrice(t *testing.T) {
	req := productRequest{Name: "Lamp", Images: []imageRequest{}}
	requireMessage(t, validateRequired(&req), "Images are required.")

	req.Images = []imageRequest{{URL: "/a.png"}}
	requireMessage(t, validateRequired(&req), "Price is required")

	req.Price = decimal.Zero
	requireMessage(t, validateRequired(&req), "Price is required")

	req.Price = decimal.RequireFromString("9.50")
	requireMessage(t, validateRequired(&req), "Category is required")

	req.CategorySlug = "lighting"
	req.ProductSlug = "lamp"
	req.BrandSlug = "acme"
	req.Description = "Warm light"
	requireMessage(t, validateRequired(&req), "Payment method is required")

	req.PaymentMethod = "card"
	if err := validateRequired(&req); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestValidateOptionalFieldsAreIgnored(t *testing.T) {
	if err := validateRequired(&brandCreateRequest{Name: "Acme", BrandSlug: "acme"}); err != nil {
		t.Fatalf("expected valid brand, got %v", err)
	}
}
