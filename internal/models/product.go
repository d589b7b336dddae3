package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	StoreID       uuid.UUID       `gorm:"type:char(36);index;not null" json:"storeId"`
	Name          string          `json:"name"`
	ProductSlug   string          `gorm:"size:191;uniqueIndex;not null" json:"productSlug"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"paymentMethod"`
	IsFeatured    bool            `json:"isFeatured"`
	IsArchived    bool            `json:"isArchived"`
	CategorySlug  string          `gorm:"size:191;index" json:"categorySlug"`
	Category      *Category       `gorm:"foreignKey:CategorySlug;references:CategorySlug" json:"category,omitempty"`
	BrandSlug     string          `gorm:"size:191;index" json:"brandSlug"`
	Brand         *Brand          `gorm:"foreignKey:BrandSlug;references:BrandSlug" json:"brand,omitempty"`
	Images        []Image         `gorm:"foreignKey:ProductID" json:"images"`
}

type Image struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:char(36);index;not null" json:"productId"`
	URL       string    `gorm:"not null" json:"url"`
}
