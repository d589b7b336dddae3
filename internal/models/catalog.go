package models

import "github.com/google/uuid"

type Category struct {
	BaseModel
	StoreID      uuid.UUID `gorm:"type:char(36);index;not null" json:"storeId"`
	Name         string    `json:"name"`
	CategorySlug string    `gorm:"size:191;uniqueIndex;not null" json:"categorySlug"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"imageUrl"`
	IsActive     bool      `json:"isActive"`
}

// Brand links to its category by slug rather than by id.
type Brand struct {
	BaseModel
	StoreID      uuid.UUID `gorm:"type:char(36);index;not null" json:"storeId"`
	Name         string    `json:"name"`
	BrandSlug    string    `gorm:"size:191;uniqueIndex;not null" json:"brandSlug"`
	ImageURL     string    `json:"imageUrl"`
	IsActive     bool      `json:"isActive"`
	IsFeatured   bool      `json:"isFeatured"`
	CategorySlug string    `gorm:"size:191;index" json:"categorySlug"`
	Category     *Category `gorm:"foreignKey:CategorySlug;references:CategorySlug" json:"category,omitempty"`
}
