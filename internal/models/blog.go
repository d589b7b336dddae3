package models

import "github.com/google/uuid"

// Blog is a store article. Date is kept as entered by the editor.
type Blog struct {
	BaseModel
	StoreID     uuid.UUID `gorm:"type:char(36);index;not null" json:"storeId"`
	Title       string    `json:"title"`
	BlogSlug    string    `gorm:"size:191;uniqueIndex;not null" json:"blogSlug"`
	Content     string    `gorm:"type:text" json:"content"`
	ImageURL    string    `json:"imageUrl"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
}
