package models

// Store is the tenant boundary. Every catalog record belongs to exactly one store.
type Store struct {
	BaseModel
	Name   string `gorm:"not null" json:"name"`
	UserID string `gorm:"size:191;index;not null" json:"userId"`
}
