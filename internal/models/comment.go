package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a product review. Comments are immutable once written.
type Comment struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:varchar(24)"`
	ProductID string    `json:"productId" gorm:"type:varchar(24);not null;index"`
	UserID    string    `json:"userId" gorm:"type:varchar(24);not null;index"`
	Username  string    `json:"username" gorm:"type:varchar(100);not null"`
	Comment   string    `json:"comment" gorm:"type:text;not null"`
	Rating    int       `json:"rating" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}
