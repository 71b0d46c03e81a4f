package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a storefront customer.
type User struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:varchar(24)"`
	Username  string    `json:"username" gorm:"type:varchar(100);not null;index"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash
	Email     string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Img       string    `json:"img" gorm:"type:text"`
	Phone     string    `json:"phone" gorm:"type:varchar(32)"`
	Address   string    `json:"address" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}
