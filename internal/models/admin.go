package models

import "gorm.io/gorm"

// Admin is a back-office account. Admins are seeded, never registered.
type Admin struct {
	ID        string `json:"_id" gorm:"primaryKey;type:varchar(24)"`
	Adminname string `json:"adminname" gorm:"type:varchar(100);not null;uniqueIndex"`
	Adminpass string `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash
}

func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = NewID()
	}
	return nil
}
