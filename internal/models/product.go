package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a shoe in the catalog.
//
// Rating is derived from the product's comments: RatingSum and RatingCount are
// incremented atomically with every comment, decremented when comments are
// deleted, and Rating is their mean rounded to one decimal place.
type Product struct {
	ID          string          `json:"_id" gorm:"primaryKey;type:varchar(24)"`
	ProductName string          `json:"productName" gorm:"type:varchar(255);not null"`
	ShoeType    string          `json:"shoeType" gorm:"type:varchar(100);not null;index"`
	Images      []string        `json:"image" gorm:"type:text;serializer:json"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Rating      decimal.Decimal `json:"rating" gorm:"type:decimal(3,1);not null"`
	RatingSum   int64           `json:"-" gorm:"not null"`
	RatingCount int64           `json:"ratingCount" gorm:"not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Colors      []string        `json:"color" gorm:"type:text;serializer:json"`
	Sizes       []string        `json:"size" gorm:"type:text;serializer:json"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}
