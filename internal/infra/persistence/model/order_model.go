package model

import (
	"time"
)

// OrderModel mirrors the 'orders' table. Offer references are weak: deleting
// the offer or tier sets them to NULL.
type OrderModel struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	CustomerID    int64  `gorm:"not null;index"`
	OfferID       *int64 `gorm:"index"`
	OfferDetailID *int64 `gorm:"index"`
	Status        string `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time

	Customer    *UserModel        `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Offer       *OfferModel       `gorm:"foreignKey:OfferID;constraint:OnDelete:SET NULL"`
	OfferDetail *OfferDetailModel `gorm:"foreignKey:OfferDetailID;constraint:OnDelete:SET NULL"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}
