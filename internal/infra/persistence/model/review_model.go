package model

import (
	"time"
)

// ReviewModel mirrors the 'reviews' table. One review per (customer_id, business_id).
type ReviewModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	CustomerID  int64  `gorm:"not null;uniqueIndex:idx_reviews_customer_business,priority:1"`
	BusinessID  int64  `gorm:"not null;uniqueIndex:idx_reviews_customer_business,priority:2;index"`
	OrderID     *int64 `gorm:"index"`
	Rating      int    `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5"`
	Description string `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time
	UpdatedAt   time.Time `gorm:"index"`

	Customer *UserModel  `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Business *UserModel  `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE"`
	Order    *OrderModel `gorm:"foreignKey:OrderID;constraint:OnDelete:SET NULL"`
}

// TableName explicitly sets the table name for GORM.
func (ReviewModel) TableName() string {
	return "reviews"
}

// All lists every model in dependency order, for AutoMigrate in tests.
func All() []any {
	return []any{
		&UserModel{},
		&BusinessProfileModel{},
		&CustomerProfileModel{},
		&OfferModel{},
		&OfferDetailModel{},
		&OrderModel{},
		&ReviewModel{},
	}
}
