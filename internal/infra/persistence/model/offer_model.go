package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OfferModel mirrors the 'offers' table.
type OfferModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	CreatorID   int64  `gorm:"not null;index"`
	Title       string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text;not null;default:''"`
	Image       string `gorm:"type:varchar(255);not null;default:''"`
	CreatedAt   time.Time
	UpdatedAt   time.Time `gorm:"index"`

	Creator *UserModel         `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE"`
	Details []OfferDetailModel `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (OfferModel) TableName() string {
	return "offers"
}

// OfferDetailModel mirrors the 'offer_details' table. (offer_id, offer_type) is unique.
type OfferDetailModel struct {
	ID                 int64                       `gorm:"primaryKey;autoIncrement"`
	OfferID            int64                       `gorm:"not null;uniqueIndex:idx_offer_details_offer_type,priority:1"`
	OfferType          string                      `gorm:"type:varchar(20);not null;uniqueIndex:idx_offer_details_offer_type,priority:2"`
	Title              string                      `gorm:"type:varchar(255);not null"`
	Price              decimal.Decimal             `gorm:"type:numeric(10,2);not null;default:0"`
	DeliveryTimeInDays int                         `gorm:"not null;default:0"`
	Revisions          int                         `gorm:"not null;default:0"`
	Features           datatypes.JSONSlice[string] `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (OfferDetailModel) TableName() string {
	return "offer_details"
}

// OfferWithAggregates is the row shape of offer list queries.
type OfferWithAggregates struct {
	OfferModel
	MinPrice        decimal.NullDecimal
	MinDeliveryTime *int
}
