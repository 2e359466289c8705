// Package model holds the GORM persistence models. Entities never leave the
// repository layer in this shape.
package model

import (
	"time"
)

// UserModel mirrors the 'users' table.
type UserModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"type:varchar(150);uniqueIndex;not null"`
	Email        string `gorm:"type:varchar(254);uniqueIndex;not null"`
	FirstName    string `gorm:"type:varchar(150);not null;default:''"`
	LastName     string `gorm:"type:varchar(150);not null;default:''"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	UserType     string `gorm:"type:varchar(20);not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	BusinessProfile *BusinessProfileModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CustomerProfile *CustomerProfileModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// BusinessProfileModel mirrors the 'business_profiles' table.
type BusinessProfileModel struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	UserID         int64  `gorm:"uniqueIndex;not null"`
	CompanyName    string `gorm:"type:varchar(255);not null;default:''"`
	Description    string `gorm:"type:text;not null;default:''"`
	Phone          string `gorm:"type:varchar(20);not null;default:''"`
	Email          string `gorm:"type:varchar(254);not null;default:''"`
	Location       string `gorm:"type:varchar(255);not null;default:''"`
	WorkingHours   string `gorm:"type:varchar(255);not null;default:''"`
	ProfilePicture string `gorm:"type:varchar(255);not null;default:''"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (BusinessProfileModel) TableName() string {
	return "business_profiles"
}

// CustomerProfileModel mirrors the 'customer_profiles' table.
type CustomerProfileModel struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	UserID         int64  `gorm:"uniqueIndex;not null"`
	Bio            string `gorm:"type:text;not null;default:''"`
	Phone          string `gorm:"type:varchar(20);not null;default:''"`
	Email          string `gorm:"type:varchar(254);not null;default:''"`
	Location       string `gorm:"type:varchar(255);not null;default:''"`
	ProfilePicture string `gorm:"type:varchar(255);not null;default:''"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (CustomerProfileModel) TableName() string {
	return "customer_profiles"
}
