// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// User is an account on the marketplace. Exactly one profile variant exists
// for every user and it always matches Type.
type User struct {
	ID           int64     // Database identity, exposed as "user" in responses.
	Username     string    // Unique login name.
	Email        string    // Unique contact email.
	FirstName    string    // Optional given name, empty when unknown.
	LastName     string    // Optional family name, empty when unknown.
	PasswordHash string    // bcrypt hash, never serialized.
	Type         UserType  // Immutable after creation.
	Profile      Profile   // BusinessProfile or CustomerProfile, selected by Type.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account.
}

// Profile is the sum type over the per-type profile shapes.
type Profile interface {
	profileType() UserType
}

// BusinessProfile holds data specific to business users.
type BusinessProfile struct {
	ID             int64
	UserID         int64
	CompanyName    string
	Description    string
	Phone          string
	Email          string
	Location       string
	WorkingHours   string
	ProfilePicture string // Opaque storage path, empty when no picture was uploaded.
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (*BusinessProfile) profileType() UserType { return UserTypeBusiness }

// CustomerProfile holds data specific to customer users.
type CustomerProfile struct {
	ID             int64
	UserID         int64
	Bio            string
	Phone          string
	Email          string
	Location       string
	ProfilePicture string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (*CustomerProfile) profileType() UserType { return UserTypeCustomer }

// NewProfileFor returns an empty profile variant for the given user type.
func NewProfileFor(userType UserType) (Profile, bool) {
	switch userType {
	case UserTypeBusiness:
		return &BusinessProfile{}, true
	case UserTypeCustomer:
		return &CustomerProfile{}, true
	default:
		return nil, false
	}
}

// IsBusiness reports whether the user is a business user.
func (u *User) IsBusiness() bool {
	return u.Type == UserTypeBusiness
}

// IsCustomer reports whether the user is a customer user.
func (u *User) IsCustomer() bool {
	return u.Type == UserTypeCustomer
}

// BusinessProfile returns the business variant when the user owns one.
func (u *User) BusinessProfile() (*BusinessProfile, bool) {
	p, ok := u.Profile.(*BusinessProfile)

	return p, ok && p != nil
}

// CustomerProfile returns the customer variant when the user owns one.
func (u *User) CustomerProfile() (*CustomerProfile, bool) {
	p, ok := u.Profile.(*CustomerProfile)

	return p, ok && p != nil
}

// ProfileConsistent reports whether the attached profile variant matches Type.
func (u *User) ProfileConsistent() bool {
	return u.Profile != nil && u.Profile.profileType() == u.Type
}
