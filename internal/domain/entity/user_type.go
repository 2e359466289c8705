package entity

// UserType is fixed at registration and selects which profile variant a user owns.
type UserType string

const (
	// UserTypeCustomer browses offers, places orders and writes reviews.
	UserTypeCustomer UserType = "customer"
	// UserTypeBusiness publishes offers and fulfils orders.
	UserTypeBusiness UserType = "business"
)

// String returns the string representation of the UserType.
func (t UserType) String() string {
	return string(t)
}

// IsValid checks if the UserType is a valid value.
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeCustomer, UserTypeBusiness:
		return true
	default:
		return false
	}
}

// Caller is the authenticated identity every core operation receives explicitly.
type Caller struct {
	UserID int64
	Type   UserType
}

// IsBusiness reports whether the caller is a business user.
func (c Caller) IsBusiness() bool {
	return c.Type == UserTypeBusiness
}

// IsCustomer reports whether the caller is a customer user.
func (c Caller) IsCustomer() bool {
	return c.Type == UserTypeCustomer
}
