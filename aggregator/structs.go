package aggregator

import (
	"github.com/ncobase/composite/upstream"
)

// Part names used as keys of Failures.
const (
	PartUser      = "user"
	PartAddresses = "addresses"
)

// PartFailure explains why one part of a composite record is missing.
type PartFailure struct {
	Reason  upstream.Reason `json:"reason"`
	Message string          `json:"message"`
	Status  int             `json:"status,omitempty"`
}

// Failures maps part names to their failure.
type Failures map[string]*PartFailure

// Degradation marks a record assembled from a subset of its parts.
type Degradation struct {
	Partial  bool     `json:"partial,omitempty"`
	Failures Failures `json:"failures,omitempty"`
}

// Profile is a user with its addresses.
type Profile struct {
	UserID    int64              `json:"user_id"`
	User      upstream.User      `json:"user"`
	Addresses []upstream.Address `json:"addresses"`
	Degradation
}

// UserAddresses lists the addresses of one user.
type UserAddresses struct {
	UserID    int64              `json:"user_id"`
	Addresses []upstream.Address `json:"addresses"`
	Degradation
}

// UserCreatePayload is the body accepted for new users.
type UserCreatePayload struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Phone     string `json:"phone,omitempty"`
}

// AddressCreatePayload is the body accepted for new addresses.
type AddressCreatePayload struct {
	Name       string `json:"name" validate:"required"`
	Street     string `json:"street" validate:"required"`
	Unit       string `json:"unit,omitempty"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country" validate:"required"`
}

// UsersWithAddressRequest creates a user and its first address.
type UsersWithAddressRequest struct {
	User    *UserCreatePayload    `json:"user" validate:"required"`
	Address *AddressCreatePayload `json:"address" validate:"required"`
}

// UsersWithAddressResponse is the created pair.
type UsersWithAddressResponse struct {
	User    upstream.User    `json:"user"`
	Address upstream.Address `json:"address"`
}

// CompositeAddressCreate creates an address for an existing user.
type CompositeAddressCreate struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
	AddressCreatePayload
}

// CompositeAddressResponse is the created address and its owner id.
type CompositeAddressResponse struct {
	Address upstream.Address `json:"address"`
	UserID  int64            `json:"user_id"`
}

// boundAddress is the address body sent upstream, carrying its owner.
type boundAddress struct {
	UserID int64 `json:"user_id"`
	*AddressCreatePayload
}
