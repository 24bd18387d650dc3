package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name,omitempty" validate:"max=3"`
	Limit int    `form:"limit" validate:"min=1,max=100"`
	Skip  int    `validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(&sample{Email: "nope", Name: "toolong", Limit: 0, Skip: -1})

	assert.Equal(t, "The field 'email' must be a valid email address.", errs["email"])
	assert.Equal(t, "The field 'name' must be no longer than 3 characters.", errs["name"])
	assert.Equal(t, "The field 'limit' must be at least 1.", errs["limit"])
	assert.Equal(t, "The field 'Skip' must be greater than or equal to 0.", errs["Skip"])
}

func TestValidateStructValid(t *testing.T) {
	assert.Empty(t, ValidateStruct(sample{Email: "amy@example.com", Limit: 10}))
}

type inner struct {
	City string `json:"city" validate:"required"`
}

type Embedded struct {
	Country string `json:"country" validate:"required"`
}

type outer struct {
	UserID  int    `json:"user_id" validate:"required"`
	Address *inner `json:"address" validate:"required"`
	Embedded
}

func TestValidateStructNested(t *testing.T) {
	errs := ValidateStruct(&outer{Address: &inner{}})

	assert.Equal(t, "The field 'user_id' is required.", errs["user_id"])
	assert.Equal(t, "The field 'city' is required.", errs["address.city"])
	assert.Equal(t, "The field 'country' is required.", errs["country"])

	errs = ValidateStruct(&outer{UserID: 1, Embedded: Embedded{Country: "USA"}})
	assert.Equal(t, "The field 'address' is required.", errs["address"])
}
