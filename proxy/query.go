package proxy

import (
	"net/url"

	"github.com/google/go-querystring/query"
)

// AddressQuery filters the address collection.
type AddressQuery struct {
	Limit      int    `form:"limit" url:"limit" json:"limit" validate:"min=1,max=100"`
	Offset     int    `form:"offset" url:"offset" json:"offset" validate:"gte=0"`
	Name       string `form:"name" url:"name,omitempty" json:"name,omitempty"`
	Street     string `form:"street" url:"street,omitempty" json:"street,omitempty"`
	Unit       string `form:"unit" url:"unit,omitempty" json:"unit,omitempty"`
	City       string `form:"city" url:"city,omitempty" json:"city,omitempty"`
	State      string `form:"state" url:"state,omitempty" json:"state,omitempty"`
	PostalCode string `form:"postal_code" url:"postal_code,omitempty" json:"postal_code,omitempty"`
	Country    string `form:"country" url:"country,omitempty" json:"country,omitempty"`
	AsGeoJSON  bool   `form:"as_geojson" url:"as_geojson,omitempty" json:"as_geojson,omitempty"`
}

// DefaultAddressQuery returns the first page of ten addresses.
func DefaultAddressQuery() *AddressQuery {
	return &AddressQuery{Limit: 10}
}

// Values encodes q as upstream query parameters.
func (q *AddressQuery) Values() (url.Values, error) {
	return query.Values(q)
}
