package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Address is an opaque address record from the Addresses service.
type Address = Record

// Addresses is the Addresses (Location) service client.
type Addresses struct {
	*Client
}

// NewAddresses wraps c as an Addresses client.
func NewAddresses(c *Client) *Addresses {
	return &Addresses{Client: c}
}

// ListByUser fetches GET {base}?user_id={id}. A 404 means the user has no
// addresses. Records whose user_id disagrees with id are dropped.
func (a *Addresses) ListByUser(ctx context.Context, id int64) ([]Address, error) {
	const op = "list"
	query := url.Values{"user_id": []string{strconv.FormatInt(id, 10)}}
	res, err := a.do(ctx, op, http.MethodGet, a.URL(query), nil)
	if IsNotFound(err) {
		return []Address{}, nil
	}
	if err != nil {
		return nil, err
	}

	records, err := decodeRecords(res.Body)
	if err != nil {
		return nil, &Error{Upstream: a.name, Op: op, Reason: ReasonMalformed, Status: res.Status, Err: err}
	}

	addresses := make([]Address, 0, len(records))
	for _, r := range records {
		if r.matchesID("user_id", id) {
			addresses = append(addresses, r)
		}
	}
	return addresses, nil
}

// Create posts payload to {base} and returns the created address.
func (a *Addresses) Create(ctx context.Context, payload any) (Address, error) {
	const op = "create"
	res, err := a.do(ctx, op, http.MethodPost, a.URL(nil), payload)
	if err != nil {
		return nil, err
	}
	address, err := decodeRecord(res.Body)
	if err != nil {
		return nil, &Error{Upstream: a.name, Op: op, Reason: ReasonMalformed, Status: res.Status, Err: err}
	}
	return address, nil
}
