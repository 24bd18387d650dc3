package upstream

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// User is an opaque user record from the Users service.
type User = Record

// Users is the Users service client.
type Users struct {
	*Client
}

// NewUsers wraps c as a Users client.
func NewUsers(c *Client) *Users {
	return &Users{Client: c}
}

// Get fetches GET {base}/{id}. The body must be a JSON object whose id or
// user_id, when present, equals id.
func (u *Users) Get(ctx context.Context, id int64) (User, error) {
	const op = "get"
	res, err := u.do(ctx, op, http.MethodGet, u.URL(nil, strconv.FormatInt(id, 10)), nil)
	if err != nil {
		return nil, err
	}

	user, err := decodeRecord(res.Body)
	if err != nil {
		return nil, u.malformed(op, res.Status, err)
	}
	for _, key := range []string{"id", "user_id"} {
		if !user.matchesID(key, id) {
			return nil, u.malformed(op, res.Status, fmt.Errorf("%s %v does not match requested id %d", key, user[key], id))
		}
	}
	return user, nil
}

// Create posts payload to {base} and returns the created user, which must
// carry an integer id or user_id.
func (u *Users) Create(ctx context.Context, payload any) (User, int64, error) {
	const op = "create"
	res, err := u.do(ctx, op, http.MethodPost, u.URL(nil), payload)
	if err != nil {
		return nil, 0, err
	}

	user, err := decodeRecord(res.Body)
	if err != nil {
		return nil, 0, u.malformed(op, res.Status, err)
	}
	id, ok := UserID(user)
	if !ok {
		return nil, 0, u.malformed(op, res.Status, fmt.Errorf("created user has no integer id"))
	}
	return user, id, nil
}

// Delete removes {base}/{id}.
func (u *Users) Delete(ctx context.Context, id int64) error {
	_, err := u.do(ctx, "delete", http.MethodDelete, u.URL(nil, strconv.FormatInt(id, 10)), nil)
	return err
}

func (u *Users) malformed(op string, status int, err error) error {
	return &Error{Upstream: u.name, Op: op, Reason: ReasonMalformed, Status: status, Err: err}
}

// UserID returns the identifier of a user record, read from id then user_id.
func UserID(user User) (int64, bool) {
	if id, ok := user.ID("id"); ok {
		return id, true
	}
	return user.ID("user_id")
}
