package aggregator

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/composite/logging/logger"
	"github.com/ncobase/composite/upstream"
)

// ErrInvalidRequest marks a request rejected before any upstream call.
var ErrInvalidRequest = errors.New("invalid request")

// CreateUserWithAddress creates a user, then an address owned by it. When
// the address cannot be created the user is deleted again and the call
// fails with *UnavailableError, or *RejectedError when the Addresses
// service refused the payload.
func (s *Service) CreateUserWithAddress(ctx context.Context, req *UsersWithAddressRequest) (*UsersWithAddressResponse, error) {
	if req == nil || req.User == nil || req.Address == nil {
		return nil, fmt.Errorf("%w: user and address are required", ErrInvalidRequest)
	}

	user, id, err := s.users.Create(ctx, req.User)
	if err != nil {
		return nil, writeError("create user", PartUser, err)
	}

	address, err := s.addresses.Create(ctx, &boundAddress{UserID: id, AddressCreatePayload: req.Address})
	if err != nil {
		op := fmt.Sprintf("create address for user %d", id)
		if cerr := s.compensate(ctx, id); cerr != nil {
			return nil, &UnavailableError{Op: op, Failures: Failures{
				PartAddresses: failureOf(err),
				PartUser:      failureOf(cerr),
			}}
		}
		return nil, writeError(op, PartAddresses, err)
	}

	return &UsersWithAddressResponse{User: user, Address: address}, nil
}

// compensate deletes a user created by a failed composite write. The
// delete runs detached from ctx so a client that went away does not leave
// the user behind.
func (s *Service) compensate(ctx context.Context, id int64) error {
	cctx := context.WithoutCancel(ctx)
	if err := s.users.Delete(cctx, id); err != nil && !upstream.IsNotFound(err) {
		logger.Errorf(ctx, "compensation failed, user %d left behind: %v", id, err)
		return err
	}
	s.cache.Forget(cctx, id)
	logger.Infof(ctx, "user %d deleted after failed address creation", id)
	return nil
}

// CreateAddress creates an address for an existing user. It fails with
// ErrUserNotFound when the user does not exist.
func (s *Service) CreateAddress(ctx context.Context, req *CompositeAddressCreate) (*CompositeAddressResponse, error) {
	if req == nil || req.UserID <= 0 {
		return nil, fmt.Errorf("%w: user_id must be a positive integer", ErrInvalidRequest)
	}

	if _, err := s.getUser(ctx, req.UserID); err != nil {
		if upstream.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, &UnavailableError{Op: fmt.Sprintf("verify user %d", req.UserID), Failures: Failures{PartUser: failureOf(err)}}
	}

	address, err := s.addresses.Create(ctx, &boundAddress{UserID: req.UserID, AddressCreatePayload: &req.AddressCreatePayload})
	if err != nil {
		return nil, writeError(fmt.Sprintf("create address for user %d", req.UserID), PartAddresses, err)
	}

	return &CompositeAddressResponse{Address: address, UserID: req.UserID}, nil
}
