package aggregator

import (
	"context"
	"fmt"

	"github.com/ncobase/composite/cache"
	"github.com/ncobase/composite/concurrency/join"
	"github.com/ncobase/composite/logging/logger"
	"github.com/ncobase/composite/upstream"
)

// Service fans out to the Users and Addresses services and assembles
// composite records.
type Service struct {
	users     *upstream.Users
	addresses *upstream.Addresses
	cache     *cache.Users
}

// New creates the aggregator. userCache may be nil.
func New(users *upstream.Users, addresses *upstream.Addresses, userCache *cache.Users) *Service {
	return &Service{
		users:     users,
		addresses: addresses,
		cache:     userCache,
	}
}

// fetched is the outcome of one fan-out.
type fetched struct {
	user      upstream.User
	addresses []upstream.Address
	failures  Failures
}

func (f *fetched) degradation() Degradation {
	if len(f.failures) == 0 {
		return Degradation{}
	}
	return Degradation{Partial: true, Failures: f.failures}
}

// fetch calls both upstreams concurrently. It fails with ErrUserNotFound
// when the Users service answers 404, and with *UnavailableError when
// neither part could be fetched.
func (s *Service) fetch(ctx context.Context, id int64) (*fetched, error) {
	results := join.All(ctx,
		join.Go(PartUser, func(ctx context.Context) (any, error) {
			return s.getUser(ctx, id)
		}),
		join.Go(PartAddresses, func(ctx context.Context) (any, error) {
			return s.addresses.ListByUser(ctx, id)
		}),
	)

	if upstream.IsNotFound(results.Err(PartUser)) {
		return nil, ErrUserNotFound
	}

	out := &fetched{failures: Failures{}}
	for name, err := range results.Failed() {
		out.failures[name] = failureOf(err)
	}

	if results.AllFailed() {
		return nil, &UnavailableError{Op: fmt.Sprintf("fetch user %d", id), Failures: out.failures}
	}
	if len(out.failures) > 0 {
		logger.Warnf(ctx, "user %d assembled partially: %v", id, (&UnavailableError{Op: "fetch", Failures: out.failures}).Error())
	}

	out.user, _ = join.Value[upstream.User](results, PartUser)
	out.addresses, _ = join.Value[[]upstream.Address](results, PartAddresses)
	return out, nil
}

// getUser reads through the user cache.
func (s *Service) getUser(ctx context.Context, id int64) (upstream.User, error) {
	if user, ok := s.cache.Get(ctx, id); ok {
		return user, nil
	}
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Put(ctx, id, user)
	return user, nil
}

// GetComposite returns the flat merge of the user and its first address.
// Degraded records carry partial and failures keys.
func (s *Service) GetComposite(ctx context.Context, id int64) (map[string]any, error) {
	f, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	out := mergeFlat(f.user, f.addresses)
	if d := f.degradation(); d.Partial {
		out[partialKey] = true
		out[failuresKey] = d.Failures
	}
	return out, nil
}

// GetProfile returns the user and all of its addresses.
func (s *Service) GetProfile(ctx context.Context, id int64) (*Profile, error) {
	f, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	addresses := f.addresses
	if addresses == nil && f.failures[PartAddresses] == nil {
		addresses = []upstream.Address{}
	}
	return &Profile{
		UserID:      id,
		User:        f.user,
		Addresses:   addresses,
		Degradation: f.degradation(),
	}, nil
}

// GetUserAddresses returns the addresses of a user. The user is looked up
// alongside so an unknown id yields ErrUserNotFound; a failing Users service
// only degrades the answer.
func (s *Service) GetUserAddresses(ctx context.Context, id int64) (*UserAddresses, error) {
	f, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.failures[PartAddresses] != nil {
		return nil, &UnavailableError{Op: fmt.Sprintf("list addresses of user %d", id), Failures: Failures{PartAddresses: f.failures[PartAddresses]}}
	}

	return &UserAddresses{
		UserID:      id,
		Addresses:   f.addresses,
		Degradation: f.degradation(),
	}, nil
}
