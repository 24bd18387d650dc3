// Package aggregator builds composite user records from the Users and
// Addresses services.
//
// Both services are called concurrently for every read. The answer depends
// on which calls succeeded:
//
//   - both: the merged record.
//   - one: the merged record with partial set and a failure entry for the
//     missing part. When only the addresses arrived, the record keeps the
//     address user_id so it still names its user.
//   - none: *UnavailableError, rendered as 502, or 504 when every call
//     timed out.
//
// A 404 from the Users service always yields ErrUserNotFound. A 404 from
// the Addresses service means the user has no addresses.
package aggregator
