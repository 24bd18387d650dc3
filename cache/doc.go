// Package cache provides the redis backed read-through cache for user
// records.
package cache
