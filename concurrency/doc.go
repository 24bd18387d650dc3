// Package concurrency provides the primitives the service uses to bound and
// fan out work: a slot limiter for inbound requests and, in join, a
// parallel join with per-task outcomes.
package concurrency
