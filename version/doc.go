// Package version holds build metadata set with ldflags:
//
//	go build -ldflags "\
//	  -X github.com/ncobase/composite/version.Version=1.2.3 \
//	  -X github.com/ncobase/composite/version.Revision=abc123" ./cmd/composite
package version
