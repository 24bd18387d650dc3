package nanoid

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	defaultSize = 16

	// Alphanumeric is the alphabet of String.
	Alphanumeric = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

func getSize(l ...int) int {
	size := defaultSize
	if len(l) > 0 && l[0] > 0 {
		size = l[0]
	}
	return size
}

// String generate optional length alphanumeric nanoid, safe in headers and logs
func String(l ...int) string {
	return gonanoid.MustGenerate(Alphanumeric, getSize(l...))
}
