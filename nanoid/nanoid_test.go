package nanoid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	id := String()
	assert.Len(t, id, defaultSize)
	for _, r := range id {
		assert.True(t, strings.ContainsRune(Alphanumeric, r), "unexpected rune %q", r)
	}
	assert.Len(t, String(8), 8)
	assert.NotEqual(t, String(), String())
}

func TestStringNonPositiveLength(t *testing.T) {
	assert.Len(t, String(0), defaultSize)
	assert.Len(t, String(-3), defaultSize)
}
