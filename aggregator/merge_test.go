package aggregator

import (
	"testing"

	"github.com/ncobase/composite/upstream"
	"github.com/stretchr/testify/assert"
)

func TestMergeFlat(t *testing.T) {
	tests := []struct {
		name      string
		user      upstream.User
		addresses []upstream.Address
		want      map[string]any
	}{
		{
			name:      "example",
			user:      upstream.User{"id": 1, "name": "Alice"},
			addresses: []upstream.Address{{"user_id": 1, "city": "Lagos"}},
			want:      map[string]any{"id": 1, "name": "Alice", "city": "Lagos"},
		},
		{
			name: "no addresses",
			user: upstream.User{"id": 1},
			want: map[string]any{"id": 1},
		},
		{
			name:      "no user",
			addresses: []upstream.Address{{"user_id": 1, "city": "Lagos"}},
			want:      map[string]any{"user_id": 1, "city": "Lagos"},
		},
		{
			name:      "address id does not replace user id",
			user:      upstream.User{"id": 1},
			addresses: []upstream.Address{{"id": "a1", "user_id": 1}},
			want:      map[string]any{"id": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mergeFlat(tt.user, tt.addresses))
		})
	}
}
