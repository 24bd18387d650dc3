package upstream

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressesListByUserShapes(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		count int
	}{
		{"single object", `{"user_id":1,"city":"Lagos"}`, 1},
		{"list", `[{"user_id":1,"city":"Lagos"},{"user_id":1,"city":"Abuja"}]`, 2},
		{"page", `{"data":[{"user_id":1,"city":"Lagos"}],"links":[],"total":1}`, 1},
		{"empty list", `[]`, 0},
		{"foreign records dropped", `[{"user_id":1,"city":"Lagos"},{"user_id":2,"city":"Accra"}]`, 1},
		{"no correlation key kept", `[{"city":"Lagos"}]`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, "addresses", time.Second, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/addresses", r.URL.Path)
				assert.Equal(t, "1", r.URL.Query().Get("user_id"))
				_, _ = w.Write([]byte(tt.body))
			})

			list, err := NewAddresses(c).ListByUser(context.Background(), 1)
			require.NoError(t, err)
			assert.Len(t, list, tt.count)
			for _, a := range list {
				assert.NotEqual(t, "Accra", a["city"])
			}
		})
	}
}

func TestAddressesListByUserNotFoundIsEmpty(t *testing.T) {
	c := newTestClient(t, "addresses", time.Second, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	list, err := NewAddresses(c).ListByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestAddressesListByUserMalformed(t *testing.T) {
	for _, body := range []string{`"x"`, `[1,2]`, `{"data":"nope"}`, `not json`, `[{"user_id":1}]]`, `{"user_id":1}}`, `{"user_id":1}]`} {
		t.Run(body, func(t *testing.T) {
			c := newTestClient(t, "addresses", time.Second, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			_, err := NewAddresses(c).ListByUser(context.Background(), 1)
			assert.Equal(t, ReasonMalformed, ReasonOf(err))
		})
	}
}

func TestAddressesCreate(t *testing.T) {
	c := newTestClient(t, "addresses", time.Second, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"550e8400","user_id":1,"city":"Seattle"}`))
	})

	addr, err := NewAddresses(c).Create(context.Background(), map[string]any{"user_id": 1})
	require.NoError(t, err)
	assert.Equal(t, "Seattle", addr["city"])
}
