package logger

import (
	"testing"

	"github.com/ncobase/composite/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func testDesensitizer() *Desensitizer {
	return NewDesensitizer(&config.Desensitization{
		Enabled:         true,
		SensitiveFields: []string{"password", "Token"},
		MaskChar:        "*",
		MaskLength:      4,
	})
}

func TestDesensitizeFields(t *testing.T) {
	d := testDesensitizer()

	out := d.DesensitizeFields(logrus.Fields{
		"password":     "Passw0rd1",
		"access_token": "abc",
		"email":        "amy@example.com",
		"body": map[string]any{
			"user": map[string]any{"first_name": "Amy", "password": "x"},
		},
	})

	assert.Equal(t, "****", out["password"])
	assert.Equal(t, "****", out["access_token"])
	assert.Equal(t, "amy@example.com", out["email"])
	user := out["body"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "****", user["password"])
	assert.Equal(t, "Amy", user["first_name"])
}

func TestDeepDesensitizeStruct(t *testing.T) {
	type payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	out := testDesensitizer().DeepDesensitize(&payload{Email: "a@b.c", Password: "secret"})
	assert.Equal(t, map[string]any{"email": "a@b.c", "password": "****"}, out)
}

func TestDesensitizerDisabled(t *testing.T) {
	fields := logrus.Fields{"password": "p"}
	assert.Equal(t, fields, NewDesensitizer(nil).DesensitizeFields(fields))

	var d *Desensitizer
	assert.Equal(t, fields, d.DesensitizeFields(fields))
}
