package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhitelistValidator_IsAllowed(t *testing.T) {
	v := NewWhitelistValidator([]string{"http://localhost:3000", " https://App.Example.com/ ", ""})

	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:3000", true},
		{"HTTP://LOCALHOST:3000", true},
		{"http://localhost:3000/", true},
		{"https://app.example.com", true},
		{"http://localhost:3001", false},
		{"https://app.example.com.evil.io", false},
		{"", false},
		{"   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsAllowed(tt.origin))
		})
	}
}

func TestWhitelistValidator_Wildcard(t *testing.T) {
	v := NewWhitelistValidator([]string{"*"})
	assert.True(t, v.IsAllowed("https://any.example"))
	assert.False(t, v.IsAllowed(""))
}

func TestWhitelistValidator_GetAllowedOriginsIsACopy(t *testing.T) {
	v := NewWhitelistValidator([]string{"https://a.example/", "https://b.example"})

	got := v.GetAllowedOrigins()
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, got)

	got[0] = "mutated"
	assert.Equal(t, "https://a.example", v.GetAllowedOrigins()[0])
}
