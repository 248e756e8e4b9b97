package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactQueryString(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"empty", "", ""},
		{"no sensitive params", "limit=10&offset=20", "limit=10&offset=20"},
		{"token redacted", "token=abc123", "token=%5BREDACTED%5D"},
		{"mixed case name", "Token=abc123", "Token=%5BREDACTED%5D"},
		{"invalid query returned as-is", "%zz", "%zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, redactQueryString(tt.query))
		})
	}
}

func TestRedactPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"non-portal path untouched", "/api/v1/contacts", "/api/v1/contacts"},
		{"portal token masked", "/portal/deadbeef/invoices", "/portal/[REDACTED]/invoices"},
		{"bare portal token masked", "/portal/deadbeef", "/portal/[REDACTED]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, redactPath(tt.path))
		})
	}
}
