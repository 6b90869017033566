package jsonquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"example.com/api", "http://example.com/api"},
		{"  example.com  ", "http://example.com"},
		{"localhost:8080/x?y=1", "http://localhost:8080/x?y=1"},
		{"http://example.com", "http://example.com"},
		{"https://example.com/a", "https://example.com/a"},
		{"HTTPS://EXAMPLE.COM", "HTTPS://EXAMPLE.COM"},
		{"svn+ssh://host/repo", "svn+ssh://host/repo"},
		{"//example.com/p", "http://example.com/p"},
		{"", "http://"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, NormalizeURL(tt.input))
		})
	}
}
