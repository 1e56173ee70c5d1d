package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTP_PaginationParams(t *testing.T) {
	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 50, 0},
		{"?limit=10&offset=20", 10, 20},
		{"?limit=0", 50, 0},
		{"?limit=9999", 50, 0},
		{"?limit=abc&offset=-5", 50, 0},
		{"?limit=500", 500, 0},
	}

	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)
		limit, offset := paginationParams(r)
		assert.Equal(t, tc.wantLimit, limit, tc.query)
		assert.Equal(t, tc.wantOffset, offset, tc.query)
	}
}

func TestHTTP_GetIPAddress(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.4:1234"
	assert.Equal(t, "198.51.100.4:1234", getIPAddress(r))

	r.Header.Set("X-Real-IP", "203.0.113.7")
	assert.Equal(t, "203.0.113.7", getIPAddress(r))

	// X-Forwarded-For wins over X-Real-IP.
	r.Header.Set("X-Forwarded-For", "192.0.2.1")
	assert.Equal(t, "192.0.2.1", getIPAddress(r))
}
