package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	proxies := ParseProxies([]string{"10.0.0.0/8", "192.0.2.7", "not-an-ip"})
	assert.Len(t, proxies, 2)

	cases := []struct {
		name   string
		remote string
		fwd    string
		want   string
	}{
		{"direct client", "198.51.100.4:5000", "", "198.51.100.4"},
		{"untrusted peer sets header", "198.51.100.4:5000", "203.0.113.9", "198.51.100.4"},
		{"trusted peer", "192.0.2.7:443", "203.0.113.9", "203.0.113.9"},
		{"chain of trusted hops", "10.1.2.3:443", "203.0.113.9, 10.0.0.5", "203.0.113.9"},
		{"client prepends a fake hop", "10.1.2.3:443", "1.1.1.1, 203.0.113.9", "203.0.113.9"},
		{"trusted peer without header", "10.1.2.3:443", "", "10.1.2.3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tc.remote
			if tc.fwd != "" {
				r.Header.Set("X-Forwarded-For", tc.fwd)
			}
			assert.Equal(t, tc.want, proxies.ClientIP(r))
		})
	}
}
