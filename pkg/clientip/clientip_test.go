package clientip_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/apexhub/pkg/clientip"
)

func TestGetIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "direct connection",
			remoteAddr: "203.0.113.5:51234",
			want:       "203.0.113.5",
		},
		{
			name:       "x-forwarded-for single",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.7"},
			remoteAddr: "10.0.0.1:80",
			want:       "198.51.100.7",
		},
		{
			name:       "x-forwarded-for chain uses leftmost",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.2, 10.0.0.3"},
			remoteAddr: "10.0.0.1:80",
			want:       "198.51.100.7",
		},
		{
			name: "cloudflare header wins over x-forwarded-for",
			headers: map[string]string{
				"CF-Connecting-IP": "198.51.100.9",
				"X-Forwarded-For":  "198.51.100.7",
			},
			remoteAddr: "10.0.0.1:80",
			want:       "198.51.100.9",
		},
		{
			name:       "x-real-ip",
			headers:    map[string]string{"X-Real-IP": "198.51.100.8"},
			remoteAddr: "10.0.0.1:80",
			want:       "198.51.100.8",
		},
		{
			name:       "invalid header falls through to remote addr",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			remoteAddr: "203.0.113.5:51234",
			want:       "203.0.113.5",
		},
		{
			name:       "unspecified address rejected",
			headers:    map[string]string{"X-Real-IP": "0.0.0.0"},
			remoteAddr: "203.0.113.5:51234",
			want:       "203.0.113.5",
		},
		{
			name:       "ipv6",
			headers:    map[string]string{"X-Real-IP": "2001:db8::1"},
			remoteAddr: "10.0.0.1:80",
			want:       "2001:db8::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, clientip.GetIP(r))
		})
	}
}
