package http

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "no headers", want: UnknownClientIP},
		{
			name:    "forwarded for chain",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			want:    "203.0.113.7",
		},
		{
			name:    "forwarded for wins over real ip",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.2", "X-Real-IP": "203.0.113.9"},
			want:    "198.51.100.2",
		},
		{
			name:    "real ip",
			headers: map[string]string{"X-Real-IP": "203.0.113.9"},
			want:    "203.0.113.9",
		},
		{
			name:    "cloudflare",
			headers: map[string]string{"CF-Connecting-IP": "2001:db8::5"},
			want:    "2001:db8::5",
		},
		{
			name:    "blank first entry falls through",
			headers: map[string]string{"X-Forwarded-For": " , 10.0.0.1", "X-Real-IP": "8.8.8.8"},
			want:    "8.8.8.8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/log", nil)
			req.RemoteAddr = "192.0.2.1:5555"
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}

func TestReferrer(t *testing.T) {
	req := httptest.NewRequest("POST", "/log", nil)
	assert.Empty(t, Referrer(req))

	req.Header.Set("Referrer", "https://alt.example/")
	assert.Equal(t, "https://alt.example/", Referrer(req))

	req.Header.Set("Referer", "https://std.example/")
	assert.Equal(t, "https://std.example/", Referrer(req))
}
