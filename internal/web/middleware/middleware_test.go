package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/framefill/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.RemoteAddr))
	})
}

func TestAPIKeyAuth(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.SecurityConfig
		key        string
		wantStatus int
	}{
		{"disabled passes", config.SecurityConfig{}, "", http.StatusOK},
		{"missing key", config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}}, "", http.StatusUnauthorized},
		{"wrong key", config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}}, "k2", http.StatusForbidden},
		{"valid key", config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1", "k2"}}, "k2", http.StatusOK},
		{"no keys configured", config.SecurityConfig{RequireAPIKey: true}, "k1", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			h := APIKeyAuth(&cfg)(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/api/frames", nil)
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name     string
		trusted  []string
		remote   string
		headers  map[string]string
		wantAddr string
	}{
		{
			name:     "untrusted proxy ignored",
			trusted:  []string{"10.0.0.0/8"},
			remote:   "192.168.1.5:1234",
			headers:  map[string]string{"X-Real-IP": "1.2.3.4"},
			wantAddr: "192.168.1.5:1234",
		},
		{
			name:     "trusted proxy real ip",
			trusted:  []string{"10.0.0.0/8"},
			remote:   "10.1.2.3:1234",
			headers:  map[string]string{"X-Real-IP": "1.2.3.4"},
			wantAddr: "1.2.3.4",
		},
		{
			name:     "trusted single address forwarded for",
			trusted:  []string{"127.0.0.1"},
			remote:   "127.0.0.1:9999",
			headers:  map[string]string{"X-Forwarded-For": "5.6.7.8, 10.0.0.1"},
			wantAddr: "5.6.7.8",
		},
		{
			name:     "invalid header value ignored",
			trusted:  []string{"127.0.0.1/32"},
			remote:   "127.0.0.1:9999",
			headers:  map[string]string{"X-Real-IP": "not-an-ip"},
			wantAddr: "127.0.0.1:9999",
		},
		{
			name:     "invalid trusted entry skipped",
			trusted:  []string{"garbage"},
			remote:   "127.0.0.1:9999",
			headers:  map[string]string{"X-Real-IP": "1.2.3.4"},
			wantAddr: "127.0.0.1:9999",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := TrustedRealIP(tt.trusted)(okHandler())
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if got := rec.Body.String(); got != tt.wantAddr {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.wantAddr)
			}
		})
	}
}

func TestLogger_CapturesStatus(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}
