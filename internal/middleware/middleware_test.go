package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"multi-agent-collaboration/pkg/log"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		host    string
		allowed []string
		want    bool
	}{
		{"no origin header", "", "api.local:8000", []string{"http://localhost:8080"}, true},
		{"exact origin", "http://localhost:8080", "api.local:8000", []string{"http://localhost:8080"}, true},
		{"trailing slash in config", "http://localhost:8080", "api.local:8000", []string{"http://localhost:8080/"}, true},
		{"bare host entry", "https://app.example.com", "api.local", []string{"app.example.com"}, true},
		{"wildcard", "https://anything.dev", "api.local", []string{"*"}, true},
		{"other origin", "http://evil.test", "api.local:8000", []string{"http://localhost:8080"}, false},
		{"same host without list", "http://api.local:3000", "api.local:8000", nil, true},
		{"different host without list", "http://evil.test", "api.local:8000", nil, false},
		{"garbage origin", "://", "api.local", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := OriginAllowed(r, tt.allowed); got != tt.want {
				t.Errorf("OriginAllowed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCors(t *testing.T) {
	mw := New(log.NewNop(), []string{"http://localhost:8080"})

	router := gin.New()
	router.Use(mw.Cors())
	router.POST("/process", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("allowed origin gets headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/process", nil)
		r.Header.Set("Origin", "http://localhost:8080")
		router.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:8080" {
			t.Errorf("Allow-Origin = %q", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
			t.Errorf("Allow-Credentials = %q", got)
		}
	})

	t.Run("unknown origin gets no headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/process", nil)
		r.Header.Set("Origin", "http://evil.test")
		router.ServeHTTP(w, r)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Allow-Origin = %q, want empty", got)
		}
	})

	t.Run("preflight short circuits", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodOptions, "/process", nil)
		r.Header.Set("Origin", "http://localhost:8080")
		router.ServeHTTP(w, r)

		if w.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", w.Code)
		}
	})
}

func TestThrottle(t *testing.T) {
	th := NewThrottle(10) // burst 1

	if err := th.Allow("client-a"); err != nil {
		t.Fatalf("first request: %v", err)
	}
	err := th.Allow("client-a")
	if !errors.Is(err, ErrThrottled) {
		t.Fatalf("second request err = %v, want ErrThrottled", err)
	}
	if err := th.Allow("client-b"); err != nil {
		t.Errorf("other client throttled: %v", err)
	}

	th.SetRate(0)
	for i := 0; i < 5; i++ {
		if err := th.Allow("client-a"); err != nil {
			t.Fatalf("disabled throttle rejected request %d: %v", i, err)
		}
	}

	th.SetRate(600) // burst 60
	for i := 0; i < 60; i++ {
		if err := th.Allow("client-a"); err != nil {
			t.Fatalf("request %d rejected within burst: %v", i, err)
		}
	}
}
