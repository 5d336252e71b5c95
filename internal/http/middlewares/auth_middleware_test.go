package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tiendahub/backoffice/internal/auth"
	"github.com/tiendahub/backoffice/internal/http/middlewares"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	verifyFn func(token string) (*auth.Claims, error)
}

func (f *fakeVerifier) Verify(token string) (*auth.Claims, error) {
	if f.verifyFn != nil {
		return f.verifyFn(token)
	}
	return nil, auth.ErrInvalidToken
}

func protectedRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	handlers := append([]gin.HandlerFunc{}, mw...)
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := middlewares.UserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": id})
	})

	r.GET("/protected", handlers...)
	return r
}

func TestRequireAuth(t *testing.T) {
	goodClaims := &auth.Claims{UserID: 42, Email: "ana@example.com", Roles: []string{"admin"}}

	verifier := &fakeVerifier{verifyFn: func(token string) (*auth.Claims, error) {
		if token == "good" {
			return goodClaims, nil
		}
		return nil, auth.ErrInvalidToken
	}}

	mw := middlewares.NewAuthMiddleware(verifier)
	r := protectedRouter(mw.RequireAuth())

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer good", http.StatusOK},
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic Zm9vOmJhcg==", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"bad token", "Bearer bad", http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d (body=%s)", tc.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

// Every rejection must carry the same body, whatever the actual failure.
func TestRequireAuth_UniformRejection(t *testing.T) {
	mw := middlewares.NewAuthMiddleware(&fakeVerifier{})
	r := protectedRouter(mw.RequireAuth())

	var bodies []string

	for _, header := range []string{"", "Bearer expired-token", "Bearer garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, w.Code)
		}
		bodies = append(bodies, w.Body.String())
	}

	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Fatalf("rejection bodies differ: %q vs %q", bodies[0], bodies[i])
		}
	}
}

func TestRequireRoles(t *testing.T) {
	verifier := &fakeVerifier{verifyFn: func(token string) (*auth.Claims, error) {
		switch token {
		case "admin":
			return &auth.Claims{UserID: 1, Roles: []string{"admin"}}, nil
		case "seller":
			return &auth.Claims{UserID: 2, Roles: []string{"seller"}}, nil
		}
		return nil, auth.ErrInvalidToken
	}}

	mw := middlewares.NewAuthMiddleware(verifier)
	r := protectedRouter(mw.RequireAuth(), mw.RequireRoles("admin"))

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"admin passes", "admin", http.StatusOK},
		{"seller forbidden", "seller", http.StatusForbidden},
		{"anonymous unauthorized", "", http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d (body=%s)", tc.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRequireRoles_WithoutRequireAuth(t *testing.T) {
	mw := middlewares.NewAuthMiddleware(&fakeVerifier{})
	r := protectedRouter(mw.RequireRoles("admin"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity context, got %d", w.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := middlewares.NewRateLimiter(2, time.Minute)

	r := gin.New()
	r.POST("/login", rl.RateLimiterMiddleware(middlewares.KeyByIP), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	// first two pass, third is throttled
	if code := do("10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("request 1: expected 200, got %d", code)
	}
	if code := do("10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("request 2: expected 200, got %d", code)
	}
	if code := do("10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("request 3: expected 429, got %d", code)
	}

	// a different client is unaffected
	if code := do("10.0.0.2:1234"); code != http.StatusOK {
		t.Fatalf("other client: expected 200, got %d", code)
	}
}
