package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestLimiterAllowEnforcesLimit(t *testing.T) {
	l := NewLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !l.Allow("user:1") {
			t.Fatalf("request %d rejected inside the window budget", i+1)
		}
	}
	if l.Allow("user:1") {
		t.Error("request over the budget was allowed")
	}
}

func TestLimiterWindowResets(t *testing.T) {
	l := NewLimiter(1, 20*time.Millisecond)
	if !l.Allow("ip:1.2.3.4") {
		t.Fatal("first request rejected")
	}
	if l.Allow("ip:1.2.3.4") {
		t.Fatal("second request in the same window allowed")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.Allow("ip:1.2.3.4") {
		t.Error("request after window expiry rejected")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := NewLimiter(1, time.Minute)
	if !l.Allow("user:1") {
		t.Fatal("first key rejected")
	}
	if !l.Allow("user:2") {
		t.Error("second key shares the first key's budget")
	}
}

func TestRateLimitByIPReturns429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitByIP(NewLimiter(2, time.Minute)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i, want := range codes {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("request %d: status = %d, want %d", i+1, w.Code, want)
		}
	}
}

func TestRateLimitByUserBucketsPerUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var user uint
	r.Use(func(c *gin.Context) {
		c.Set("user_id", user)
	})
	r.Use(RateLimitByUser(NewLimiter(1, time.Minute)))
	r.GET("/pay", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(id uint) int {
		user = id
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/pay", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		return w.Code
	}

	if got := do(1); got != http.StatusOK {
		t.Fatalf("user 1 first request: status = %d", got)
	}
	if got := do(1); got != http.StatusTooManyRequests {
		t.Errorf("user 1 second request: status = %d, want 429", got)
	}
	// Same IP, different user: a fresh budget.
	if got := do(2); got != http.StatusOK {
		t.Errorf("user 2 first request: status = %d, want 200", got)
	}
}
