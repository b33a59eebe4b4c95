package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(rl *IPRateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestIPRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := NewIPRateLimiter(1, 2, time.Minute)
	defer rl.StopCleanup()
	router := newLimitedRouter(rl)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestIPRateLimiter_IsolatesClients(t *testing.T) {
	rl := NewIPRateLimiter(1, 1, time.Minute)
	defer rl.StopCleanup()
	router := newLimitedRouter(rl)

	first := httptest.NewRequest(http.MethodGet, "/ping", nil)
	first.Header.Set("X-Real-IP", "10.0.0.1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, first)
	assert.Equal(t, http.StatusOK, w.Code)

	// 10.0.0.1 的桶已空，另一个 IP 不受影响
	other := httptest.NewRequest(http.MethodGet, "/ping", nil)
	other.Header.Set("X-Real-IP", "10.0.0.2")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, other)
	assert.Equal(t, http.StatusOK, w.Code)
}

// lastSeen 由请求 goroutine 与清理 goroutine 并发访问，
// -race 下必须干净
func TestClientLimiter_ConcurrentTouchAndRead(t *testing.T) {
	client := &clientLimiter{}
	client.touch()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				client.touch()
				_ = time.Unix(0, client.lastSeen.Load())
			}
		}()
	}
	wg.Wait()

	assert.WithinDuration(t, time.Now(), time.Unix(0, client.lastSeen.Load()), time.Second)
}
