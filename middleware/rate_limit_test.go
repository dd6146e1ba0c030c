package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func searchRouter(mw gin.HandlerFunc, sessionID string) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler())
	r.Use(func(c *gin.Context) {
		if sessionID != "" {
			c.Set(SessionIDKey, sessionID)
		}
		c.Next()
	})
	r.Use(mw)
	r.POST("/search", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func doSearch(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/search", nil)
	req.RemoteAddr = "192.168.1.1:1234"
	r.ServeHTTP(w, req)
	return w
}

func TestSearchRateLimiter_UnderLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client, mock := redismock.NewClientMock()
	mock.ExpectTxPipeline()
	mock.ExpectIncr("ratelimit:search:s-1").SetVal(3)
	mock.ExpectExpire("ratelimit:search:s-1", time.Minute).SetVal(true)
	mock.ExpectTxPipelineExec()

	w := doSearch(searchRouter(SearchRateLimiter(client, 5, time.Minute), "s-1"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Remaining"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchRateLimiter_OverLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client, mock := redismock.NewClientMock()
	mock.ExpectTxPipeline()
	mock.ExpectIncr("ratelimit:search:192.168.1.1").SetVal(6)
	mock.ExpectExpire("ratelimit:search:192.168.1.1", time.Minute).SetVal(true)
	mock.ExpectTxPipelineExec()

	w := doSearch(searchRouter(SearchRateLimiter(client, 5, time.Minute), ""))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchRateLimiter_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := doSearch(searchRouter(SearchRateLimiter(nil, 5, time.Minute), "s-1"))
	assert.Equal(t, http.StatusOK, w.Code)

	client, mock := redismock.NewClientMock()
	w = doSearch(searchRouter(SearchRateLimiter(client, 0, time.Minute), "s-1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchRateLimiter_RedisFailureLetsRequestThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client, _ := redismock.NewClientMock()

	w := doSearch(searchRouter(SearchRateLimiter(client, 5, time.Minute), "s-1"))
	assert.Equal(t, http.StatusOK, w.Code)
}
