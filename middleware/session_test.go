package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware(), ConsoleSession("console_session", false))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, SessionID(c)+"|"+c.GetString(RequestIDKey))
	})
	return r
}

func TestConsoleSession_IssuesCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	sessionRouter().ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "console_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	_, err := uuid.Parse(cookies[0].Value)
	require.NoError(t, err)
	assert.Contains(t, w.Body.String(), cookies[0].Value+"|")
}

func TestConsoleSession_KeepsValidCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := uuid.NewString()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "console_session", Value: id})
	sessionRouter().ServeHTTP(w, req)

	assert.Empty(t, w.Result().Cookies())
	assert.Contains(t, w.Body.String(), id+"|")
}

func TestConsoleSession_ReplacesForgedCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "console_session", Value: "../../etc"})
	sessionRouter().ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, "../../etc", cookies[0].Value)
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "lb-123")
	sessionRouter().ServeHTTP(w, req)
	assert.Equal(t, "lb-123", w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), "|lb-123")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/", nil)
	sessionRouter().ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
