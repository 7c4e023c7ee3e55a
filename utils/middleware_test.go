package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCacheControl(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorLogMiddleware, CacheControl(CacheNoCache))
	router.GET("/default", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/image", func(c *gin.Context) {
		SetCacheControl(c, CacheImage)
		c.String(http.StatusOK, "ok")
	})
	router.GET("/missing", func(c *gin.Context) { c.String(http.StatusNotFound, "gone") })

	tests := []struct {
		path   string
		code   int
		header string
	}{
		{"/default", http.StatusOK, "no-cache"},
		{"/image", http.StatusOK, "private, max-age=604800"},
		{"/missing", http.StatusNotFound, "no-cache"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.code {
				t.Errorf("code = %d, want %d", rec.Code, tt.code)
			}
			if got := rec.Header().Get("Cache-Control"); got != tt.header {
				t.Errorf("cache-control = %q, want %q", got, tt.header)
			}
		})
	}
}
