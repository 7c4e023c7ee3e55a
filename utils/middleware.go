package utils

import (
	"strconv"
	"time"

	"skinviz/logger"

	"github.com/gin-gonic/gin"
)

// Cache-control max-age values, in seconds
const (
	CacheNoCache = 0
	CacheImage   = 7 * 86400 // rendered images never change once stored
)

// SetCacheControl sets a private cache-control header, "no-cache" for CacheNoCache
func SetCacheControl(c *gin.Context, maxAge int) {
	if maxAge == CacheNoCache {
		c.Header("cache-control", "no-cache")
		return
	}
	c.Header("cache-control", "private, max-age="+strconv.Itoa(maxAge))
}

// CacheControl applies SetCacheControl before the handler, which may override it
func CacheControl(maxAge int) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetCacheControl(c, maxAge)
		c.Next()
	}
}

type errorLogWriter struct {
	gin.ResponseWriter
	gc *gin.Context
}

func (w errorLogWriter) Write(b []byte) (int, error) {
	if status := w.Status(); status >= 400 && len(b) < 4096 {
		logger.Debug(logger.Fields{
			"status": status,
			"method": w.gc.Request.Method,
			"path":   w.gc.Request.URL.Path,
		}, string(b))
	}
	return w.ResponseWriter.Write(b)
}

// ErrorLogMiddleware logs error response bodies at debug level and slow requests
// at warn level. It must run outside of gzip.
func ErrorLogMiddleware(c *gin.Context) {
	start := time.Now()
	c.Writer = &errorLogWriter{gc: c, ResponseWriter: c.Writer}
	c.Next()
	if d := time.Since(start); d > 5*time.Second {
		logger.Warn(logger.Fields{"path": c.Request.URL.Path, "ms": d.Milliseconds()}, "Slow request")
	}
}
