package handlers

import (
	"context"
	"time"

	"skinviz/cache"
	"skinviz/config"
	"skinviz/processing"
)

type Response struct {
	Error string `json:"error"`
}

var (
	// Predefined errors
	OKResponse            = Response{}
	NotFoundResponse      = Response{"not found"}
	DBError1Response      = Response{"DB Error 1"}
	DBError2Response      = Response{"DB Error 2"}
	StorageErrorResponse  = Response{"Storage Error"}
	RenderErrorResponse   = Response{"Render Error"}
	NoFileResponse        = Response{"file missing"}
	TooLargeResponse      = Response{"file too large"}
	InvalidImageResponse  = Response{"cannot decode image"}
	InvalidBundleResponse = Response{"invalid result bundle"}
)

var (
	compositor    *processing.Compositor
	responseCache cache.Cache
)

// Init sets the collaborators shared by all handlers
func Init(c *processing.Compositor, rc cache.Cache) {
	compositor = c
	responseCache = rc
}

func cacheTTL() time.Duration {
	return time.Duration(config.CACHE_TTL_SECONDS) * time.Second
}

func cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if responseCache == nil {
		return nil, false
	}
	data, err := responseCache.Get(ctx, key)
	return data, err == nil
}

func cacheSet(ctx context.Context, key string, value []byte) {
	if responseCache == nil {
		return
	}
	_ = responseCache.Set(ctx, key, value, cacheTTL())
}

func cacheDelete(ctx context.Context, key string) {
	if responseCache == nil {
		return
	}
	_ = responseCache.Delete(ctx, key)
}
