package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	responseMetaKey = "response_meta"
	cacheHitKey     = "cache_hit"
)

// WithResponseMeta seeds a per-request metadata map and records wall-clock
// processing time after the handler chain finishes. Handlers add to the map
// via SetCacheHit and read it back with ExtractMeta when building envelopes.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, map[string]interface{}{})
		start := time.Now()

		c.Next()

		meta := metaMap(c)
		if meta == nil {
			return
		}
		if _, ok := meta["processing_time_ms"]; !ok {
			meta["processing_time_ms"] = time.Since(start).Milliseconds()
		}
	}
}

// SetCacheHit marks whether the response was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	meta := metaMap(c)
	if meta == nil {
		meta = map[string]interface{}{}
		c.Set(responseMetaKey, meta)
	}
	meta[cacheHitKey] = hit
}

// ExtractMeta returns the request's metadata map, or nil when
// WithResponseMeta was not installed.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	return metaMap(c)
}

func metaMap(c *gin.Context) map[string]interface{} {
	v, ok := c.Get(responseMetaKey)
	if !ok {
		return nil
	}
	meta, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	return meta
}
