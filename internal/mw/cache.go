package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

// teeWriter duplicates everything written to the response into a buffer so a
// successful body can be cached after the handler runs.
type teeWriter struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w teeWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w teeWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache is a middleware for in-memory caching of GET responses, keyed by
// request URI. Applied only to read endpoints (the roster); the ingestion
// path and the history read-back always hit the handler.
func Cache(store *cache.Cache, duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if hit, found := store.Get(key); found {
			replay(c, hit.(cachedResponse))
			return
		}

		tee := teeWriter{ResponseWriter: c.Writer, buf: bytes.NewBuffer(nil)}
		c.Writer = tee

		c.Next()

		// Only successful responses are worth replaying.
		if status := tee.Status(); status >= 200 && status < 300 {
			store.Set(key, cachedResponse{
				status:  status,
				headers: tee.Header().Clone(),
				body:    tee.buf.Bytes(),
			}, duration)
		}
	}
}

func replay(c *gin.Context, hit cachedResponse) {
	for k, v := range hit.headers {
		c.Writer.Header()[k] = v
	}
	c.Writer.WriteHeader(hit.status)
	c.Writer.Write(hit.body)
	c.Abort()
}
