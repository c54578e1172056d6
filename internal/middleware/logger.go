package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs one line per request. Frame streams (SSE) stay open for the
// lifetime of a simulation, so the line carries the response size next to
// the elapsed time — a long latency with a growing byte count is a healthy
// stream, not a stall.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		size := c.Writer.Size()
		if size < 0 {
			size = 0
		}

		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		if len(c.Errors) > 0 {
			log.Printf("%s %s %d %dB %v %s error=%s",
				c.Request.Method, path, status, size, elapsed, c.ClientIP(),
				c.Errors.String())
			return
		}
		log.Printf("%s %s %d %dB %v %s",
			c.Request.Method, path, status, size, elapsed, c.ClientIP())
	}
}
