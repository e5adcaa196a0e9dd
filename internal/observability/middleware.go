package observability

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Instrument logs and records every request handled by the inspector. Handler
// errors attached with c.Error are logged with the request.
func Instrument(node string, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RecordHTTPRequest(node, c.Request.Method, route, status, elapsed)

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		default:
			event = logger.Debug()
		}
		if last := c.Errors.Last(); last != nil {
			event = event.Err(last.Err)
		}
		event.
			Str("node", node).
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Int64("req_bytes", c.Request.ContentLength).
			Int("resp_bytes", c.Writer.Size()).
			Dur("duration", elapsed).
			Msg("http_request")
	}
}
