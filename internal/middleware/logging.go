package middleware

import (
	"strconv"
	"time"

	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cgmis/guidance/internal/pkg/logger"
	"github.com/cgmis/guidance/internal/pkg/metrics"
)

// RequestIDHeader carries the per-request correlation ID
const RequestIDHeader = "X-Request-ID"

const contextRequestID = "requestID"

// RequestID reuses an incoming X-Request-ID or generates one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one structured access log line per request
func RequestLogger(skipPaths ...string) gin.HandlerFunc {
	return ginlogger.SetLogger(
		ginlogger.WithLogger(func(c *gin.Context, _ zerolog.Logger) zerolog.Logger {
			return logger.Get().With().
				Str("request_id", c.GetString(contextRequestID)).
				Logger()
		}),
		ginlogger.WithSkipPath(skipPaths),
		ginlogger.WithUTC(true),
	)
}

// Metrics records request counts and latency by matched route
func Metrics(recorder *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.Observe(route, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
