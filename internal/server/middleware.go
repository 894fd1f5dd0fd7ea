package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Zachkp/portfolio/internal/log"
	"github.com/Zachkp/portfolio/internal/metrics"
)

const (
	requestIDHeader = "X-Request-ID"
	clientHashKey   = "client_hash"
)

// requestID tags every request with an ID, reusing a sane inbound one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(log.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// clientHash stores the hashed client IP for later handlers.
func clientHash(anon *Anonymizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(clientHashKey, anon.Hash(c.ClientIP()))
		c.Next()
	}
}

// requestLogger logs one line per request. Asset requests are logged at
// debug level; the client hash is left out for visitors sending DNT.
func requestLogger(logger zerolog.Logger, base string) gin.HandlerFunc {
	quiet := []string{base + "static/", base + "images/", base + "project-image/", base + "metrics", base + "health"}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		p := c.Request.URL.Path
		level := zerolog.InfoLevel
		for _, prefix := range quiet {
			if strings.HasPrefix(p, prefix) {
				level = zerolog.DebugLevel
				break
			}
		}
		status := c.Writer.Status()
		if status >= 500 {
			level = zerolog.ErrorLevel
		}

		l := log.FromContext(c.Request.Context(), logger)
		ev := l.WithLevel(level).
			Str("event", "http.request").
			Str("method", c.Request.Method).
			Str("path", p).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Int("bytes", c.Writer.Size())
		if !doNotTrack(c) {
			ev = ev.Str("client", c.GetString(clientHashKey))
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Msg("request")
	}
}

// observe records request latency by matched route.
func observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(route, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
