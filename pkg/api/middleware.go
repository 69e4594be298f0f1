package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bezalel6/computer-chess/pkg/logging"
)

// requestLogger logs each request at Debug, and at Warn when it
// failed.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []logging.Field{
			logging.StringField("method", c.Request.Method),
			logging.StringField("path", c.Request.URL.Path),
			logging.IntField("status", c.Writer.Status()),
			logging.DurationField("took", time.Since(start)),
		}
		if c.Writer.Status() >= http.StatusBadRequest {
			logger.Warn("request failed", fields...)
			return
		}
		logger.Debug("request served", fields...)
	}
}

// bearerAuth rejects requests without the expected bearer token.
func bearerAuth(token string) gin.HandlerFunc {
	want := []byte(token)
	return func(c *gin.Context) {
		got := []byte(extractBearerToken(c))
		if len(got) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error: "missing or invalid bearer token",
				Code:  "UNAUTHORIZED",
			})
			return
		}
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
