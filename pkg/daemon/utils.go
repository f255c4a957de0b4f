package daemon

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ginLogger writes one access log entry per request to logger.
func ginLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// other handler can change c.Path so:
		path := c.Request.URL.Path
		start := time.Now()
		c.Next()
		latency := int(math.Ceil(float64(time.Since(start).Nanoseconds()) / 1e6))
		statusCode := c.Writer.Status()
		dataLength := max(c.Writer.Size(), 0)

		entry := logger.WithFields(logrus.Fields{
			"statusCode": statusCode,
			"latency":    latency, // ms
			"method":     c.Request.Method,
			"path":       path,
			"clientIP":   c.ClientIP(),
			"dataLength": dataLength,
		})

		msg := fmt.Sprintf("%s %s %d (%dms)", c.Request.Method, path, statusCode, latency)
		switch {
		case len(c.Errors) > 0:
			entry.WithField("error", c.Errors.ByType(gin.ErrorTypePrivate).String()).Warn(msg)
		case statusCode >= http.StatusInternalServerError:
			entry.Error(msg)
		case statusCode >= http.StatusBadRequest:
			entry.Warn(msg)
		default:
			entry.Debug(msg)
		}
	}
}
