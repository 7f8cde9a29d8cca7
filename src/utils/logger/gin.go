package logger

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const ginLoggerKey = "buy-my-tweet.logger"

// Puts a request scoped logger into the gin context
func Middleware(tag string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ginLoggerKey, NewSublogger(tag).
			WithField("method", c.Request.Method).
			WithField("path", c.FullPath()).
			WithField("request_id", c.Writer.Header().Get("X-Request-Id")))
		c.Next()
	}
}

// Request scoped logger
func LOG(c *gin.Context) *logrus.Entry {
	v, ok := c.Get(ginLoggerKey)
	if ok {
		if log, ok := v.(*logrus.Entry); ok {
			return log
		}
	}
	return NewSublogger("gateway")
}

// Request scoped logger that also aborts the request with an error response.
// Internal errors are not exposed to the client.
func LOGE(c *gin.Context, err error, status int) *logrus.Entry {
	log := LOG(c).WithField("status", status)
	if err != nil {
		log = log.WithError(err)
	}

	msg := "Internal server error"
	if status < 500 && err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
	return log
}
