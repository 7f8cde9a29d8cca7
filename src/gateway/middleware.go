package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hyle-org/buy-my-tweet/src/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/rs/xid"
	"github.com/teivah/onecontext"
	"golang.org/x/time/rate"
)

const RequestIdHeader = "X-Request-Id"

var ErrRateLimited = errors.New("too many requests")

// Tags every request with an id, reuses the one sent by a proxy
func (self *Server) requestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIdHeader)
		if id == "" {
			id = xid.New().String()
		}
		c.Header(RequestIdHeader, id)
		c.Next()
	}
}

// Token bucket per client IP
func (self *Server) limit() gin.HandlerFunc {
	limiters := cache.New(10*time.Minute, 20*time.Minute)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !self.limiterFor(limiters, ip).Allow() {
			logger.LOGE(c, ErrRateLimited, http.StatusTooManyRequests).WithField("ip", ip).Debug("Rate limited")
			return
		}
		c.Next()
	}
}

// Concurrent first requests from one client share a single limiter
func (self *Server) limiterFor(limiters *cache.Cache, ip string) *rate.Limiter {
	limiter := rate.NewLimiter(rate.Limit(self.Config.Gateway.LimiterRate), self.Config.Gateway.LimiterBurst)
	if limiters.Add(ip, limiter, cache.DefaultExpiration) == nil {
		return limiter
	}

	v, found := limiters.Get(ip)
	if found {
		limiter = v.(*rate.Limiter)
	}
	// Refreshes expiration
	limiters.SetDefault(ip, limiter)
	return limiter
}

// Request is cancelled when the client goes away, the server stops or the request takes too long
func (self *Server) withTaskContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := onecontext.Merge(c.Request.Context(), self.Ctx)
		defer cancel()

		ctx, cancelTimeout := contextWithTimeout(ctx, self.Config.Gateway.ServerRequestTimeout)
		defer cancelTimeout()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Zero timeout means no limit
func contextWithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
