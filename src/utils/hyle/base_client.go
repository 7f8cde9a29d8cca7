package hyle

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hyle-org/buy-my-tweet/src/utils/config"
	"github.com/hyle-org/buy-my-tweet/src/utils/logger"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

// Non-success response from a Hyle API
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (self *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", self.Status)
}

type BaseClient struct {
	config  *config.Hyle
	log     *logrus.Entry
	client  *resty.Client
	limiter ratelimit.Limiter
}

func newBaseClient(config *config.Hyle, url, name string) (self *BaseClient) {
	self = new(BaseClient)
	self.log = logger.NewSublogger(name)
	self.config = config

	if config.RequestsPerSecond > 0 {
		self.limiter = ratelimit.New(config.RequestsPerSecond)
	} else {
		self.limiter = ratelimit.NewUnlimited()
	}

	self.log.WithField("url", url).Debug("Creating client")
	self.client = resty.New().
		SetBaseURL(strings.TrimSuffix(url, "/")).
		SetTimeout(self.config.RequestTimeout).
		SetHeader("User-Agent", "buy-my-tweet").
		SetHeader("Content-Type", "application/json").
		SetRetryCount(self.config.RetryCount).
		SetTransport(self.createTransport()).
		AddRetryCondition(self.onRetryCondition).
		OnBeforeRequest(self.onRateLimit).
		OnAfterResponse(self.onStatusToError)
	return
}

func (self *BaseClient) createTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   self.config.DialerTimeout,
		KeepAlive: self.config.DialerKeepAlive,
	}

	return &http.Transport{
		// Some config options disable http2, try it anyway
		ForceAttemptHTTP2: true,

		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   self.config.TLSHandshakeTimeout,
		ExpectContinueTimeout: 1 * time.Second,

		IdleConnTimeout:     self.config.IdleConnTimeout,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
	}
}

// Blocks until the request fits in the rate limit
func (self *BaseClient) onRateLimit(c *resty.Client, req *resty.Request) error {
	self.limiter.Take()
	return nil
}

// Converts HTTP status to errors
func (self *BaseClient) onStatusToError(c *resty.Client, resp *resty.Response) error {
	// Non-success status code turns into an error
	if resp.IsSuccess() {
		return nil
	}
	if resp.StatusCode() > 399 && resp.StatusCode() < 500 {
		self.log.WithField("status", resp.StatusCode()).
			WithField("resp", string(resp.Body())).
			WithField("url", resp.Request.URL).
			Debug("Bad request")
	}
	return &StatusError{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       string(resp.Body()),
	}
}

// Retry request only upon server errors
func (self *BaseClient) onRetryCondition(resp *resty.Response, err error) bool {
	return resp != nil && resp.StatusCode() >= 500
}

func (self *BaseClient) GetClient() *resty.Client {
	return self.client
}

// Tx hashes are returned either as a JSON string or as plain text
func parseTxHash(body []byte) (out TxHash) {
	var s string
	if json.Unmarshal(body, &s) == nil {
		return TxHash(s)
	}
	return TxHash(strings.TrimSpace(string(body)))
}
