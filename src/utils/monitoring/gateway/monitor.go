package monitor_gateway

import (
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/hyle-org/buy-my-tweet/src/utils/config"
	"github.com/hyle-org/buy-my-tweet/src/utils/monitoring/report"
	"github.com/hyle-org/buy-my-tweet/src/utils/task"

	"github.com/gammazero/deque"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Stores and computes monitor counters
type Monitor struct {
	*task.Task

	Report report.Report

	historySize int

	collector *Collector

	// Request rate, sampled every minute
	mtx           sync.Mutex
	RequestCounts *deque.Deque[uint64]
	ErrorCounts   *deque.Deque[uint64]
}

func NewMonitor(config *config.Config) (self *Monitor) {
	self = new(Monitor)

	self.Report = report.Report{
		Run:      &report.RunReport{},
		Gateway:  &report.GatewayReport{},
		Hyle:     &report.HyleReport{},
		Proofs:   &report.ProofsReport{},
		WebAuthn: &report.WebAuthnReport{},
	}

	// Initialization
	self.Report.Run.State.StartTimestamp.Store(time.Now().Unix())

	self.collector = NewCollector().WithMonitor(self)

	self.Task = task.NewTask(config, "monitor").
		WithPeriodicSubtaskFunc(time.Minute, self.monitorRequests)

	return self.WithMaxHistorySize(30)
}

func (self *Monitor) WithMaxHistorySize(maxHistorySize int) *Monitor {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	self.historySize = maxHistorySize

	self.RequestCounts = deque.New[uint64](self.historySize)
	self.ErrorCounts = deque.New[uint64](self.historySize)

	return self
}

func (self *Monitor) Clear() {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	self.RequestCounts.Clear()
	self.ErrorCounts.Clear()
}

func (self *Monitor) GetReport() *report.Report {
	return &self.Report
}

func (self *Monitor) GetPrometheusCollector() (collector prometheus.Collector) {
	return self.collector
}

func round(f float64) float64 {
	return math.Round(f*100) / 100
}

func push(d *deque.Deque[uint64], value uint64, size int) float64 {
	d.PushBack(value)
	if d.Len() > size {
		d.PopFront()
	}
	return float64(d.Back()-d.Front()) / float64(d.Len())
}

// Measure request processing speed
func (self *Monitor) monitorRequests() (err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	requests := push(self.RequestCounts, self.Report.Gateway.State.RequestsServed.Load(), self.historySize)
	self.Report.Gateway.State.AverageRequestsPerMinute.Store(round(requests))

	errors := push(self.ErrorCounts, self.Report.Gateway.Errors.ServerErrors.Load(), self.historySize)
	self.Report.Gateway.State.AverageErrorsPerMinute.Store(round(errors))
	return
}

// Counts served requests by status
func (self *Monitor) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		self.Report.Gateway.State.RequestsServed.Inc()
		status := c.Writer.Status()
		switch {
		case status == http.StatusTooManyRequests:
			self.Report.Gateway.Errors.RateLimited.Inc()
		case status >= 500:
			self.Report.Gateway.Errors.ServerErrors.Inc()
		case status >= 400:
			self.Report.Gateway.Errors.ClientErrors.Inc()
		}
	}
}

func (self *Monitor) IsOK() bool {
	now := time.Now().Unix()
	if now-self.Report.Run.State.StartTimestamp.Load() < 300 {
		return true
	}

	// Operational long enough, unhealthy when every recent request failed
	requests := self.Report.Gateway.State.AverageRequestsPerMinute.Load()
	errors := self.Report.Gateway.State.AverageErrorsPerMinute.Load()
	return requests == 0 || errors < requests
}

func (self *Monitor) OnGetState(c *gin.Context) {
	// Fill data
	self.Report.Run.State.UpForSeconds.Store(uint64(time.Now().Unix() - self.Report.Run.State.StartTimestamp.Load()))

	c.JSON(http.StatusOK, &self.Report)
}

func (self *Monitor) OnGetHealth(c *gin.Context) {
	if self.IsOK() {
		c.Status(http.StatusOK)
	} else {
		c.Status(http.StatusServiceUnavailable)
	}
}
