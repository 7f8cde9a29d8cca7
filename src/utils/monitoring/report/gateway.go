package report

import "go.uber.org/atomic"

type GatewayErrors struct {
	ServerErrors atomic.Uint64 `json:"server_errors"`
	ClientErrors atomic.Uint64 `json:"client_errors"`
	RateLimited  atomic.Uint64 `json:"rate_limited"`
}

type GatewayState struct {
	RequestsServed           atomic.Uint64  `json:"requests_served"`
	EventSubscribers         atomic.Int64   `json:"event_subscribers"`
	AverageRequestsPerMinute atomic.Float64 `json:"average_requests_per_minute"`
	AverageErrorsPerMinute   atomic.Float64 `json:"average_errors_per_minute"`
}

type GatewayReport struct {
	State  GatewayState  `json:"state"`
	Errors GatewayErrors `json:"errors"`
}
