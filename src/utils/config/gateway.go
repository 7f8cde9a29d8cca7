package config

import (
	"time"

	"github.com/spf13/viper"
)

type Gateway struct {
	// REST API address
	RESTListenAddress string

	// Max time a request can take
	ServerRequestTimeout time.Duration

	// Requests per second allowed for one client IP
	LimiterRate float64

	// Burst of requests allowed for one client IP
	LimiterBurst int

	// Interval between keep-alive messages on event streams
	EventsKeepAliveInterval time.Duration

	// Buffer of each event stream subscriber
	EventsSubscriberBuffer int

	// Workers doing bookkeeping off the request path
	MaxWorkers int
}

func setGatewayDefaults() {
	viper.SetDefault("Gateway.RESTListenAddress", "0.0.0.0:3001")
	viper.SetDefault("Gateway.ServerRequestTimeout", "30s")
	viper.SetDefault("Gateway.LimiterRate", "20")
	viper.SetDefault("Gateway.LimiterBurst", "40")
	viper.SetDefault("Gateway.EventsKeepAliveInterval", "30s")
	viper.SetDefault("Gateway.EventsSubscriberBuffer", "16")
	viper.SetDefault("Gateway.MaxWorkers", "4")
}
