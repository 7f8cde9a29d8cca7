package config

import (
	"time"

	"github.com/spf13/viper"
)

type Hyle struct {
	// Hyle node REST API
	NodeUrl string

	// Hyle indexer REST API
	IndexerUrl string

	// Contract that receives reclaim blobs and proofs
	BlobContractName string

	// Identity of the blob transactions sent by the gateway
	BlobIdentity string

	// Time limit for requests. The timeout includes connection time, any
	// redirects, and reading the response body
	RequestTimeout time.Duration

	// Maximum amount of time a dial will wait for a connect to complete.
	DialerTimeout time.Duration

	// Interval between keep-alive probes for an active network connection.
	DialerKeepAlive time.Duration

	// Maximum amount of time an idle (keep-alive) connection will remain idle before closing itself.
	IdleConnTimeout time.Duration

	// Maximum amount of time waiting to wait for a TLS handshake
	TLSHandshakeTimeout time.Duration

	// Number of retries upon server errors
	RetryCount int

	// Max num of requests per second sent to the node, 0 disables the limit
	RequestsPerSecond int

	// How long contract lookups are cached
	ContractCacheTTL time.Duration
}

func setHyleDefaults() {
	viper.SetDefault("Hyle.NodeUrl", "http://localhost:4321")
	viper.SetDefault("Hyle.IndexerUrl", "http://localhost:4321")
	viper.SetDefault("Hyle.BlobContractName", "reclaim-test")
	viper.SetDefault("Hyle.BlobIdentity", "test.reclaim-test")
	viper.SetDefault("Hyle.RequestTimeout", "30s")
	viper.SetDefault("Hyle.DialerTimeout", "30s")
	viper.SetDefault("Hyle.DialerKeepAlive", "15s")
	viper.SetDefault("Hyle.IdleConnTimeout", "31s")
	viper.SetDefault("Hyle.TLSHandshakeTimeout", "10s")
	viper.SetDefault("Hyle.RetryCount", "2")
	viper.SetDefault("Hyle.RequestsPerSecond", "50")
	viper.SetDefault("Hyle.ContractCacheTTL", "10s")
}
