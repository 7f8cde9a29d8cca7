package config

import (
	"time"

	"github.com/spf13/viper"
)

type Session struct {
	// HMAC secret used to sign session tokens
	Secret string

	// Token validity
	TTL time.Duration
}

func setSessionDefaults() {
	viper.SetDefault("Session.Secret", "change-me")
	viper.SetDefault("Session.TTL", "24h")
}
