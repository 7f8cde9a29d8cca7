package config

import (
	"time"

	"github.com/spf13/viper"
)

type WebAuthn struct {
	// Relying party id, the host name of the frontend
	RPID string

	// Name displayed by the authenticator
	RPDisplayName string

	// Origins accepted in client data
	RPOrigins []string

	// Ceremony timeout passed to the browser
	Timeout time.Duration

	// How long a registration or login challenge is kept
	ChallengeTTL time.Duration
}

func setWebAuthnDefaults() {
	viper.SetDefault("WebAuthn.RPID", "localhost")
	viper.SetDefault("WebAuthn.RPDisplayName", "Buy X post")
	viper.SetDefault("WebAuthn.RPOrigins", []string{"http://localhost:3000"})
	viper.SetDefault("WebAuthn.Timeout", "60s")
	viper.SetDefault("WebAuthn.ChallengeTTL", "5m")
}
