package report

type Report struct {
	Run      *RunReport      `json:"run,omitempty"`
	Gateway  *GatewayReport  `json:"gateway,omitempty"`
	Hyle     *HyleReport     `json:"hyle,omitempty"`
	Proofs   *ProofsReport   `json:"proofs,omitempty"`
	WebAuthn *WebAuthnReport `json:"webauthn,omitempty"`
}
