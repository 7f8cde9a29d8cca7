package report

import "go.uber.org/atomic"

type WebAuthnErrors struct {
	RegistrationFailures atomic.Uint64 `json:"registration_failures"`
	LoginFailures        atomic.Uint64 `json:"login_failures"`
}

type WebAuthnState struct {
	RegistrationsStarted atomic.Uint64 `json:"registrations_started"`
	Registrations        atomic.Uint64 `json:"registrations"`
	LoginsStarted        atomic.Uint64 `json:"logins_started"`
	Logins               atomic.Uint64 `json:"logins"`
}

type WebAuthnReport struct {
	State  WebAuthnState  `json:"state"`
	Errors WebAuthnErrors `json:"errors"`
}
