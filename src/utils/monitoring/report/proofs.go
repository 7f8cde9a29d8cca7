package report

import "go.uber.org/atomic"

type ProofsErrors struct {
	ProofsRejected atomic.Uint64 `json:"proofs_rejected"`
	ClaimFailures  atomic.Uint64 `json:"claim_failures"`
	LedgerFailures atomic.Uint64 `json:"ledger_failures"`
}

type ProofsState struct {
	ProofsReceived  atomic.Uint64 `json:"proofs_received"`
	ProofsVerified  atomic.Uint64 `json:"proofs_verified"`
	EventsPublished atomic.Uint64 `json:"events_published"`
	ClaimsExecuted  atomic.Uint64 `json:"claims_executed"`
	ClaimsSucceeded atomic.Uint64 `json:"claims_succeeded"`
	ClaimsRecorded  atomic.Uint64 `json:"claims_recorded"`
}

type ProofsReport struct {
	State  ProofsState  `json:"state"`
	Errors ProofsErrors `json:"errors"`
}
