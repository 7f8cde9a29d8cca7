package report

import "go.uber.org/atomic"

type HyleErrors struct {
	NodeRequestFailures    atomic.Uint64 `json:"node_request_failures"`
	IndexerRequestFailures atomic.Uint64 `json:"indexer_request_failures"`
}

type HyleState struct {
	BlobsSent           atomic.Uint64 `json:"blobs_sent"`
	ProofsSent          atomic.Uint64 `json:"proofs_sent"`
	ContractsRegistered atomic.Uint64 `json:"contracts_registered"`
}

type HyleReport struct {
	State  HyleState  `json:"state"`
	Errors HyleErrors `json:"errors"`
}
