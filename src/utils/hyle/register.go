package hyle

import (
	"context"
	"regexp"
)

const (
	DefaultOwner    = "test"
	DefaultVerifier = Verifier("reclaim")

	// Size of the empty initial state of a registered contract
	InitialStateSize = 32
)

var programIdRegexp = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// Builds a contract registration with an empty 32 byte initial state
func NewRegisterContractTransaction(name ContractName, programIdHex, owner string, verifier Verifier) (tx *RegisterContractTransaction, err error) {
	if name == "" {
		err = ErrMissingContract
		return
	}

	if !programIdRegexp.MatchString(programIdHex) {
		err = ErrInvalidProgramId
		return
	}

	programId, err := HexToBytes(programIdHex)
	if err != nil {
		return
	}

	if owner == "" {
		owner = DefaultOwner
	}
	if verifier == "" {
		verifier = DefaultVerifier
	}

	tx = &RegisterContractTransaction{
		Owner:        owner,
		Verifier:     verifier,
		ProgramId:    programId,
		StateDigest:  make(StateDigest, InitialStateSize),
		ContractName: name,
	}
	return
}

// Registers a contract on the node, returns the transaction hash
func RegisterContract(ctx context.Context, client *NodeClient, name ContractName, programIdHex, owner string, verifier Verifier) (out TxHash, err error) {
	tx, err := NewRegisterContractTransaction(name, programIdHex, owner, verifier)
	if err != nil {
		return
	}

	client.log.WithField("contract", name).
		WithField("initial_state", BytesToHex(tx.StateDigest)).
		Debug("Registering contract")

	out, err = client.SendTxRegisterContract(ctx, tx)
	if err != nil {
		return
	}

	client.log.WithField("contract", name).WithField("tx_hash", out).Info("Register contract tx sent")
	return
}
