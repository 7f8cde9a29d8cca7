package hyle

import (
	"bytes"
	"encoding/json"
)

type (
	ContractName string
	Identity     string
	TxHash       string
	BlockHeight  uint64
	BlobIndex    uint32
	Verifier     string

	// Bytes serialized as JSON arrays of numbers, the way the node expects them
	Bytes       []byte
	StateDigest = Bytes
	BlobData    = Bytes
	ProgramId   = Bytes
)

func (self Bytes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(self)*4 + 2)
	buf.WriteByte('[')
	for i, b := range self {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(byteToDecimal[b])
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (self *Bytes) UnmarshalJSON(data []byte) (err error) {
	if bytes.Equal(data, []byte("null")) {
		*self = nil
		return
	}

	// json decodes []uint8 from base64 strings, arrays need an intermediate type
	var raw []uint16
	err = json.Unmarshal(data, &raw)
	if err != nil {
		return
	}

	numbers := make([]uint8, len(raw))
	for i, n := range raw {
		if n > 255 {
			return ErrByteOutOfRange
		}
		numbers[i] = uint8(n)
	}
	*self = numbers
	return
}

var byteToDecimal = func() (out [256]string) {
	for i := range out {
		b, _ := json.Marshal(i)
		out[i] = string(b)
	}
	return
}()

type Blob struct {
	ContractName ContractName `json:"contract_name"`
	Data         BlobData     `json:"data"`
}

// Input of a contract execution
type ContractInput struct {
	InitialState StateDigest `json:"initial_state"`
	Blobs        []Blob      `json:"blobs"`
	Identity     Identity    `json:"identity"`
	Index        BlobIndex   `json:"index"`
	PrivateBlob  BlobData    `json:"private_blob"`
	TxHash       TxHash      `json:"tx_hash"`
}

// Public values a contract execution produces
type HyleOutput struct {
	Version        uint32      `json:"version"`
	InitialState   StateDigest `json:"initial_state"`
	NextState      StateDigest `json:"next_state"`
	Identity       Identity    `json:"identity"`
	Index          BlobIndex   `json:"index"`
	Blobs          Bytes       `json:"blobs"`
	Success        bool        `json:"success"`
	ProgramOutputs Bytes       `json:"program_outputs"`
	TxHash         TxHash      `json:"tx_hash"`
}

// Concatenates data of all blobs, in order
func FlattenBlobs(blobs []Blob) (out Bytes) {
	size := 0
	for _, blob := range blobs {
		size += len(blob.Data)
	}

	out = make(Bytes, 0, size)
	for _, blob := range blobs {
		out = append(out, blob.Data...)
	}
	return
}

type BlobTransaction struct {
	Identity Identity `json:"identity"`
	Blobs    []Blob   `json:"blobs"`
}

type ProofTransaction struct {
	ContractName ContractName `json:"contract_name"`
	Proof        Bytes        `json:"proof"`
}

type RegisterContractTransaction struct {
	Owner        string       `json:"owner"`
	Verifier     Verifier     `json:"verifier"`
	ProgramId    ProgramId    `json:"program_id"`
	StateDigest  StateDigest  `json:"state_digest"`
	ContractName ContractName `json:"contract_name"`
}

type ConsensusInfo struct {
	Slot        uint64   `json:"slot"`
	View        uint64   `json:"view"`
	RoundLeader string   `json:"round_leader"`
	Validators  []string `json:"validators"`
}

type NodeInfo struct {
	Id        string  `json:"id"`
	Pubkey    *string `json:"pubkey,omitempty"`
	DaAddress string  `json:"da_address"`
}

type Contract struct {
	Name      ContractName `json:"name"`
	ProgramId string       `json:"program_id"`
	State     string       `json:"state"`
	Verifier  Verifier     `json:"verifier"`
}

// Contract as stored by the indexer
type ContractDb struct {
	TxHash       TxHash       `json:"tx_hash"`
	Owner        string       `json:"owner"`
	Verifier     Verifier     `json:"verifier"`
	ProgramId    ProgramId    `json:"program_id"`
	StateDigest  StateDigest  `json:"state_digest"`
	ContractName ContractName `json:"contract_name"`
}

type TransactionType string

const (
	TransactionTypeBlob             TransactionType = "blob_transaction"
	TransactionTypeProof            TransactionType = "proof_transaction"
	TransactionTypeRegisterContract TransactionType = "register_contract_transaction"
	TransactionTypeStake            TransactionType = "stake"
)

type TransactionStatus string

const (
	TransactionStatusSuccess   TransactionStatus = "success"
	TransactionStatusFailure   TransactionStatus = "failure"
	TransactionStatusSequenced TransactionStatus = "sequenced"
	TransactionStatusTimedOut  TransactionStatus = "timed_out"
)
