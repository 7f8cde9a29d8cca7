package request

import (
	"encoding/json"

	"github.com/hyle-org/buy-my-tweet/src/utils/hyle"
)

type SendBlob struct {
	Proof json.RawMessage `json:"proof"`
}

type ProofData struct {
	Proof hyle.Bytes `json:"proof"`
}

type SendProof struct {
	Proof *ProofData `json:"proof"`
}

type RegisterContract struct {
	ContractName string `json:"contractName"`
	GuestId      string `json:"guestId"`
	Owner        string `json:"owner"`
	Verifier     string `json:"verifier"`
}
