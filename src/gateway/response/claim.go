package response

import (
	"encoding/json"

	"github.com/hyle-org/buy-my-tweet/src/catalog"
	"github.com/hyle-org/buy-my-tweet/src/utils/model"
)

type ReceiveProof struct {
	Proof json.RawMessage `json:"proof"`
}

type ProofStatus struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

type Claim struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CalculateClaim struct {
	Success bool  `json:"success"`
	Amount  int64 `json:"amount"`
}

type Users struct {
	Users []catalog.User `json:"users"`
}

type Claims struct {
	Claims []model.Claim `json:"claims"`
}
