package request

import "github.com/hyle-org/buy-my-tweet/src/utils/hyle"

type ExecuteContract struct {
	Action string `json:"action" binding:"required"`

	// Fixture input is used when empty
	Input *hyle.ContractInput `json:"input"`
}
