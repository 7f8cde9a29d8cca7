package response

import "github.com/hyle-org/buy-my-tweet/src/utils/hyle"

type SendBlob struct {
	TxHash  hyle.TxHash `json:"txHash"`
	Success bool        `json:"success"`
}

type SendProof struct {
	Result  string `json:"result"`
	Success bool   `json:"success"`
}

type RegisterContract struct {
	Success      bool              `json:"success"`
	TxHash       hyle.TxHash       `json:"txHash"`
	ContractName hyle.ContractName `json:"contractName"`
	Owner        string            `json:"owner"`
}

type Info struct {
	Node        *hyle.NodeInfo      `json:"node"`
	Consensus   *hyle.ConsensusInfo `json:"consensus"`
	BlockHeight hyle.BlockHeight    `json:"blockHeight"`
}

type Contracts struct {
	Contracts []hyle.ContractDb `json:"contracts"`
}
