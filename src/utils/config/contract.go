package config

import (
	"github.com/spf13/viper"
)

type Contract struct {
	// Directory with reclaim-contract.json and reclaim.json fixtures
	ProofExamplesDir string

	// Name of the blob holding the contract data
	ContractName string

	// Name of the blob holding the reclaim proof
	ReclaimProofName string

	// Identity used for the fixture based contract input
	Identity string
}

func setContractDefaults() {
	viper.SetDefault("Contract.ProofExamplesDir", "./proof-examples")
	viper.SetDefault("Contract.ContractName", "buy-my-tweet-contract")
	viper.SetDefault("Contract.ReclaimProofName", "buy-my-tweet-reclaim-proof")
	viper.SetDefault("Contract.Identity", "buy-my-tweet-verify-reclaim")
}
