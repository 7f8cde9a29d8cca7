package cmd

import (
	"fmt"

	"github.com/hyle-org/buy-my-tweet/src/utils/hyle"

	"github.com/spf13/cobra"
)

var (
	registerName      string
	registerProgramId string
	registerOwner     string
	registerVerifier  string
)

func init() {
	registerContractCmd.Flags().StringVar(&registerName, "name", "", "contract name")
	registerContractCmd.Flags().StringVar(&registerProgramId, "program-id", "", "64 hex characters of the program id")
	registerContractCmd.Flags().StringVar(&registerOwner, "owner", hyle.DefaultOwner, "owner of the contract")
	registerContractCmd.Flags().StringVar(&registerVerifier, "verifier", string(hyle.DefaultVerifier), "verifier of the proofs")
	_ = registerContractCmd.MarkFlagRequired("name")
	_ = registerContractCmd.MarkFlagRequired("program-id")
	RootCmd.AddCommand(registerContractCmd)
}

var registerContractCmd = &cobra.Command{
	Use:   "register-contract",
	Short: "Registers a contract with an empty state on the Hyle node",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		client := hyle.NewNodeClient(&conf.Hyle)

		txHash, err := hyle.RegisterContract(applicationCtx, client,
			hyle.ContractName(registerName), registerProgramId, registerOwner, hyle.Verifier(registerVerifier))
		if err != nil {
			return
		}

		fmt.Fprintln(cmd.OutOrStdout(), txHash)
		return
	},
}
