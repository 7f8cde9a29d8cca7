package cmd

import (
	"fmt"

	"github.com/hyle-org/buy-my-tweet/src/contract"
	"github.com/hyle-org/buy-my-tweet/src/utils/tool"

	"github.com/spf13/cobra"
)

var (
	executeAction string
	executeDir    string
)

func init() {
	executeCmd.Flags().StringVar(&executeAction, "action", contract.ActionClaim.String(), "action to execute: claim, register or buy")
	executeCmd.Flags().StringVar(&executeDir, "dir", "", "directory with the proof fixtures, overrides the configuration")
	RootCmd.AddCommand(executeCmd)
}

var executeCmd = &cobra.Command{
	Use:   "execute",
	Short: "Executes a contract action on the fixture input and prints the output",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		kind, err := contract.ParseActionKind(executeAction)
		if err != nil {
			return
		}

		if executeDir != "" {
			conf.Contract.ProofExamplesDir = executeDir
		}

		input, err := contract.GetClaimTweetInput(&conf.Contract)
		if err != nil {
			return
		}

		out, err := contract.NewExecutor(conf).Execute(&contract.Action{Kind: kind, Input: input})
		if err != nil {
			return
		}

		buf, err := tool.MarshalNoEscape(out)
		if err != nil {
			return
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(buf))
		return
	},
}
