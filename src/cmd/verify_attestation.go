package cmd

import (
	"fmt"
	"os"

	"github.com/hyle-org/buy-my-tweet/src/utils/webauthn"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(verifyAttestationCmd)
}

var verifyAttestationCmd = &cobra.Command{
	Use:   "verify-attestation <file>",
	Short: "Checks that the file holds a WebAuthn registration response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		/* #nosec */
		data, err := os.ReadFile(args[0])
		if err != nil {
			return
		}

		err = webauthn.VerifyAttestation(data)
		if err != nil {
			return
		}

		fmt.Fprintln(cmd.OutOrStdout(), "attestation ok")
		return
	},
}
