package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "decline <proposal-id>",
		Short: "Decline a proposal",
		Long:  "Decline a pending proposal. Its text is discarded and no memory is created.",
		Args:  cobra.ExactArgs(1),
		Run:   runDecline,
	}

	cmd.Flags().StringP("reason", "r", "", "Optional reason")

	RootCmd.AddCommand(cmd)
}

func runDecline(cmd *cobra.Command, args []string) {
	owner := requireOwner()
	reason, _ := cmd.Flags().GetString("reason")

	g, err := openGate()
	if err != nil {
		exitErr("open store", err)
	}
	defer g.Close()

	if err := g.DeclineMemory(cmd.Context(), owner, args[0], reason); err != nil {
		exitErr("decline", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"proposal_id":%q}`+"\n", args[0])
}
