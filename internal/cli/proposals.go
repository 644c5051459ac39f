package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "proposals",
		Short: "List pending proposals",
		Run:   runProposals,
	}

	RootCmd.AddCommand(cmd)
}

func runProposals(cmd *cobra.Command, args []string) {
	owner := requireOwner()

	g, err := openGate()
	if err != nil {
		exitErr("open store", err)
	}
	defer g.Close()

	pending, err := g.PendingProposals(cmd.Context(), owner)
	if err != nil {
		exitErr("proposals", err)
	}

	printJSON(cmd, pending)
}
