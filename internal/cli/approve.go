package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "approve <proposal-id> [final text]",
		Short: "Approve a proposal and store it as memory",
		Long: `Approve a pending proposal. The final text defaults to the proposed text.
Text containing identity-locking, clinical or authoritative language is
rejected and the proposal stays pending.`,
		Args: cobra.MinimumNArgs(1),
		Run:  runApprove,
	}

	RootCmd.AddCommand(cmd)
}

func runApprove(cmd *cobra.Command, args []string) {
	owner := requireOwner()
	id := args[0]

	g, err := openGate()
	if err != nil {
		exitErr("open store", err)
	}
	defer g.Close()

	final := readText(args[1:])
	if final == "" {
		p, err := g.GetProposal(cmd.Context(), owner, id)
		if err != nil {
			exitErr("approve", err)
		}
		final = p.ProposedText
	}

	item, err := g.ApproveMemory(cmd.Context(), owner, id, final)
	if err != nil {
		exitErr("approve", err)
	}

	printJSON(cmd, item)
}
