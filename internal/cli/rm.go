package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <memory-id>",
		Short: "Delete a memory",
		Long:  "Soft-delete a memory. Deleting it again is a no-op.",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	owner := requireOwner()
	id := args[0]

	g, err := openGate()
	if err != nil {
		exitErr("open store", err)
	}
	defer g.Close()

	if err := g.DeleteMemory(cmd.Context(), owner, id); err != nil {
		exitErr("rm", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q}`+"\n", id)
}
