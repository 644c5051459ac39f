package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active memory",
		Run:   runList,
	}

	cmd.Flags().Bool("ids-only", false, "Only output memory ids")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	owner := requireOwner()
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	g, err := openGate()
	if err != nil {
		exitErr("open store", err)
	}
	defer g.Close()

	items, err := g.ListMemory(cmd.Context(), owner)
	if err != nil {
		exitErr("list", err)
	}

	if idsOnly {
		for _, it := range items {
			fmt.Fprintln(cmd.OutOrStdout(), it.ID)
		}
		return
	}

	printJSON(cmd, items)
}
