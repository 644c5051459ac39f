package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export memory and proposals as JSON",
		Long:  "Export an owner's active memory and all proposals in the persisted record format.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	owner := requireOwner()

	g, err := openGate()
	if err != nil {
		exitErr("open store", err)
	}
	defer g.Close()

	out, err := g.Export(cmd.Context(), owner)
	if err != nil {
		exitErr("export", err)
	}

	printJSON(cmd, out)
}
