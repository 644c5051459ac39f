package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "select [memory-id...]",
		Short: "Resolve explicitly selected memory",
		Long:  "Resolve the given memory ids to text. Deleted or unknown ids are skipped. With no ids nothing is resolved.",
		Run:   runSelect,
	}

	RootCmd.AddCommand(cmd)
}

func runSelect(cmd *cobra.Command, args []string) {
	owner := requireOwner()

	g, err := openGate()
	if err != nil {
		exitErr("open store", err)
	}
	defer g.Close()

	sel, err := g.ResolveSelectedMemory(cmd.Context(), owner, args)
	if err != nil {
		exitErr("select", err)
	}

	printJSON(cmd, sel)
}
