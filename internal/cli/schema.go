package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-gate/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "schema [memory.json|proposals.json]",
		Short: "Print JSON Schemas of the persisted records",
		Args:  cobra.MaximumNArgs(1),
		Run:   runSchema,
	}

	RootCmd.AddCommand(cmd)
}

func runSchema(cmd *cobra.Command, args []string) {
	schemas, err := store.RecordSchemas()
	if err != nil {
		exitErr("schema", err)
	}

	if len(args) == 1 {
		s, ok := schemas[args[0]]
		if !ok {
			exitErr("schema", fmt.Errorf("unknown file %q", args[0]))
		}
		printJSON(cmd, s)
		return
	}
	printJSON(cmd, schemas)
}
