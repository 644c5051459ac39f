package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show memory and proposal counts",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	owner := requireOwner()

	g, err := openGate()
	if err != nil {
		exitErr("open store", err)
	}
	defer g.Close()

	stats, err := g.Stats(cmd.Context(), owner)
	if err != nil {
		exitErr("stats", err)
	}

	printJSON(cmd, stats)
}
