package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-gate/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "propose [text]",
		Short: "Propose a memory for approval",
		Long:  "Propose a memory statement. Text can be a positional arg or piped via stdin. Nothing is stored as memory until approved.",
		Run:   runPropose,
	}

	cmd.Flags().StringP("kind", "k", "", "Kind: PREFERENCE, CONSTRAINT, GOAL, SELF_OBSERVATION (required)")
	cmd.Flags().String("source", model.SourcePhase3Reflection, "Source type")
	cmd.Flags().String("source-id", "", "Originating record id")
	cmd.Flags().String("note", "", "Source note")

	cmd.MarkFlagRequired("kind")

	RootCmd.AddCommand(cmd)
}

func runPropose(cmd *cobra.Command, args []string) {
	owner := requireOwner()
	kindStr, _ := cmd.Flags().GetString("kind")
	sourceType, _ := cmd.Flags().GetString("source")
	sourceID, _ := cmd.Flags().GetString("source-id")
	note, _ := cmd.Flags().GetString("note")

	kind, ok := model.ParseKind(kindStr)
	if !ok {
		exitErr("propose", fmt.Errorf("unknown kind %q", kindStr))
	}

	text := readText(args)
	if text == "" {
		exitErr("propose", fmt.Errorf("text is required (positional arg or stdin)"))
	}

	g, err := openGate()
	if err != nil {
		exitErr("open store", err)
	}
	defer g.Close()

	p, err := g.ProposeMemory(cmd.Context(), owner, text, kind, model.Source{
		Type: sourceType,
		ID:   sourceID,
		Note: note,
	})
	if err != nil {
		exitErr("propose", err)
	}

	printJSON(cmd, p)
}

// readText returns the joined positional args, or stdin when it is piped.
func readText(args []string) string {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " "))
	}
	stat, _ := os.Stdin.Stat()
	if stat != nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		return strings.TrimSpace(string(b))
	}
	return ""
}
