package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/memory-gate/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Ask whether intelligence may participate",
		Long: `Evaluate one intelligence request through policy and the adapters.
The result is always printed as a response, never as an error.`,
		Run: runEvaluate,
	}

	cmd.Flags().StringP("text", "t", "", "User text")
	cmd.Flags().StringP("mode", "m", "none", "Mode: none, shallow, bounded, deliberative")
	cmd.Flags().String("role", string(model.RoleObserver), "Role: participant, mirror, observer")
	cmd.Flags().String("consent", "", "Consent token; any non-empty value is explicit consent")
	cmd.Flags().StringSlice("disallow", nil, "Disallowed capabilities (comma-separated)")
	cmd.Flags().String("content-type", "", "Content type tag, e.g. question")
	cmd.Flags().Bool("phase3-complete", false, "Prior reflective phase is complete")
	cmd.Flags().String("stage", "", "Phase stage label, e.g. post_summary")

	RootCmd.AddCommand(cmd)
}

func runEvaluate(cmd *cobra.Command, args []string) {
	text, _ := cmd.Flags().GetString("text")
	modeStr, _ := cmd.Flags().GetString("mode")
	role, _ := cmd.Flags().GetString("role")
	consent, _ := cmd.Flags().GetString("consent")
	disallow, _ := cmd.Flags().GetStringSlice("disallow")
	contentType, _ := cmd.Flags().GetString("content-type")
	phase3, _ := cmd.Flags().GetBool("phase3-complete")
	stage, _ := cmd.Flags().GetString("stage")

	mode, err := model.ParseMode(modeStr)
	if err != nil {
		exitErr("evaluate", err)
	}

	req := model.IntelligenceRequest{
		UserText:               text,
		Role:                   model.ParticipantRole(role),
		Mode:                   mode,
		ConsentToken:           consent,
		DisallowedCapabilities: disallow,
		ContentType:            contentType,
	}
	if cmd.Flags().Changed("phase3-complete") || stage != "" {
		req.Phase = &model.PhaseContext{Phase3Complete: phase3, Stage: model.Stage(stage)}
	}

	g, err := openGate()
	if err != nil {
		exitErr("open store", err)
	}
	defer g.Close()

	printJSON(cmd, model.View(g.EvaluateIntelligence(req)))
}
