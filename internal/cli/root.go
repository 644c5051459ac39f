// Package cli implements the memory-gate CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/memory-gate/internal/config"
	"github.com/rcliao/memory-gate/internal/gate"
	"github.com/rcliao/memory-gate/internal/logging"
)

var (
	configPath  string
	dbPath      string
	dirPath     string
	backendFlag string
	ownerFlag   string

	logger = zap.NewNop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "memory-gate",
	Short: "Consent-gated intelligence boundary and user-approved memory",
	Long: `memory-gate decides whether assistive intelligence may take part in a
reflective conversation, and keeps a small memory of statements the user
explicitly approved. Nothing is remembered without approval, and nothing
remembered is used unless the caller selects it.`,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Config file (default: $MEMORY_GATE_CONFIG or ~/.memory-gate/config.yaml)")
	pf.StringVarP(&dbPath, "db", "d", "", "Database path (default: $MEMORY_GATE_DB or ~/.memory-gate/memory.db)")
	pf.StringVar(&dirPath, "dir", "", "Data directory for the file backend (default: $MEMORY_GATE_DIR or ~/.memory-gate/data)")
	pf.StringVar(&backendFlag, "backend", "", "Storage backend: memory, sqlite or file")
	pf.StringVarP(&ownerFlag, "owner", "o", "", "Owner id")
}

func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("MEMORY_GATE_CONFIG"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".memory-gate", "config.yaml")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, err
	}
	if backendFlag != "" {
		cfg.Storage.Backend = backendFlag
	}
	if dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	if dirPath != "" {
		cfg.Storage.Dir = dirPath
	}
	return cfg, cfg.Validate()
}

func openGate() (*gate.Gate, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	l, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	logger = l
	return gate.Open(cfg, logger)
}

func requireOwner() string {
	if ownerFlag == "" {
		exitErr("owner", fmt.Errorf("--owner is required"))
	}
	return ownerFlag
}

func printJSON(cmd *cobra.Command, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
