// Package cli implements the threadctl command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teambrain/threadctl/internal/config"
	"github.com/teambrain/threadctl/internal/db"
	"github.com/teambrain/threadctl/internal/logging"
	"github.com/teambrain/threadctl/internal/thread"
)

// ASCII status indicators, safe on every terminal.
const (
	iconOK    = "[OK]"
	iconError = "[X]"
	iconInfo  = "[i]"
)

// runtime holds state shared across commands after config is loaded.
type runtime struct {
	cfg *config.Config
}

// Execute runs the threadctl CLI.
func Execute(version string) error {
	return newRootCmd(version).Execute()
}

func newRootCmd(version string) *cobra.Command {
	rt := &runtime{}

	cmd := &cobra.Command{
		Use:           "threadctl",
		Short:         "Reconstruct conversation threads from a comms database",
		Long:          "threadctl rebuilds complete conversation threads from a SQLite message store: given any message it traces backward to the thread origin and forward through every reply.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	cmd.PersistentFlags().String("db", "", "Path to the comms database (overrides config)")
	cmd.PersistentFlags().String("config", "", "Path to a config file")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return rt.load(cmd)
	}

	cmd.AddCommand(
		newThreadCmd(rt),
		newTopicCmd(rt),
		newParticipantCmd(rt),
		newScanCmd(rt),
		newStatsCmd(rt),
	)

	return cmd
}

func (rt *runtime) load(cmd *cobra.Command) error {
	loader := config.NewLoader()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loader.SetConfigFile(path)
	}

	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	logging.Init(logging.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		EnableCaller: cfg.Logging.EnableCaller,
	})

	rt.cfg = cfg
	return nil
}

// openStore opens the configured database and wires the reconstruction
// pipeline. Callers must Close the returned DB.
func (rt *runtime) openStore() (*db.DB, *thread.Reconstructor, error) {
	database, err := db.Open(rt.cfg.Database.Path, db.Options{
		BusyTimeoutMs: rt.cfg.Database.BusyTimeoutMs,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w (use --db to specify the database path)", err)
	}
	repo := db.NewMessageRepository(database)
	return database, thread.NewReconstructor(repo), nil
}

// limitOrDefault returns the flag value when set, otherwise the configured
// default.
func (rt *runtime) limitOrDefault(cmd *cobra.Command, name string) int {
	value, _ := cmd.Flags().GetInt(name)
	if cmd.Flags().Changed(name) {
		return value
	}
	return rt.cfg.Query.Limit
}
