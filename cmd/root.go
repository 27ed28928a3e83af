package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vgapview/internal/config"
	"vgapview/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "vgapview",
	Short: "Build animated scene files from VGA Planets turn files",
	Long: `vgapview reads a range of planets.nu turn files and folds them into one
scene file that the VGAPViewer page animates: ship moves, builds, kills and
minefields, turn by turn.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		log.SetVerbose(verbose)

		if logFile, _ := cmd.Flags().GetString("log-file"); logFile != "" {
			if err := log.SetFileOutput(logFile); err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file with default options (YAML, TOML or JSON)")
	rootCmd.PersistentFlags().String("log-file", "", "Write log output to this file instead of stderr")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Run verbosely")
}

// Execute runs the command line. Configuration errors also print the usage
// of the command that failed.
func Execute(ctx context.Context) error {
	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err != nil && errors.Is(err, config.ErrInvalid) {
		fmt.Fprintln(os.Stderr, cmd.UsageString())
	}
	return err
}

// loadConfig binds the flags of cmd and returns the merged run settings.
// Flags win over environment variables, which win over the config file.
// The log level follows the resolved verbose setting.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	path, _ := cmd.Flags().GetString("config")
	if err := config.ReadFile(v, path); err != nil {
		return nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	// Verbose may come from the environment or the config file as well as -v.
	log.SetVerbose(cfg.Verbose)
	return cfg, nil
}

// addRangeFlags registers the options shared by build and import.
func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Turn file template, e.g. turns/game.json reads turns/game7.json (or use {turn})")
	cmd.Flags().StringP("start", "s", "", "First turn number to process")
	cmd.Flags().StringP("end", "e", "", "Last turn number to process")
	cmd.Flags().String("encoding", "", "Text encoding of the turn files (default utf-8)")
	cmd.Flags().String("db", "", "Snapshot database")
}
