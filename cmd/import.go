package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vgapview/internal/log"
	"vgapview/internal/snapshot"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy turn files into a snapshot database",
	Long: `Validates each turn file from --start to --end and stores it in the SQLite
database given by --db. A later "build --db" reads the turns from there.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.ValidateImport(); err != nil {
			return err
		}

		loader, err := snapshot.NewFileLoader(cfg.File, cfg.Encoding)
		if err != nil {
			return err
		}

		store, err := snapshot.OpenStore(cfg.Database)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		batch, err := store.BeginImport(ctx, cfg.File)
		if err != nil {
			return err
		}

		start, end := cfg.Range()
		progress := newProgress(end-start+1, "importing turns", cfg.Verbose)
		for n := start; n <= end; n++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, err := loader.ReadRaw(n)
			if err != nil {
				return fmt.Errorf("turn %d: %w", n, err)
			}
			if err := batch.Put(ctx, n, raw); err != nil {
				return err
			}
			progress(n)
		}

		stored, err := store.Turns(ctx)
		if err != nil {
			return err
		}
		log.Info("import complete", "db", cfg.Database, "import", batch.ID, "imported", batch.Count(), "stored", len(stored))
		return nil
	},
}

func init() {
	addRangeFlags(importCmd)
	rootCmd.AddCommand(importCmd)
}
