package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"vgapview/internal/config"
	"vgapview/internal/log"
	"vgapview/internal/scene"
	"vgapview/internal/snapshot"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Fold a range of turn files into a scene file",
	Long: `Reads every turn from --start to --end, in order, from turn files or from a
snapshot database (--db), and writes the scene record.

The default output is the "js" format (sceneJSON = {...};) that the viewer
page loads with a script tag.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		loader, closeLoader, err := openLoader(cfg)
		if err != nil {
			return err
		}
		defer closeLoader()

		start, end := cfg.Range()
		progress := newProgress(end-start+1, "building scene", cfg.Verbose)

		pipeline := scene.NewPipeline(loader, start, end, scene.WithProgress(progress))
		rec, err := pipeline.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("scene build stopped after %d of %d turns: %w", rec.Len(), end-start+1, err)
		}

		log.Debug("scene complete", "control", fmt.Sprintf("%+v", *rec.Control), "turns", rec.Len())
		return writeScene(rec, cfg.Output, cfg.Format)
	},
}

func init() {
	addRangeFlags(buildCmd)
	buildCmd.Flags().StringP("output", "o", "", "Scene file to write (default stdout)")
	buildCmd.Flags().String("format", scene.FormatJS, "Scene format: json, js or yaml")
	rootCmd.AddCommand(buildCmd)
}

// openLoader picks the snapshot source: the database when --db is given,
// turn files otherwise.
func openLoader(cfg *config.Config) (snapshot.Loader, func(), error) {
	if cfg.Database != "" {
		store, err := snapshot.OpenStore(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("loading turns from database", "db", cfg.Database)
		return store, func() { store.Close() }, nil
	}

	loader, err := snapshot.NewFileLoader(cfg.File, cfg.Encoding)
	if err != nil {
		return nil, nil, err
	}
	return loader, func() {}, nil
}

func writeScene(rec *scene.Record, path, format string) error {
	if path == "" {
		return scene.Encode(os.Stdout, rec, format)
	}

	// Encode next to the target and rename, so a failed write never leaves
	// a truncated scene behind.
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := scene.Encode(tmp, rec, format); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Info("scene written", "path", path, "format", format, "turns", rec.Len())
	return nil
}

// newProgress returns a per-turn callback drawing a progress bar on
// stderr. Verbose runs and non-terminal stderr get no bar.
func newProgress(total int, description string, verbose bool) func(turn int) {
	if verbose || !isatty.IsTerminal(os.Stderr.Fd()) {
		return func(int) {}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return func(int) {
		bar.Add(1)
	}
}
