package cmd

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vgapview/internal/log"
	"vgapview/internal/scene"
)

// resetFlags puts every flag back to its default. Cobra keeps parsed values
// on the command tree between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(args ...string) error {
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	return Execute(context.Background())
}

func writeTurn(t *testing.T, dir string, n int) {
	t.Helper()
	doc := fmt.Sprintf(`{"rst": {
  "settings": {"turn": %d, "name": "Test Game"},
  "player": {"id": 2, "username": "pat"},
  "maps": ["bg.jpg"],
  "ships": [{"ownerid": 2, "x": 1000, "y": 1000, "targetx": 1100, "targety": 1000, "warp": 9}],
  "messages": [{"messagetype": 11, "ownerid": 2, "x": 5, "y": 6, "body": "The new cruiser has been constructed"}],
  "minefields": [{"id": 1, "ownerid": 2, "x": 2000, "y": 2000, "radius": %d}]
}}`, n, 100-10*n)
	require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("game%d.json", n)), []byte(doc), 0644))
}

func TestImportBuildPreview(t *testing.T) {
	dir := t.TempDir()
	for n := 1; n <= 3; n++ {
		writeTurn(t, dir, n)
	}
	db := filepath.Join(dir, "snapshots.db")
	scenePath := filepath.Join(dir, "scene.js")
	imagePath := filepath.Join(dir, "turn2.png")

	require.NoError(t, execute("import", "-f", filepath.Join(dir, "game.json"), "-s", "1", "-e", "3", "--db", db))
	require.NoError(t, execute("build", "--db", db, "-s", "1", "-e", "3", "-o", scenePath))

	f, err := os.Open(scenePath)
	require.NoError(t, err)
	rec, err := scene.Decode(f)
	f.Close()
	require.NoError(t, err)

	require.NotNil(t, rec.Control)
	assert.Equal(t, 1, rec.Control.FirstTurn)
	assert.Equal(t, 3, rec.Control.Turns)
	assert.Equal(t, "pat", rec.Control.PlayerName)
	assert.Equal(t, 3, rec.Len())
	assert.Equal(t, []scene.Move{{X: 1000, Y: 1000, TargetX: 1081, TargetY: 1000}}, rec.Movement[0])
	assert.Len(t, rec.ShipBuilds[2], 1)
	require.Len(t, rec.Minefields[1], 1)
	assert.Equal(t, 80, rec.Minefields[1][0].Radius)
	assert.Equal(t, 90, rec.Minefields[1][0].OldRadius)

	require.NoError(t, execute("preview", "--scene", scenePath, "--turn", "2", "--width", "100", "--out", imagePath))
	img, err := os.Open(imagePath)
	require.NoError(t, err)
	defer img.Close()
	cfg, err := png.DecodeConfig(img)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
}

func TestVerboseFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeTurn(t, dir, 1)
	t.Setenv("VGAPVIEW_VERBOSE", "true")

	var buf bytes.Buffer
	log.SetOutput(&buf, slog.LevelInfo)
	defer log.SetOutput(os.Stderr, slog.LevelInfo)

	require.NoError(t, execute("build", "-f", filepath.Join(dir, "game.json"), "-s", "1", "-e", "1", "-o", filepath.Join(dir, "s.js")))
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "msg=\"processing turn\"")
}

func TestWriteSceneLeavesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	rec := scene.NewRecord()
	rec.Control = &scene.Control{Type: scene.GameTypeSinglePlayer, FirstTurn: 1}
	path := filepath.Join(dir, "scene.json")

	require.Error(t, writeScene(rec, path, "xml"))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial or temporary file remains")

	assert.Error(t, writeScene(rec, filepath.Join(dir, "missing", "scene.json"), scene.FormatJSON))

	require.NoError(t, writeScene(rec, path, scene.FormatJSON))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := scene.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 1, decoded.Control.FirstTurn)
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
