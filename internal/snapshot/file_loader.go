package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"vgapview/internal/log"
)

// TurnPlaceholder marks where the turn number goes in a file template.
const TurnPlaceholder = "{turn}"

// FileLoader reads one JSON file per turn from disk.
type FileLoader struct {
	template string
	enc      encoding.Encoding
}

// NewFileLoader creates a loader for template. An empty encoding label means
// UTF-8; any WHATWG label ("windows-1252", "latin1", ...) is accepted.
func NewFileLoader(template, encodingLabel string) (*FileLoader, error) {
	if template == "" {
		return nil, fmt.Errorf("file template is empty")
	}
	enc, err := LookupEncoding(encodingLabel)
	if err != nil {
		return nil, err
	}
	return &FileLoader{template: template, enc: enc}, nil
}

// LookupEncoding resolves a text encoding label.
func LookupEncoding(label string) (encoding.Encoding, error) {
	if label == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	return enc, nil
}

// TurnPath builds the file name for a turn. A template containing {turn}
// has it replaced; otherwise the number is inserted before the extension,
// so "game/turn.json" becomes "game/turn7.json".
func TurnPath(template string, turn int) string {
	n := strconv.Itoa(turn)
	if strings.Contains(template, TurnPlaceholder) {
		return strings.ReplaceAll(template, TurnPlaceholder, n)
	}
	ext := filepath.Ext(template)
	return strings.TrimSuffix(template, ext) + n + ext
}

// Path returns the file the loader reads for turn.
func (l *FileLoader) Path(turn int) string {
	return TurnPath(l.template, turn)
}

// ReadRaw returns the UTF-8 bytes of a turn file without parsing them.
func (l *FileLoader) ReadRaw(turn int) ([]byte, error) {
	path := l.Path(turn)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(l.enc.NewDecoder().Reader(f))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrMalformed, path, err)
	}

	log.Debug("read turn file", "turn", turn, "path", path, "size", humanize.Bytes(uint64(len(data))))
	return data, nil
}

// Load implements Loader.
func (l *FileLoader) Load(ctx context.Context, turn int) (*Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := l.ReadRaw(turn)
	if err != nil {
		return nil, err
	}
	t, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.Path(turn), err)
	}
	return t, nil
}
