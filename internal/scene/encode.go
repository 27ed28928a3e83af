package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatJS   = "js"
	FormatYAML = "yaml"
)

// jsPrefix makes the record loadable by a plain <script> tag in the viewer
// page.
const jsPrefix = "sceneJSON = "

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatJSON, FormatJS, FormatYAML}
}

// Encode writes rec to w in the given format.
func Encode(w io.Writer, rec *Record, format string) error {
	switch format {
	case FormatJSON, "":
		return json.NewEncoder(w).Encode(rec)
	case FormatJS:
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal scene: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s%s;\n", jsPrefix, data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to marshal scene: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown scene format %q", format)
	}
}

// Decode reads a record written in the json or js format.
func Decode(r io.Reader) (*Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte(jsPrefix)) {
		data = bytes.TrimPrefix(data, []byte(jsPrefix))
		data = bytes.TrimSuffix(data, []byte(";"))
	}

	rec := NewRecord()
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return rec, nil
}
