package items

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	merrors "github.com/matzehuels/masonry/pkg/errors"
)

// Manifest encodings.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// FormatFromName infers the manifest encoding from a file name or URL path.
func FormatFromName(name string) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", merrors.New(merrors.ErrCodeInvalidFormat, "cannot infer manifest format from %q (want .json or .toml)", name)
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	format, err := FormatFromName(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, merrors.Wrap(merrors.ErrCodeFileNotFound, err, "manifest %s", path)
	}
	if err != nil {
		return nil, err
	}
	return Parse(data, format)
}

// Parse decodes and validates a manifest. A JSON document may be either an
// object with an "items" array or a bare array of items.
func Parse(data []byte, format string) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		var err error
		if len(trimmed) > 0 && trimmed[0] == '[' {
			err = json.Unmarshal(trimmed, &m.Items)
		} else {
			err = json.Unmarshal(trimmed, &m)
		}
		if err != nil {
			return nil, merrors.Wrap(merrors.ErrCodeInvalidManifest, err, "decode json manifest")
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &m); err != nil {
			return nil, merrors.Wrap(merrors.ErrCodeInvalidManifest, err, "decode toml manifest")
		}
	default:
		return nil, merrors.New(merrors.ErrCodeInvalidFormat, "unsupported manifest format %q", format)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Marshal encodes a manifest as indented JSON.
func Marshal(m *Manifest) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
