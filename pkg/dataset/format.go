package dataset

import (
	"path/filepath"
	"strings"

	cerrors "github.com/matzehuels/canopy/pkg/errors"
)

// Format is a dataset encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", cerrors.New(cerrors.ErrCodeInvalidFormat, "unsupported dataset extension %q (want .json, .yaml, .yml or .toml)", filepath.Ext(path))
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	if strings.EqualFold(s, "yml") {
		return FormatYAML, nil
	}
	return "", cerrors.New(cerrors.ErrCodeInvalidFormat, "unsupported dataset format %q", s)
}
