package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	cerrors "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/tree"
)

// document is the on-disk shape.
type document struct {
	Items []tree.Item `json:"items" yaml:"items" toml:"items"`
}

// Read decodes a dataset from r and validates it.
//
// Read returns an INVALID_FORMAT error when the input cannot be decoded and
// an INVALID_INPUT error when an item fails validation. Read does not close r.
func Read(r io.Reader, format Format) ([]tree.Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes and validates a dataset held in memory.
func Parse(data []byte, format Format) ([]tree.Item, error) {
	var doc document
	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			if err := json.Unmarshal(trimmed, &doc.Items); err != nil {
				return nil, cerrors.Wrap(cerrors.ErrCodeInvalidFormat, err, "decode json")
			}
			break
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidFormat, err, "decode json")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidFormat, err, "decode toml")
		}
	default:
		return nil, cerrors.New(cerrors.ErrCodeInvalidFormat, "unsupported dataset format %q", format)
	}
	if err := Validate(doc.Items); err != nil {
		return nil, err
	}
	return doc.Items, nil
}

// Load reads the dataset file at path, inferring the format from its
// extension.
func Load(path string) ([]tree.Item, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cerrors.Wrap(cerrors.ErrCodeFileNotFound, err, "dataset %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	items, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// Validate checks every item name in the nested structure.
func Validate(items []tree.Item) error {
	return validate(items, "items")
}

func validate(items []tree.Item, path string) error {
	for i, it := range items {
		p := fmt.Sprintf("%s[%d]", path, i)
		if err := cerrors.ValidateNodeName(it.Name); err != nil {
			return cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "%s", p)
		}
		if err := validate(it.Children, p+".children"); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of items in the nested structure.
func Count(items []tree.Item) int {
	n := len(items)
	for _, it := range items {
		n += Count(it.Children)
	}
	return n
}
