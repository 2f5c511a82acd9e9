package dataset

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	cerrors "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/tree"
)

func TestSample(t *testing.T) {
	items := Sample()
	if len(items) != 20 {
		t.Fatalf("len(Sample()) = %d, want 20", len(items))
	}
	if items[0].Name != "Root 1" || items[0].Metadata != "Metadata for Root 1" {
		t.Errorf("first root = %q / %q", items[0].Name, items[0].Metadata)
	}
	if items[7].Name != "Root 8" || len(items[7].Children) != 0 || items[7].Metadata != "" {
		t.Errorf("Root 8 = %+v, want a bare leaf", items[7])
	}
	if got := Count(items); got != 93 {
		t.Errorf("Count(Sample()) = %d, want 93", got)
	}

	items[0].Name = "changed"
	if Sample()[0].Name != "Root 1" {
		t.Error("Sample() should return a fresh copy")
	}
}

func TestParse(t *testing.T) {
	want := []tree.Item{
		{Name: "A", Metadata: "about A", Children: []tree.Item{{Name: "A.1"}}},
		{Name: "B"},
	}
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"json object", FormatJSON, `{"items":[{"name":"A","metadata":"about A","children":[{"name":"A.1"}]},{"name":"B"}]}`},
		{"json array", FormatJSON, ` [{"name":"A","metadata":"about A","children":[{"name":"A.1"}]},{"name":"B"}]`},
		{"yaml", FormatYAML, `
items:
  - name: A
    metadata: about A
    children:
      - name: A.1
  - name: B
`},
		{"toml", FormatTOML, `
[[items]]
name = "A"
metadata = "about A"

  [[items.children]]
  name = "A.1"

[[items]]
name = "B"
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		input    string
		code     cerrors.Code
		contains string
	}{
		{"malformed json", FormatJSON, `{"items": [`, cerrors.ErrCodeInvalidFormat, "decode json"},
		{"malformed yaml", FormatYAML, "items: [a: b: c", cerrors.ErrCodeInvalidFormat, "decode yaml"},
		{"malformed toml", FormatTOML, "[[items]\nname=", cerrors.ErrCodeInvalidFormat, "decode toml"},
		{"missing name", FormatJSON, `{"items":[{"name":"A","children":[{"metadata":"x"}]}]}`, cerrors.ErrCodeInvalidInput, "items[0].children[0]"},
		{"control char", FormatJSON, `{"items":[{"name":"ok"},{"name":"bad\u0007"}]}`, cerrors.ErrCodeInvalidInput, "items[1]"},
		{"unknown format", Format("xml"), `<items/>`, cerrors.ErrCodeInvalidFormat, "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), tt.format)
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if !cerrors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s", cerrors.GetCode(err), tt.code)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q should mention %q", err, tt.contains)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"tree.json", FormatJSON, false},
		{"dir/tree.YAML", FormatYAML, false},
		{"tree.yml", FormatYAML, false},
		{"tree.toml", FormatTOML, false},
		{"tree.xml", "", true},
		{"tree", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
	if f, err := ParseFormat("yml"); err != nil || f != FormatYAML {
		t.Errorf("ParseFormat(yml) = %q, %v", f, err)
	}
}

func TestExportLoadPreservesSample(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range []string{".json", ".yaml", ".toml"} {
		path := filepath.Join(dir, "sample"+ext)
		if err := Export(Sample(), path); err != nil {
			t.Fatalf("Export(%s) error: %v", ext, err)
		}
		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s) error: %v", ext, err)
		}
		if diff := cmp.Diff(Sample(), got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", ext, diff)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !cerrors.Is(err, cerrors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestReadBareArray(t *testing.T) {
	items, err := Read(bytes.NewBufferString(`[{"name":"only"}]`), FormatJSON)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if len(items) != 1 || items[0].Name != "only" {
		t.Errorf("Read() = %+v", items)
	}
}
