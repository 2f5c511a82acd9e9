package dataset

import (
	_ "embed"

	"github.com/matzehuels/canopy/pkg/tree"
)

//go:embed sample.json
var sampleJSON []byte

// Sample returns the built-in demo dataset. Each call returns a fresh copy.
func Sample() []tree.Item {
	items, err := Parse(sampleJSON, FormatJSON)
	if err != nil {
		panic("dataset: embedded sample is invalid: " + err.Error())
	}
	return items
}
