// Package dataset reads and writes the nested input structure of a tree.
//
// # Format
//
// A dataset is an object with one "items" array. Each item has a required
// "name", an optional free-text "metadata" and optional nested "children":
//
//	{
//	  "items": [
//	    {"name": "Root 1", "metadata": "Metadata for Root 1", "children": [
//	      {"name": "Child 1.1"},
//	      {"name": "Child 1.2"}
//	    ]},
//	    {"name": "Root 2"}
//	  ]
//	}
//
// The same shape is accepted as YAML or TOML (an [[items]] array of tables).
// A bare JSON array of items is accepted as shorthand.
//
// # Validation
//
// Every name must pass [errors.ValidateNodeName]. Failures are reported as
// INVALID_INPUT errors that carry the item's path, for example
// items[3].children[0].
//
// # Sample
//
// [Sample] returns the built-in demo dataset of twenty roots used by the
// CLI when no file is given.
//
// [errors.ValidateNodeName]: github.com/matzehuels/canopy/pkg/errors.ValidateNodeName
package dataset
