package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Seed returns the built-in catalog used when durable storage holds nothing
// usable. Each call returns an independent deep copy.
func Seed() Tree {
	var tree Tree
	if err := yaml.Unmarshal(seedYAML, &tree); err != nil {
		// The seed is embedded at build time; failing to parse it is a bug.
		panic(fmt.Sprintf("parse embedded seed catalog: %v", err))
	}
	return tree
}
