package exporter

import (
	"gopkg.in/yaml.v3"

	"github.com/nikbrunner/linkdeck/internal/model"
)

// yamlVersion is bumped when the document layout changes.
const yamlVersion = 1

type yamlDocument struct {
	Version    int        `yaml:"version"`
	Categories model.Tree `yaml:"categories"`
}

// ExportYAML renders the tree as a YAML document, ids and icons included.
func ExportYAML(tree model.Tree) ([]byte, error) {
	return yaml.Marshal(yamlDocument{
		Version:    yamlVersion,
		Categories: tree,
	})
}
