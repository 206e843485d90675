// Package state persists allocator state documents as JSON files.
package state

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"memsim/mem/alloc"
)

// Save writes the document to path as indented JSON.
func Save(path string, doc alloc.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling state document")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing state file %s", path)
	}
	return nil
}

// Load reads a state document from path.
func Load(path string) (alloc.Document, error) {
	var doc alloc.Document
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, errors.Wrapf(err, "reading state file %s", path)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, errors.Wrapf(err, "parsing state file %s", path)
	}
	return doc, nil
}
