// Package modelfile reads a model export from a JSON file and writes the
// resolved device values to a sibling file.
package modelfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ohowland/beyond_core/internal/pkg/model"
)

// Store is a file backed model.Source and model.Sink.
type Store struct {
	path string
}

// New returns a Store for the model export at path.
func New(path string) Store {
	return Store{path}
}

// Load reads the model document. An empty Path in the file is replaced by
// the file's own path so reports land next to it.
func (s Store) Load(ctx context.Context) (model.Document, error) {
	jsonDoc, err := os.ReadFile(s.path)
	if err != nil {
		return model.Document{}, err
	}
	doc := model.Document{}
	if err := json.Unmarshal(jsonDoc, &doc); err != nil {
		return model.Document{}, err
	}
	if doc.Path == "" {
		doc.Path = s.path
	}
	return doc, nil
}

// ResolvedPath is where WriteBack writes, "<model>.resolved.json".
func (s Store) ResolvedPath() string {
	return strings.TrimSuffix(s.path, filepath.Ext(s.path)) + ".resolved.json"
}

// WriteBack replaces the resolved file in one step: the batch is written to
// a temporary file which is then renamed over the previous one.
func (s Store) WriteBack(ctx context.Context, resolutions []model.Resolution) error {
	body, err := json.MarshalIndent(resolutions, "", "  ")
	if err != nil {
		return err
	}

	target := s.ResolvedPath()
	tmp, err := os.CreateTemp(filepath.Dir(target), ".resolved-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}

// ReadResolutions reads a file written by WriteBack.
func ReadResolutions(path string) ([]model.Resolution, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []model.Resolution
	err = json.Unmarshal(body, &out)
	return out, err
}
