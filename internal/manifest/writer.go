package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// New creates an empty manifest with defaults.
func New(profileName string, sizes []int) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		Sizes:       sizes,
		Files:       []File{},
	}
}

// Failed reports whether the file did not produce an ICO.
func (f File) Failed() bool { return f.Error != "" }

// ComputeStats recalculates aggregate statistics from files.
func (m *Manifest) ComputeStats() {
	var s Stats
	s.TotalFiles = len(m.Files)
	for _, f := range m.Files {
		s.TotalInputBytes += f.InputSize
		if f.Failed() {
			s.Failed++
			continue
		}
		s.Converted++
		s.TotalOutputBytes += f.OutputSize
	}
	m.Stats = s
}

// WriteJSON serializes the manifest to an indented JSON file.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a manifest written by WriteJSON.
func ReadJSON(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m.Version != SupportedManifestVersion {
		return nil, fmt.Errorf("unsupported manifest version: %d", m.Version)
	}
	return &m, nil
}
