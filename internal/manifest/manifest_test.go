package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestManifestRoundtrip(t *testing.T) {
	m := New("test-profile", []int{32, 16})
	m.BuildInfo = &BuildInfo{Workers: 4, Filter: "lanczos"}
	m.Files = append(m.Files,
		File{
			Input:      "icons/App.icns",
			Output:     "App.ico",
			InputSize:  100000,
			OutputSize: 3000,
			Hash:       "abcd1234abcd1234",
			Source:     &Source{Tag: "ic10", Width: 1024, Height: 1024},
			Crop:       &Rect{X: 100, Y: 90, Width: 824, Height: 840},
			Variants: []Variant{
				{Size: 16, Bytes: 1000, Offset: 38},
				{Size: 32, Bytes: 1962, Offset: 1038},
			},
		},
		File{Input: "broken.icns", InputSize: 40, Error: "icns: no usable images"},
	)

	path := filepath.Join(t.TempDir(), "icns2ico.manifest.json")
	if err := WriteJSON(m, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	m2, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if m2.Version != SupportedManifestVersion {
		t.Errorf("version: got %d, want %d", m2.Version, SupportedManifestVersion)
	}
	if m2.Profile != "test-profile" {
		t.Errorf("profile: got %q", m2.Profile)
	}
	if m2.BuildInfo == nil || m2.BuildInfo.Workers != 4 {
		t.Fatal("build_info missing")
	}
	if len(m2.Files) != 2 {
		t.Fatalf("files: got %d", len(m2.Files))
	}
	f := m2.Files[0]
	if f.Source == nil || f.Source.Tag != "ic10" {
		t.Errorf("source: got %+v", f.Source)
	}
	if f.Crop == nil || f.Crop.Width != 824 {
		t.Errorf("crop: got %+v", f.Crop)
	}
	if len(f.Variants) != 2 || f.Variants[1].Offset != 1038 {
		t.Errorf("variants: got %+v", f.Variants)
	}
	if !m2.Files[1].Failed() {
		t.Error("second file should be failed")
	}

	s := m2.Stats
	if s.TotalFiles != 2 || s.Converted != 1 || s.Failed != 1 {
		t.Errorf("counts: got %+v", s)
	}
	if s.TotalInputBytes != 100040 || s.TotalOutputBytes != 3000 {
		t.Errorf("bytes: got %+v", s)
	}
}

func TestManifestVersion(t *testing.T) {
	m := New("v-test", nil)
	if m.Version != SupportedManifestVersion {
		t.Errorf("new manifest version: got %d, want %d", m.Version, SupportedManifestVersion)
	}
}

func TestReadJSON_RejectsFutureVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := os.WriteFile(path, []byte(`{"version": 2, "files": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadJSON(path); err == nil {
		t.Error("expected version error")
	}
}

func TestManifestIgnoresUnknownFields(t *testing.T) {
	// Simulate a future manifest with extra fields.
	raw := `{
		"version": 1,
		"generated_at": "2025-01-01T00:00:00Z",
		"profile": "test",
		"sizes": [16],
		"future_field": "should be ignored",
		"build_info": { "workers": 8, "filter": "box", "new_flag": true },
		"files": [],
		"stats": { "total_files": 0, "converted": 0, "failed": 0, "new_stat": 42 }
	}`

	var m Manifest
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal with unknown fields: %v", err)
	}
	if m.Version != 1 {
		t.Errorf("version: got %d", m.Version)
	}
	if m.BuildInfo == nil || m.BuildInfo.Workers != 8 {
		t.Error("build_info not parsed correctly")
	}
}
