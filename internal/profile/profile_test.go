package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGet_Default(t *testing.T) {
	p := Get("default")
	want := []int{512, 256, 128, 64, 48, 32, 24, 16}
	if diff := cmp.Diff(want, p.Sizes); diff != "" {
		t.Errorf("ladder (-want +got):\n%s", diff)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestGet_UnknownFallsBack(t *testing.T) {
	p := Get("nope")
	if p.Name != "nope" {
		t.Errorf("name: got %q", p.Name)
	}
	if len(p.Sizes) != 8 {
		t.Errorf("sizes: got %v", p.Sizes)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	p := Get("windows")
	p.Sizes[0] = 1
	if Get("windows").Sizes[0] != 256 {
		t.Error("mutating a returned profile changed the built-in")
	}
}

func TestBuiltinsValid(t *testing.T) {
	for name := range profiles {
		if err := Get(name).Validate(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := map[string]Profile{
		"empty":       {Sizes: nil},
		"zero":        {Sizes: []int{0}},
		"too big":     {Sizes: []int{2048}},
		"duplicate":   {Sizes: []int{32, 16, 32}},
		"filter":      {Sizes: []int{16}, Filter: "sinc"},
		"compression": {Sizes: []int{16}, Compression: "max"},
	}
	for name, p := range tests {
		if err := p.Validate(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tray.yaml")
	raw := "sizes: [64, 32, 16]\nfilter: bilinear\nkeep_padding: true\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]int{64, 32, 16}, p.Sizes); diff != "" {
		t.Errorf("sizes (-want +got):\n%s", diff)
	}
	if p.Filter != "bilinear" || !p.KeepPadding {
		t.Errorf("got %+v", p)
	}
	if p.Name != path {
		t.Errorf("name: got %q", p.Name)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("sizes: [16, 16]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected validation error")
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected read error")
	}
}
