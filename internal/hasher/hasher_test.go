package hasher

import "testing"

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte("icon"), 0)
	if len(a) != 16 {
		t.Fatalf("full hash length: got %d", len(a))
	}
	if ContentHash([]byte("icon"), 0) != a {
		t.Error("hash is not deterministic")
	}
	if ContentHash([]byte("icon!"), 0) == a {
		t.Error("different input produced the same hash")
	}
	if got := ContentHash([]byte("icon"), 8); got != a[:8] {
		t.Errorf("truncated: got %q want %q", got, a[:8])
	}
	// Known value: xxhash64 of the empty input.
	if got := ContentHash(nil, 0); got != "ef46db3751d8e999" {
		t.Errorf("empty input: got %s", got)
	}
}
