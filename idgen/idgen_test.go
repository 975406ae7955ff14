package idgen

import (
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNanoID(t *testing.T) {
	gen := NanoID(12)
	seen := make(map[string]struct{}, 500)
	for i := 0; i < 500; i++ {
		id := gen()
		if len(id) != 12 {
			t.Fatalf("length %d, want 12", len(id))
		}
		if strings.Trim(id, "0123456789abcdefghijklmnopqrstuvwxyz") != "" {
			t.Fatalf("unexpected character in %q", id)
		}
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id at iteration %d: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestUUIDv7_Sortable(t *testing.T) {
	gen := UUIDv7()
	ids := make([]string, 50)
	for i := range ids {
		ids[i] = gen()
		if _, err := uuid.Parse(ids[i]); err != nil {
			t.Fatalf("uuid.Parse(%q): %v", ids[i], err)
		}
		if ids[i][14] != '7' {
			t.Fatalf("not a v7 UUID: %q", ids[i])
		}
	}
	if !slices.IsSorted(ids) {
		t.Fatal("UUIDv7 ids should sort by creation order")
	}
}

func TestTimestamped(t *testing.T) {
	id := Timestamped(func() string { return "abc" })()
	if !regexp.MustCompile(`^\d{8}T\d{6}Z_abc$`).MatchString(id) {
		t.Fatalf("unexpected format %q", id)
	}
}
