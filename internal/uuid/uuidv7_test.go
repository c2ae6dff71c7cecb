package uuid

import (
	"strings"
	"testing"
)

func TestNew_IsVersion7(t *testing.T) {
	id := New()
	if _, err := Parse(id); err != nil {
		t.Fatalf("expected valid uuid, got %q: %v", id, err)
	}
	if id[14] != '7' {
		t.Errorf("expected version nibble 7, got %q", id)
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestParse(t *testing.T) {
	id := New()
	got, err := Parse(strings.ToUpper(id))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != id {
		t.Errorf("expected canonical %s, got %s", id, got)
	}

	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error for invalid uuid")
	}
}
