package utils

import (
	"strings"
	"testing"
)

func TestGenerateOrderID_Shape(t *testing.T) {
	id := GenerateOrderID(7)
	if !strings.HasPrefix(id, "L2E-") {
		t.Fatalf("expected L2E- prefix, got %q", id)
	}
	if !strings.HasSuffix(id, "7") {
		t.Fatalf("expected user id suffix, got %q", id)
	}
	// prefix + 6 nano digits + 3 random digits + user id
	if len(id) < len("L2E-")+6+3+1 {
		t.Fatalf("order id too short: %q", id)
	}
}

func TestGenerateOrderID_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := GenerateOrderID(1)
		if seen[id] {
			t.Fatalf("duplicate order id %q after %d iterations", id, i)
		}
		seen[id] = true
	}
}
