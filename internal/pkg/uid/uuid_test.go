package uid

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUID_Generate(t *testing.T) {
	// Arrange
	g := NewUUID()

	// Act
	a, b := g.Generate(), g.Generate()

	// Assert
	if a == b {
		t.Fatalf("expected unique ids")
	}
	if !Valid(a) {
		t.Fatalf("expected valid uuid, got %q", a)
	}
	if v := uuid.MustParse(a).Version(); v != 7 {
		t.Fatalf("expected v7, got %d", v)
	}
	if Valid("not-a-uuid") {
		t.Fatalf("expected invalid")
	}
}
