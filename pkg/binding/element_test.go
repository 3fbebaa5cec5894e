package binding_test

import (
	"testing"

	"github.com/filament-ui/filament/pkg/backend/memdom"
	"github.com/filament-ui/filament/pkg/binding"
	"github.com/filament-ui/filament/pkg/part"
)

func TestElementMicrobindingDiff(t *testing.T) {
	div := memdom.New().CreateElement("div", "http://www.w3.org/1999/xhtml").(*memdom.Node)
	p := part.NewElement(div)
	b := binding.NewElement(p)

	b.Bind(map[string]any{"class": "a", ".scrollTop": 10})
	b.Commit()
	if got, _ := div.Attribute("class"); got != "a" {
		t.Fatalf("got class=%q, want a", got)
	}
	if got := div.GetProperty("scrollTop"); got != 10 {
		t.Fatalf("got scrollTop=%v, want 10", got)
	}

	// Removing a key from the next map rolls back that microbinding.
	b.Bind(map[string]any{"class": "b"})
	b.Commit()
	if got, _ := div.Attribute("class"); got != "b" {
		t.Fatalf("got class=%q, want b", got)
	}
	if got := div.GetProperty("scrollTop"); got != nil {
		t.Fatalf("expected scrollTop property rolled back to nil, got %v", got)
	}
}

func TestElementRollbackClearsEveryMicrobinding(t *testing.T) {
	div := memdom.New().CreateElement("div", "http://www.w3.org/1999/xhtml").(*memdom.Node)
	p := part.NewElement(div)
	b := binding.NewElement(p)
	b.Bind(map[string]any{"class": "a"})
	b.Commit()
	b.Rollback()
	if _, ok := div.Attribute("class"); ok {
		t.Fatalf("expected class attribute removed after Element rollback")
	}
}
