package binding_test

import (
	"testing"

	"github.com/filament-ui/filament/pkg/backend/memdom"
	"github.com/filament-ui/filament/pkg/binding"
	"github.com/filament-ui/filament/pkg/part"
)

func TestTextCommitWritesPrecedingValueFollowing(t *testing.T) {
	be := memdom.New()
	n := be.CreateText("").(*memdom.Node)
	p := part.NewText(n, "Hello ", "!")
	b := binding.NewText(p, "world")
	b.Commit()
	if got := n.TextData(); got != "Hello world!" {
		t.Fatalf("got %q", got)
	}
}

func TestTextRollbackDropsValue(t *testing.T) {
	be := memdom.New()
	n := be.CreateText("").(*memdom.Node)
	p := part.NewText(n, "x=", "")
	b := binding.NewText(p, 7)
	b.Commit()
	b.Rollback()
	if got := n.TextData(); got != "x=" {
		t.Fatalf("got %q, want the literal fragments with no value", got)
	}
}
