package binding_test

import (
	"testing"

	"github.com/filament-ui/filament/pkg/backend/memdom"
	"github.com/filament-ui/filament/pkg/binding"
	"github.com/filament-ui/filament/pkg/part"
)

// TestAttributeToggleScenario is spec's end-to-end scenario 1: html`<div
// class=${v}></div>` over "a", "b", null, "c" must leave outerHTML equal to
// <div class="a">, <div class="b">, <div>, <div class="c"> respectively.
func TestAttributeToggleScenario(t *testing.T) {
	be := memdom.New()
	div := be.CreateElement("div", "http://www.w3.org/1999/xhtml").(*memdom.Node)

	p := part.NewAttribute(div, "class")
	b := binding.NewAttribute(p, "a")
	ctx := &fakeCtx{}
	b.Connect(ctx)
	ctx.Flush()
	if got := div.OuterHTML(); got != `<div class="a"></div>` {
		t.Fatalf("after initial commit: got %q", got)
	}

	steps := []struct {
		value any
		want  string
	}{
		{"b", `<div class="b"></div>`},
		{nil, `<div></div>`},
		{"c", `<div class="c"></div>`},
	}
	for _, s := range steps {
		if b.ShouldBind(s.value) {
			b.Bind(s.value)
			b.Commit()
		}
		if got := div.OuterHTML(); got != s.want {
			t.Fatalf("value %v: got %q, want %q", s.value, got, s.want)
		}
	}
}

func TestAttributeBoolToggle(t *testing.T) {
	be := memdom.New()
	div := be.CreateElement("div", "http://www.w3.org/1999/xhtml").(*memdom.Node)
	p := part.NewAttribute(div, "disabled")
	b := binding.NewAttribute(p, true)
	b.Commit()
	if v, ok := div.Attribute("disabled"); !ok || v != "" {
		t.Fatalf("expected empty-string disabled attribute, got %q ok=%v", v, ok)
	}
	b.Bind(false)
	b.Commit()
	if _, ok := div.Attribute("disabled"); ok {
		t.Fatalf("expected disabled attribute removed")
	}
}

func TestAttributeShouldBindStringEquivalence(t *testing.T) {
	div := memdom.New().CreateElement("div", "http://www.w3.org/1999/xhtml").(*memdom.Node)
	p := part.NewAttribute(div, "tabindex")
	b := binding.NewAttribute(p, 1)
	if b.ShouldBind("1") {
		t.Fatalf("expected 1 and %q to compare equal under attribute semantics", "1")
	}
	if !b.ShouldBind(2) {
		t.Fatalf("expected 2 to differ from 1")
	}
}

func TestAttributeRollbackRemovesIt(t *testing.T) {
	div := memdom.New().CreateElement("div", "http://www.w3.org/1999/xhtml").(*memdom.Node)
	p := part.NewAttribute(div, "class")
	b := binding.NewAttribute(p, "a")
	b.Commit()
	b.Rollback()
	if _, ok := div.Attribute("class"); ok {
		t.Fatalf("expected class attribute removed after rollback")
	}
	if b.State() != binding.StateDisconnected {
		t.Fatalf("expected StateDisconnected after rollback, got %v", b.State())
	}
}
