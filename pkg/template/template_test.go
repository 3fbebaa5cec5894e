package template_test

import (
	"testing"

	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/backend/memdom"
	"github.com/filament-ui/filament/pkg/scheduler"
	"github.com/filament-ui/filament/pkg/template"
)

// instantiateAndCommit builds src under root in one frame: Instantiate,
// attach the roots, then Commit — mirroring the Mount path in filament.go.
func instantiateAndCommit(t *testing.T, be *memdom.BackEnd, root *memdom.Node, mode template.Mode, src template.Source) *template.Result {
	t.Helper()
	rt := scheduler.New(be)
	defer rt.Close()

	var result *template.Result
	rt.RunRoot(scheduler.LaneUserBlocking, func(fc *scheduler.FrameContext) {
		ctx := template.NewContext(fc, be)
		plan, err := template.Get(mode, src)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		r, err := template.Instantiate(plan, src.Binds, be, ctx)
		if err != nil {
			t.Fatalf("Instantiate: %v", err)
		}
		for _, n := range r.Roots {
			root.InsertBefore(n, nil)
		}
		r.Commit()
		result = r
	})
	return result
}

func TestCompileAttributeHole(t *testing.T) {
	be := memdom.New()
	root := memdom.NewFragment()

	src := template.Source{Strings: []string{`<div class="`, `"></div>`}, Binds: []any{"a"}}
	instantiateAndCommit(t, be, root, template.ModeHTML, src)

	if got := root.OuterHTML(); got != `<div class="a"></div>` {
		t.Fatalf("got %q", got)
	}
}

func TestCompileChildHole(t *testing.T) {
	be := memdom.New()
	root := memdom.NewFragment()

	src := template.Source{Strings: []string{`<p>Hello, `, `!</p>`}, Binds: []any{"world"}}
	instantiateAndCommit(t, be, root, template.ModeHTML, src)

	got := root.OuterHTML()
	if got != `<p>Hello, world<!---->!</p>` {
		t.Fatalf("got %q", got)
	}
}

func TestCompilePropertyHole(t *testing.T) {
	be := memdom.New()
	root := memdom.NewFragment()

	r := instantiateAndCommit(t, be, root, template.ModeHTML, template.Source{
		Strings: []string{`<input .value="`, `">`},
		Binds:   []any{"hi"},
	})
	inputNode := r.Roots[0].(*memdom.Node)
	if v := inputNode.GetProperty("value"); v != "hi" {
		t.Fatalf("expected .value property set to %q, got %v", "hi", v)
	}
}

type fakeClickEvent struct{}

func (fakeClickEvent) Type() string          { return "click" }
func (fakeClickEvent) Target() backend.Node  { return nil }
func (fakeClickEvent) PreventDefault()       {}
func (fakeClickEvent) StopPropagation()      {}

func TestCompileEventHole(t *testing.T) {
	be := memdom.New()
	root := memdom.NewFragment()

	clicked := false
	r := instantiateAndCommit(t, be, root, template.ModeHTML, template.Source{
		Strings: []string{`<button @click="`, `"></button>`},
		Binds:   []any{func(backend.Event) { clicked = true }},
	})
	button := r.Roots[0].(*memdom.Node)
	button.Dispatch(fakeClickEvent{})
	if !clicked {
		t.Fatalf("expected the @click handler to fire")
	}
}

func TestCompileElementSpreadHole(t *testing.T) {
	be := memdom.New()
	root := memdom.NewFragment()

	spread := map[string]any{"id": "x", ".value": "y"}
	r := instantiateAndCommit(t, be, root, template.ModeHTML, template.Source{
		Strings: []string{`<input `, `>`},
		Binds:   []any{spread},
	})
	node := r.Roots[0].(*memdom.Node)
	if v, ok := node.Attribute("id"); !ok || v != "x" {
		t.Fatalf("expected id attribute %q, got %q ok=%v", "x", v, ok)
	}
}

func TestUpdateRebindsHoleInPlanOrder(t *testing.T) {
	be := memdom.New()
	root := memdom.NewFragment()
	rt := scheduler.New(be)
	defer rt.Close()

	src := template.Source{Strings: []string{`<div class="`, `"></div>`}, Binds: []any{"a"}}
	var result *template.Result
	rt.RunRoot(scheduler.LaneUserBlocking, func(fc *scheduler.FrameContext) {
		ctx := template.NewContext(fc, be)
		plan, err := template.Get(template.ModeHTML, src)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		r, err := template.Instantiate(plan, src.Binds, be, ctx)
		if err != nil {
			t.Fatalf("Instantiate: %v", err)
		}
		for _, n := range r.Roots {
			root.InsertBefore(n, nil)
		}
		r.Commit()
		result = r
	})

	rt.RunRoot(scheduler.LaneUserBlocking, func(fc *scheduler.FrameContext) {
		ctx := template.NewContext(fc, be)
		if err := result.Update([]any{"b"}, ctx); err != nil {
			t.Fatalf("Update: %v", err)
		}
		result.Commit()
	})

	if got := root.OuterHTML(); got != `<div class="b"></div>` {
		t.Fatalf("got %q", got)
	}
}

func TestGetCachesByStringsContent(t *testing.T) {
	src1 := template.Source{Strings: []string{`<p>`, `</p>`}, Binds: []any{"x"}}
	src2 := template.Source{Strings: []string{`<p>`, `</p>`}, Binds: []any{"y"}}

	p1, err := template.Get(template.ModeHTML, src1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	p2, err := template.Get(template.ModeHTML, src2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p1 != p2 {
		t.Fatalf("expected the same *Plan for identical Strings content")
	}
}

func TestSVGModeUsesSVGNamespace(t *testing.T) {
	be := memdom.New()
	root := memdom.NewFragment()

	r := instantiateAndCommit(t, be, root, template.ModeSVG, template.Source{
		Strings: []string{`<circle r="`, `"></circle>`}, Binds: []any{"5"},
	})
	if len(r.Roots) != 1 {
		t.Fatalf("expected exactly one root, got %d", len(r.Roots))
	}
}
