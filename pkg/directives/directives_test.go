package directives_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/backend/memdom"
	"github.com/filament-ui/filament/pkg/directive"
	"github.com/filament-ui/filament/pkg/directives"
	"github.com/filament-ui/filament/pkg/hooks"
	"github.com/filament-ui/filament/pkg/part"
	"github.com/filament-ui/filament/pkg/scheduler"
	"github.com/filament-ui/filament/pkg/scope"
	"github.com/filament-ui/filament/pkg/template"
)

// mountChildHole resolves and connects value against a fresh ChildNode hole
// appended to root, inside one RunRoot frame, mirroring how the template
// package's Instantiate wires a hole to whatever directive claims it. It
// returns the binding so a test can drive further Bind/Commit cycles.
func mountChildHole(t *testing.T, rt *scheduler.Runtime, be backend.BackEnd, root *memdom.Node, value any) directive.Binding {
	t.Helper()
	anchor := be.CreateComment("")
	root.InsertBefore(anchor, nil)
	p := part.NewChildNode(anchor, nil, "")

	var bound directive.Binding
	rt.RunRoot(scheduler.LaneUserBlocking, func(fc *scheduler.FrameContext) {
		ctx := template.NewRuntimeContext(fc, be, rt, scope.New())
		dir, err := ctx.ResolveDirective(value, p)
		if err != nil {
			t.Fatalf("ResolveDirective: %v", err)
		}
		raw, err := dir.ResolveBinding(value, p, ctx)
		if err != nil {
			t.Fatalf("ResolveBinding: %v", err)
		}
		raw.Connect(ctx)
		bound = raw
	})
	return bound
}

func TestComponentMountsAndReRendersOnStateDispatch(t *testing.T) {
	be := memdom.New()
	rt := scheduler.New(be)
	defer rt.Close()
	root := memdom.NewFragment()

	var dispatch hooks.Dispatch
	comp := directives.Component{Render: func() template.Literal {
		n, d := hooks.UseState(0)
		dispatch = d
		return template.Literal{Mode: template.ModeHTML, Source: template.Source{
			Strings: []string{`<span>`, `</span>`},
			Binds:   []any{strconv.Itoa(n)},
		}}
	}}
	mountChildHole(t, rt, be, root, comp)

	if got := root.OuterHTML(); got != `<span>0</span><!---->` {
		t.Fatalf("got %q", got)
	}

	dispatch(1)
	rt.Go(func() {}) // the ScheduleUpdate request queued by dispatch has already drained by now

	if got := root.OuterHTML(); got != `<span>1</span><!---->` {
		t.Fatalf("expected the component's own re-render to update in place, got %q", got)
	}
}

func TestComponentRebindsToNewRenderFuncOnParentCommit(t *testing.T) {
	be := memdom.New()
	rt := scheduler.New(be)
	defer rt.Close()
	root := memdom.NewFragment()

	makeComp := func(label string) directives.Component {
		return directives.Component{Render: func() template.Literal {
			return template.Literal{Mode: template.ModeHTML, Source: template.Source{
				Strings: []string{`<b>`, `</b>`},
				Binds:   []any{label},
			}}
		}}
	}

	bound := mountChildHole(t, rt, be, root, makeComp("first"))
	if got := root.OuterHTML(); got != `<b>first</b><!---->` {
		t.Fatalf("got %q", got)
	}

	rt.RunRoot(scheduler.LaneUserBlocking, func(fc *scheduler.FrameContext) {
		bound.Bind(makeComp("second"))
		bound.Commit()
	})

	if got := root.OuterHTML(); got != `<b>second</b><!---->` {
		t.Fatalf("expected the parent-driven Commit to re-render with the new props, got %q", got)
	}
}

func TestRepeatReordersAndResizesKeyedRows(t *testing.T) {
	be := memdom.New()
	rt := scheduler.New(be)
	defer rt.Close()
	root := memdom.NewFragment()

	render := func(n int) template.Literal {
		return template.Literal{Mode: template.ModeHTML, Source: template.Source{
			Strings: []string{`<li>`, `</li>`},
			Binds:   []any{strconv.Itoa(n)},
		}}
	}
	keyFn := func(n int) any { return n }

	bound := mountChildHole(t, rt, be, root, directives.Repeat[int]{
		Items: []int{1, 2, 3}, Key: keyFn, Render: render,
	})
	if got := root.OuterHTML(); got != `<li>1</li><li>2</li><li>3</li><!---->` {
		t.Fatalf("got %q", got)
	}

	rt.RunRoot(scheduler.LaneUserBlocking, func(fc *scheduler.FrameContext) {
		bound.Bind(directives.Repeat[int]{Items: []int{3, 1, 2}, Key: keyFn, Render: render})
		bound.Commit()
	})
	if got := root.OuterHTML(); got != `<li>3</li><li>1</li><li>2</li><!---->` {
		t.Fatalf("expected a reorder with every row reused, got %q", got)
	}

	rt.RunRoot(scheduler.LaneUserBlocking, func(fc *scheduler.FrameContext) {
		bound.Bind(directives.Repeat[int]{Items: []int{1}, Key: keyFn, Render: render})
		bound.Commit()
	})
	if got := root.OuterHTML(); got != `<li>1</li><!---->` {
		t.Fatalf("expected the removed rows to be gone, got %q", got)
	}

	rt.RunRoot(scheduler.LaneUserBlocking, func(fc *scheduler.FrameContext) {
		bound.Bind(directives.Repeat[int]{Items: []int{1, 5}, Key: keyFn, Render: render})
		bound.Commit()
	})
	if got := root.OuterHTML(); got != `<li>1</li><li>5</li><!---->` {
		t.Fatalf("expected an appended row, got %q", got)
	}
}

func TestSignalBindsToAttributeAndUpdatesOnSet(t *testing.T) {
	be := memdom.New()
	rt := scheduler.New(be)
	defer rt.Close()

	div := be.CreateElement("div", "http://www.w3.org/1999/xhtml").(*memdom.Node)
	p := part.NewAttribute(div, "class")
	sig := directives.NewSignal("a")

	rt.RunRoot(scheduler.LaneUserBlocking, func(fc *scheduler.FrameContext) {
		ctx := template.NewRuntimeContext(fc, be, rt, scope.New())
		dir, err := ctx.ResolveDirective(sig, p)
		if err != nil {
			t.Fatalf("ResolveDirective: %v", err)
		}
		b, err := dir.ResolveBinding(sig, p, ctx)
		if err != nil {
			t.Fatalf("ResolveBinding: %v", err)
		}
		b.Connect(ctx)
	})

	if v, ok := div.Attribute("class"); !ok || v != "a" {
		t.Fatalf("got %q ok=%v", v, ok)
	}

	sig.Set("b")
	if v, ok := div.Attribute("class"); !ok || v != "b" {
		t.Fatalf("expected Signal.Set to have committed through the Runtime by the time it returns, got %q ok=%v", v, ok)
	}
}

func TestSignalRejectsEventAndElementParts(t *testing.T) {
	be := memdom.New()
	button := be.CreateElement("button", "http://www.w3.org/1999/xhtml").(*memdom.Node)
	sig := directives.NewSignal(1)

	if _, err := sig.ToDirective(part.NewEvent(button, "click"), nil); err == nil {
		t.Fatalf("expected an error binding a Signal to an Event part")
	}
	if _, err := sig.ToDirective(part.NewElement(button), nil); err == nil {
		t.Fatalf("expected an error binding a Signal to an Element part")
	}
}

func TestAsyncRendersPendingThenSuccess(t *testing.T) {
	be := memdom.New()
	rt := scheduler.New(be)
	defer rt.Close()
	root := memdom.NewFragment()

	release := make(chan struct{})
	a := directives.Async[string]{
		Key: "fetch-1",
		Run: func(ctx context.Context) (string, error) {
			<-release
			return "done", nil
		},
		Pending: func() template.Literal {
			return template.Literal{Mode: template.ModeHTML, Source: template.Source{Strings: []string{`<i>loading</i>`}}}
		},
		Success: func(v string) template.Literal {
			return template.Literal{Mode: template.ModeHTML, Source: template.Source{Strings: []string{`<i>`, `</i>`}, Binds: []any{v}}}
		},
		Failure: func(err error) template.Literal {
			return template.Literal{Mode: template.ModeHTML, Source: template.Source{Strings: []string{`<i>`, `</i>`}, Binds: []any{err.Error()}}}
		},
	}
	mountChildHole(t, rt, be, root, a)

	if got := root.OuterHTML(); got != `<i>loading</i><!---->` {
		t.Fatalf("expected the pending state to render before Run completes, got %q", got)
	}

	close(release)
	waitFor(t, func() bool { return root.OuterHTML() == `<i>done</i><!---->` })
}

func TestAsyncRendersFailure(t *testing.T) {
	be := memdom.New()
	rt := scheduler.New(be)
	defer rt.Close()
	root := memdom.NewFragment()

	boom := errors.New("boom")
	a := directives.Async[string]{
		Key: "fetch-2",
		Run: func(ctx context.Context) (string, error) {
			return "", boom
		},
		Pending: func() template.Literal {
			return template.Literal{Mode: template.ModeHTML, Source: template.Source{Strings: []string{`<i>loading</i>`}}}
		},
		Success: func(v string) template.Literal {
			return template.Literal{Mode: template.ModeHTML, Source: template.Source{Strings: []string{`<i>`, `</i>`}, Binds: []any{v}}}
		},
		Failure: func(err error) template.Literal {
			return template.Literal{Mode: template.ModeHTML, Source: template.Source{Strings: []string{`<i>error: `, `</i>`}, Binds: []any{err.Error()}}}
		},
	}
	mountChildHole(t, rt, be, root, a)

	waitFor(t, func() bool { return root.OuterHTML() == `<i>error: boom</i><!---->` })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition was not satisfied before the timeout")
}
