package binding

import (
	"fmt"

	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/part"
)

// Text binds a value into a slice of a text node, writing
// preceding ++ String(value) ++ following to the node's data (spec §3,
// §4.3).
type Text struct {
	base
}

// NewText constructs a Text binding for p.
func NewText(p *part.Part, value any) *Text {
	return &Text{base: base{p: p, value: value}}
}

func (t *Text) ShouldBind(newValue any) bool { return shouldBindDefault(t.value, newValue) }
func (t *Text) Bind(newValue any)            { t.value = newValue }

func (t *Text) Connect(ctx Context) {
	if t.connected.CompareAndSwap(false, true) {
		ctx.EnqueueMutation(backend.Effect{Commit: t.Commit, Label: "text"})
	}
}

func (t *Text) Disconnect(ctx Context) {
	if t.connected.CompareAndSwap(true, false) {
		ctx.EnqueueMutation(backend.Effect{Commit: t.Rollback, Label: "text:rollback"})
	}
}

func (t *Text) render() string {
	var v string
	if t.value != nil {
		v = fmt.Sprintf("%v", t.value)
	}
	return t.p.PrecedingText + v + t.p.FollowingText
}

func (t *Text) Commit() {
	t.p.Node.SetTextData(t.render())
	t.committed.Store(true)
}

func (t *Text) Rollback() {
	if !t.committed.Load() {
		return
	}
	t.p.Node.SetTextData(t.p.PrecedingText + t.p.FollowingText)
	t.committed.Store(false)
}

func (t *Text) Hydrate(tree HydrationTree) error {
	t.committed.Store(true)
	t.connected.Store(true)
	return nil
}
