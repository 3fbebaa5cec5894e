package reconcile_test

import (
	"reflect"
	"testing"

	"github.com/filament-ui/filament/pkg/reconcile"
)

// row is a trivial instance type: an identity tag plus whatever value it was
// last updated/created with, so tests can assert both "which instance ended
// up where" and "was it updated with the latest value".
type row struct {
	id    string // stable per-instance identity, assigned at Create
	value string
}

type ops struct {
	creates []string
	updates []string
	moves   []string
	removes []string
}

func handler(o *ops) reconcile.Handler[string, *row] {
	return reconcile.Handler[string, *row]{
		Key: func(v string) any { return v },
		Create: func(v string, index int) *row {
			o.creates = append(o.creates, v)
			return &row{id: v, value: v}
		},
		Update: func(inst *row, v string) {
			o.updates = append(o.updates, inst.id)
			inst.value = v
		},
		Move: func(inst *row, anchor *row, hasAnchor bool) {
			o.moves = append(o.moves, inst.id)
		},
		Remove: func(inst *row) {
			o.removes = append(o.removes, inst.id)
		},
	}
}

func seed(keys []string) ([]*row, []any) {
	insts := make([]*row, len(keys))
	ids := make([]any, len(keys))
	for i, k := range keys {
		insts[i] = &row{id: k, value: k}
		ids[i] = k
	}
	return insts, ids
}

func keysOf(result []*row) []string {
	out := make([]string, len(result))
	for i, r := range result {
		out[i] = r.id
	}
	return out
}

func TestReconcileAppend(t *testing.T) {
	prev, keys := seed([]string{"A", "B", "C"})
	var o ops
	result := reconcile.Reconcile(prev, keys, []string{"A", "B", "C", "D"}, handler(&o))

	if got := keysOf(result); !reflect.DeepEqual(got, []string{"A", "B", "C", "D"}) {
		t.Fatalf("got order %v", got)
	}
	if !reflect.DeepEqual(o.creates, []string{"D"}) {
		t.Fatalf("expected only D created, got %v", o.creates)
	}
	if len(o.removes) != 0 {
		t.Fatalf("expected no removals, got %v", o.removes)
	}
}

func TestReconcilePrepend(t *testing.T) {
	prev, keys := seed([]string{"B", "C"})
	var o ops
	result := reconcile.Reconcile(prev, keys, []string{"A", "B", "C"}, handler(&o))

	if got := keysOf(result); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("got order %v", got)
	}
	if !reflect.DeepEqual(o.creates, []string{"A"}) {
		t.Fatalf("expected only A created, got %v", o.creates)
	}
}

func TestReconcileRemoveInterior(t *testing.T) {
	prev, keys := seed([]string{"A", "B", "C", "D"})
	var o ops
	result := reconcile.Reconcile(prev, keys, []string{"A", "D"}, handler(&o))

	if got := keysOf(result); !reflect.DeepEqual(got, []string{"A", "D"}) {
		t.Fatalf("got order %v", got)
	}
	if len(o.removes) != 2 {
		t.Fatalf("expected B and C removed, got %v", o.removes)
	}
}

// TestReconcileKeyedReorder is spec end-to-end scenario 3: old [A,B,C,D] to
// new [D,A,B,C] must produce no new instance and must not re-create D. Per
// spec §8 scenario 3, it must also emit exactly one Move (D, rotating to
// the front) and three Updates (A, B, C) — not the four-Move, four-Update
// result a pair of non-interacting head/tail sync passes falls back to.
func TestReconcileKeyedReorder(t *testing.T) {
	prev, keys := seed([]string{"A", "B", "C", "D"})
	var o ops
	result := reconcile.Reconcile(prev, keys, []string{"D", "A", "B", "C"}, handler(&o))

	if got := keysOf(result); !reflect.DeepEqual(got, []string{"D", "A", "B", "C"}) {
		t.Fatalf("got order %v", got)
	}
	if len(o.creates) != 0 {
		t.Fatalf("expected no instance re-created, got creates=%v", o.creates)
	}
	if len(o.removes) != 0 {
		t.Fatalf("expected no instance removed, got removes=%v", o.removes)
	}
	if !reflect.DeepEqual(o.moves, []string{"D"}) {
		t.Fatalf("expected exactly one Move (D), got moves=%v", o.moves)
	}
	if !reflect.DeepEqual(o.updates, []string{"A", "B", "C"}) {
		t.Fatalf("expected exactly three Updates (A, B, C), got updates=%v", o.updates)
	}
	// Every instance identity must be preserved (same *row pointer as before).
	byID := map[string]*row{}
	for _, r := range prev {
		byID[r.id] = r
	}
	for _, r := range result {
		if byID[r.id] != r {
			t.Fatalf("expected instance %s to be reused, got a different pointer", r.id)
		}
	}
}

// TestReconcileRotateToFront exercises the symmetric direction of the same
// cross-comparison: the new tail instance crossing to the front produces a
// single Move, not a full interior key-map scramble.
func TestReconcileRotateToFront(t *testing.T) {
	prev, keys := seed([]string{"A", "B", "C", "D", "E"})
	var o ops
	result := reconcile.Reconcile(prev, keys, []string{"E", "A", "B", "C", "D"}, handler(&o))

	if got := keysOf(result); !reflect.DeepEqual(got, []string{"E", "A", "B", "C", "D"}) {
		t.Fatalf("got order %v", got)
	}
	if len(o.creates) != 0 || len(o.removes) != 0 {
		t.Fatalf("expected a pure rotation, got creates=%v removes=%v", o.creates, o.removes)
	}
	if !reflect.DeepEqual(o.moves, []string{"E"}) {
		t.Fatalf("expected exactly one Move (E), got moves=%v", o.moves)
	}
	if !reflect.DeepEqual(o.updates, []string{"A", "B", "C", "D"}) {
		t.Fatalf("expected four Updates (A, B, C, D), got updates=%v", o.updates)
	}
}

func TestReconcileReverse(t *testing.T) {
	prev, keys := seed([]string{"A", "B", "C", "D"})
	var o ops
	result := reconcile.Reconcile(prev, keys, []string{"D", "C", "B", "A"}, handler(&o))

	if got := keysOf(result); !reflect.DeepEqual(got, []string{"D", "C", "B", "A"}) {
		t.Fatalf("got order %v", got)
	}
	if len(o.creates) != 0 || len(o.removes) != 0 {
		t.Fatalf("reverse should be a pure permutation, got creates=%v removes=%v", o.creates, o.removes)
	}
}

func TestReconcileSwapMiddle(t *testing.T) {
	prev, keys := seed([]string{"A", "B", "C", "D", "E"})
	var o ops
	result := reconcile.Reconcile(prev, keys, []string{"A", "D", "C", "B", "E"}, handler(&o))

	if got := keysOf(result); !reflect.DeepEqual(got, []string{"A", "D", "C", "B", "E"}) {
		t.Fatalf("got order %v", got)
	}
	if len(o.creates) != 0 || len(o.removes) != 0 {
		t.Fatalf("swap should be a pure permutation, got creates=%v removes=%v", o.creates, o.removes)
	}
}

func TestReconcileAllNew(t *testing.T) {
	var o ops
	result := reconcile.Reconcile[string, *row](nil, nil, []string{"A", "B"}, handler(&o))
	if got := keysOf(result); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("got order %v", got)
	}
	if !reflect.DeepEqual(o.creates, []string{"A", "B"}) {
		t.Fatalf("expected both created, got %v", o.creates)
	}
}

func TestReconcileAllRemoved(t *testing.T) {
	prev, keys := seed([]string{"A", "B"})
	var o ops
	result := reconcile.Reconcile(prev, keys, nil, handler(&o))
	if len(result) != 0 {
		t.Fatalf("expected empty result, got %v", keysOf(result))
	}
	if len(o.removes) != 2 {
		t.Fatalf("expected both removed, got %v", o.removes)
	}
}

// TestReconcileUpdatesValueOnKeyMatch confirms an instance whose key matches
// across renders is updated in place with the new value, not recreated.
func TestReconcileUpdatesValueOnKeyMatch(t *testing.T) {
	prev, keys := seed([]string{"A"})
	var o ops
	h := handler(&o)
	result := reconcile.Reconcile(prev, keys, []string{"A"}, h)
	if len(o.creates) != 0 {
		t.Fatalf("expected no re-create for an unchanged key, got %v", o.creates)
	}
	if result[0] != prev[0] {
		t.Fatalf("expected same instance reused")
	}
	if !reflect.DeepEqual(o.updates, []string{"A"}) {
		t.Fatalf("expected an update call, got %v", o.updates)
	}
}

// TestReconcileDuplicateKeysDegradeNotError exercises the documented
// tie-break: non-unique keys are well-defined (matched in encounter order),
// never an error.
func TestReconcileDuplicateKeysDegradeNotError(t *testing.T) {
	prev, keys := seed([]string{"A", "A"})
	var o ops
	result := reconcile.Reconcile(prev, keys, []string{"A", "A", "A"}, handler(&o))
	if len(result) != 3 {
		t.Fatalf("expected 3 result slots, got %d", len(result))
	}
	if len(o.creates) != 1 {
		t.Fatalf("expected exactly one new instance for the extra duplicate key, got %v", o.creates)
	}
}
