// Package reconcile implements the keyed-list reconciler: given a previous
// ordered, keyed list of rendered instances and a next list of values, it
// computes the minimal sequence of create/update/move/remove operations
// that turns one into the other, per spec §4.6.
//
// The algorithm is a two-ended walk — each iteration tries, in order, a
// matching head pair, a matching tail pair, an old-head/new-tail pair (the
// head instance moved to the far end), and an old-tail/new-head pair (the
// tail instance moved to the front) — falling back to a key-indexed pass
// over whatever interior range none of the four cover. This is the classic
// two-ended diff (e.g. Vue 2's updateChildren), not the teacher's single
// left-to-right key-map diff (pkg/vdom/diff.go in the teacher repo): the
// two-ended walk recognizes "append", "prepend", and "one endpoint rotated
// to the other end" without ever consulting a map, which the teacher's
// diff does not.
package reconcile

// Handler supplies the operations Reconcile drives: T is the incoming value
// type (e.g. a row of application data), I is the opaque instance type a
// Create call returns and every other operation is given back.
type Handler[T any, I any] struct {
	// Key extracts the identity of a value. Two values across renders with
	// the same Key are the same logical item.
	Key func(value T) any

	// Create constructs a new instance for value. index is its position in
	// the next list (handlers that lazily insert DOM nodes may prefer
	// inserting relative to a sibling instead; see Move's anchor).
	Create func(value T, index int) I

	// Update refreshes an existing instance in place with value.
	Update func(inst I, value T)

	// Move relocates inst's owned range to just before anchor's range. If
	// hasAnchor is false, inst moves to the end of the list.
	Move func(inst I, anchor I, hasAnchor bool)

	// Remove disposes an instance no longer present in the next list.
	Remove func(inst I)
}

// entry pairs a previous instance with the key it was created from, since
// Handler has no way to recover a key from an instance after the fact.
type entry[I any] struct {
	key any
	inst I
}

// Reconcile updates prev (with previously-assigned keys prevKeys, in
// one-to-one correspondence) to match next, invoking h's callbacks, and
// returns the instance list in next's order.
func Reconcile[T any, I any](prev []I, prevKeys []any, next []T, h Handler[T, I]) []I {
	prevEntries := make([]entry[I], len(prev))
	for i, inst := range prev {
		prevEntries[i] = entry[I]{key: prevKeys[i], inst: inst}
	}

	result := make([]I, len(next))
	// moved[k] marks a result slot whose occupant needs an explicit Move:
	// either it crossed from one end of the list to the other, or it's
	// freshly created, or it came out of the step 5 key-map fallback. A
	// slot synced by a plain head/head or tail/tail match is never marked
	// — it's already in the right place relative to its neighbors.
	moved := make([]bool, len(next))

	i, prevEnd := 0, len(prevEntries)-1
	j, nextEnd := 0, len(next)-1

	// Steps 1-4 interleaved: each iteration tries all four endpoint
	// comparisons spec §4.6 step 5 lists before giving up on the simple
	// cases and falling through to the key-map interior scramble.
loop:
	for i <= prevEnd && j <= nextEnd {
		switch {
		case prevEntries[i].key == h.Key(next[j]):
			// old head == new head: already in place, just refresh.
			h.Update(prevEntries[i].inst, next[j])
			result[j] = prevEntries[i].inst
			i++
			j++

		case prevEntries[prevEnd].key == h.Key(next[nextEnd]):
			// old tail == new tail: already in place, just refresh.
			h.Update(prevEntries[prevEnd].inst, next[nextEnd])
			result[nextEnd] = prevEntries[prevEnd].inst
			prevEnd--
			nextEnd--

		case prevEntries[i].key == h.Key(next[nextEnd]):
			// old head == new tail: this instance rotated to the far end.
			result[nextEnd] = prevEntries[i].inst
			moved[nextEnd] = true
			i++
			nextEnd--

		case prevEntries[prevEnd].key == h.Key(next[j]):
			// old tail == new head: this instance rotated to the front.
			result[j] = prevEntries[prevEnd].inst
			moved[j] = true
			prevEnd--
			j++

		default:
			break loop
		}
	}

	switch {
	case i > prevEnd && j <= nextEnd:
		// Step 3: only insertions remain (a contiguous prepend/append/
		// mid-insert).
		for k := j; k <= nextEnd; k++ {
			result[k] = h.Create(next[k], k)
			moved[k] = true
		}

	case j > nextEnd:
		// Step 4: only removals remain.
		for ; i <= prevEnd; i++ {
			h.Remove(prevEntries[i].inst)
		}

	default:
		// Step 5: interior scramble — key-index the remaining previous
		// range, then walk the remaining next range deciding move vs.
		// create, and finally remove whatever previous entries were never
		// claimed.
		keyIndex := make(map[any][]int, prevEnd-i+1)
		for k := i; k <= prevEnd; k++ {
			key := prevEntries[k].key
			// Step 6 tie-break: duplicate keys match in encounter order,
			// first-seen-first-claimed; a map of stacks realizes that.
			keyIndex[key] = append(keyIndex[key], k)
		}

		used := make(map[int]bool, prevEnd-i+1)
		for k := j; k <= nextEnd; k++ {
			key := h.Key(next[k])
			if stack := keyIndex[key]; len(stack) > 0 {
				prevIdx := stack[0]
				keyIndex[key] = stack[1:]
				used[prevIdx] = true
				inst := prevEntries[prevIdx].inst
				h.Update(inst, next[k])
				result[k] = inst
			} else {
				result[k] = h.Create(next[k], k)
			}
			moved[k] = true
		}

		for k := i; k <= prevEnd; k++ {
			if !used[k] {
				h.Remove(prevEntries[k].inst)
			}
		}
	}

	flushMoves(result, moved, h)
	return result
}

// flushMoves walks result back-to-front, anchoring every flagged instance
// on whatever already sits at the following slot (or on nothing, if it's
// now the last entry), so each relocated or freshly placed instance lands
// exactly where result says it belongs. Unflagged slots are left untouched:
// their occupant never needs to move relative to its neighbor.
func flushMoves[T any, I any](result []I, moved []bool, h Handler[T, I]) {
	for k := len(result) - 1; k >= 0; k-- {
		if !moved[k] {
			continue
		}
		if k+1 < len(result) {
			h.Move(result[k], result[k+1], true)
		} else {
			var zero I
			h.Move(result[k], zero, false)
		}
	}
}
