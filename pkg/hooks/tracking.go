package hooks

import (
	"runtime"
	"sync"
)

// trackingContexts maps a goroutine id to the *Frame currently rendering on
// it. This mirrors the teacher's (vango) per-goroutine TrackingContext
// pattern: hook calls are free functions (useState, useEffect, ...) that
// need an implicit "current render", and Go has no goroutine-local storage,
// so the lookup key is the goroutine id read off the runtime stack trace.
var trackingContexts sync.Map // goroutine id -> *Frame

// getGoroutineID extracts the calling goroutine's id from its stack trace
// header ("goroutine <id> ..."). This is the same implementation technique
// the teacher uses; it is an implementation detail, never exposed.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := 10; i < n; i++ { // skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// current returns the Frame rendering on the calling goroutine, or nil.
func current() *Frame {
	if f, ok := trackingContexts.Load(getGoroutineID()); ok {
		return f.(*Frame)
	}
	return nil
}

// enter installs f as the current Frame for the calling goroutine and
// returns a function that restores whatever was current before.
func enter(f *Frame) (restore func()) {
	gid := getGoroutineID()
	prev, hadPrev := trackingContexts.Load(gid)
	trackingContexts.Store(gid, f)
	return func() {
		if hadPrev {
			trackingContexts.Store(gid, prev)
		} else {
			trackingContexts.Delete(gid)
		}
	}
}
