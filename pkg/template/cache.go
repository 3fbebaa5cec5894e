package template

import (
	"strconv"
	"strings"
	"sync"
)

// cache memoizes Compile by the content of a Source's Strings (joined with
// a separator no literal chunk can contain on its own, since `\x00` can't
// occur in a Go string built from source text without the author
// deliberately embedding it). Content-keying is less precise than identity
// keying on the Strings slice's backing array (what a JS engine does for a
// tagged template's per-call-site strings array), but needs no unsafe
// pointer arithmetic and is still a cache hit for every render of a loop
// body that reuses the same literal template.
var cacheMu sync.RWMutex
var compiled = map[string]*Plan{}

func cacheKey(mode Mode, strs []string) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(mode)))
	for _, s := range strs {
		b.WriteByte(0)
		b.WriteString(s)
	}
	return b.String()
}

// Get returns the cached Plan for (mode, src.Strings), compiling and
// caching it on first use.
func Get(mode Mode, src Source) (*Plan, error) {
	key := cacheKey(mode, src.Strings)

	cacheMu.RLock()
	p, ok := compiled[key]
	cacheMu.RUnlock()
	if ok {
		return p, nil
	}

	p, err := Compile(mode, src)
	if err != nil {
		return nil, err
	}

	cacheMu.Lock()
	compiled[key] = p
	cacheMu.Unlock()
	return p, nil
}
