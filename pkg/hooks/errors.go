package hooks

import "fmt"

// MisuseError is raised when a Frame's hook calls violate the stable-order
// rule: the k-th hook called during a render must be the same kind of hook
// every render (spec §4.5, end-to-end scenario 4).
type MisuseError struct {
	Index    int
	Expected string
	Got      string
}

func (e *MisuseError) Error() string {
	if e.Expected == "(end of hooks)" {
		return fmt.Sprintf("hooks misuse: %s at hook index %d", e.Got, e.Index)
	}
	return fmt.Sprintf("hooks misuse: Unexpected hook type at index %d: expected %s, got %s", e.Index, e.Expected, e.Got)
}
