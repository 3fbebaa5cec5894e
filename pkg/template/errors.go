package template

import "fmt"

// CompileError reports that a Source could not be turned into a Plan: the
// marker scheme didn't round-trip through the HTML parser the way the
// compiler expected, usually because a hole fell somewhere unsupported
// (spec §7).
type CompileError struct {
	Reason string
	Cause  error
}

func (e *CompileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template compile error: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("template compile error: %s", e.Reason)
}

func (e *CompileError) Unwrap() error { return e.Cause }
