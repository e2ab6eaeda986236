package registry

import "fmt"

// MalformedError reports registry metadata that fails its expected grammar.
// It indicates a corrupt registry rather than a bad user request, so callers
// should report it distinctly from request-level resolution errors.
type MalformedError struct {
	Path    string // file containing the bad content
	Content string // offending raw content (a listing line, a table key, ...)
	Reason  string
}

func (e *MalformedError) Error() string {
	if e.Content == "" {
		return fmt.Sprintf("malformed registry metadata in %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("malformed registry metadata in %s: %s: %q", e.Path, e.Reason, e.Content)
}
