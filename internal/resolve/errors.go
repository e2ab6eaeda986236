package resolve

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Candidate describes one identity a name could resolve to.
type Candidate struct {
	Identity uuid.UUID
	Hint     string // human-readable descriptor (repo URL), best effort
}

// Ambiguity records a name that resolves to more than one identity with no
// manifest tiebreaker.
type Ambiguity struct {
	Name       string
	Candidates []Candidate
}

// AmbiguousError is returned when requested names resolve to multiple
// identities. Every ambiguity in the request is collected before failing so
// the caller can present them together; this core never picks silently.
type AmbiguousError struct {
	Ambiguities []Ambiguity
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d ambiguous package name(s):", len(e.Ambiguities))
	for _, amb := range e.Ambiguities {
		fmt.Fprintf(&b, "\n  %s:", amb.Name)
		for _, c := range amb.Candidates {
			if c.Hint != "" {
				fmt.Fprintf(&b, "\n    %s (%s)", c.Identity, c.Hint)
			} else {
				fmt.Fprintf(&b, "\n    %s", c.Identity)
			}
		}
	}
	return b.String()
}

// NotFoundError reports a package name absent from every configured registry.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("package %q not found in any registry", e.Name)
}

// InconsistentError reports an installed identity that is no longer present
// in any configured registry. The package must be removed explicitly before
// it can be added again.
type InconsistentError struct {
	Name     string
	Identity uuid.UUID
}

func (e *InconsistentError) Error() string {
	return fmt.Sprintf("installed package %s [%s] is not registered in any configured registry", e.Name, e.Identity)
}
