package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Spec is a version predicate attached to a requested package name.
// It is either an exact version or a constraint range; an exact spec
// matches only that version.
type Spec struct {
	exact *semver.Version
	rng   *semver.Constraints
	raw   string
}

// ParseSpec parses a version spec string. A string that parses as a plain
// semantic version ("1.2.0") becomes an exact spec; anything else is parsed
// as a constraint expression (">=1.0.0, <2.0.0", "^1.2", "1.x || 2.x").
func ParseSpec(s string) (*Spec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty version spec")
	}

	if v, err := semver.StrictNewVersion(strings.TrimPrefix(s, "v")); err == nil {
		return &Spec{exact: v, raw: s}, nil
	}

	rng, err := semver.NewConstraint(s)
	if err != nil {
		return nil, fmt.Errorf("parsing version spec %q: %w", s, err)
	}
	return &Spec{rng: rng, raw: s}, nil
}

// Parse parses a version string with "v" prefix tolerance.
func Parse(s string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(s, "v"))
}

// Matches reports whether v satisfies the spec. A nil spec admits all
// versions (an unconstrained request).
func (s *Spec) Matches(v *semver.Version) bool {
	if s == nil {
		return true
	}
	if s.exact != nil {
		return s.exact.Equal(v)
	}
	return s.rng.Check(v)
}

// MatchesString parses raw and reports whether it satisfies the spec.
// Unparseable versions never match.
func (s *Spec) MatchesString(raw string) bool {
	v, err := Parse(raw)
	if err != nil {
		return false
	}
	return s.Matches(v)
}

// Exact returns the pinned version and true when the spec is an exact pin.
func (s *Spec) Exact() (*semver.Version, bool) {
	if s == nil || s.exact == nil {
		return nil, false
	}
	return s.exact, true
}

// String returns the spec as written by the caller.
func (s *Spec) String() string {
	if s == nil {
		return "*"
	}
	return s.raw
}
