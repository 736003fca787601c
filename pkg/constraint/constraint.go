// Package constraint holds the version constraint table consulted when a
// dependency must not resolve to its latest release.
//
// A constraint is a function over the versions a registry publishes for a
// package. It returns the best acceptable version, or false when none is
// acceptable. An unsatisfiable constraint is always an error: resolution
// never falls back to the latest version.
//
// # Defaults
//
//	husky        <5   always (v5 changed its license terms)
//	tailwindcss  <2   only while legacy browser support is on (v2 dropped IE11)
//
// # Overrides
//
// A TOML file can replace or add entries:
//
//	[constraints]
//	husky = "<6"
//	eslint = ">=7 <8"
//	tailwindcss = ""   # no constraint, resolve latest
package constraint

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/jedrzejginter/toolkit/pkg/errors"
)

// Func picks the best acceptable version from versions.
type Func func(versions []string) (string, bool)

// Table maps package names to constraints. A nil entry means "unconstrained"
// and masks any entry it is layered over.
type Table map[string]Func

// Below accepts versions strictly lower than major.0.0.
func Below(major uint64) Func {
	c, err := semver.NewConstraint(fmt.Sprintf("<%d.0.0", major))
	if err != nil {
		panic(err)
	}
	return maxSatisfying(c)
}

// Range accepts versions satisfying a semver range expression such as
// ">=7 <8" or "^4.3".
func Range(expr string) (Func, error) {
	c, err := semver.NewConstraint(expr)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid version range %q", expr)
	}
	return maxSatisfying(c), nil
}

// maxSatisfying returns the highest version accepted by c. Versions that do
// not parse are skipped; pre-releases only match ranges that name one.
func maxSatisfying(c *semver.Constraints) Func {
	return func(versions []string) (string, bool) {
		var (
			best    *semver.Version
			bestRaw string
		)
		for _, raw := range versions {
			v, err := semver.NewVersion(raw)
			if err != nil || !c.Check(v) {
				continue
			}
			if best == nil || v.GreaterThan(best) {
				best, bestRaw = v, raw
			}
		}
		return bestRaw, best != nil
	}
}

// Defaults returns the built-in table.
func Defaults(legacyBrowserSupport bool) Table {
	t := Table{"husky": Below(5)}
	if legacyBrowserSupport {
		t["tailwindcss"] = Below(2)
	}
	return t
}

// With returns a new table with other's entries layered over t.
func (t Table) With(other Table) Table {
	out := make(Table, len(t)+len(other))
	for name, fn := range t {
		out[name] = fn
	}
	for name, fn := range other {
		out[name] = fn
	}
	return out
}

// Lookup returns the constraint for name, if it has one.
func (t Table) Lookup(name string) (Func, bool) {
	fn := t[name]
	return fn, fn != nil
}

// Names lists constrained packages in sorted order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name, fn := range t {
		if fn != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Apply runs fn over versions. It fails with UNSATISFIABLE_CONSTRAINT when
// nothing matches.
func Apply(name string, fn Func, versions []string) (string, error) {
	v, ok := fn(versions)
	if !ok {
		return "", errors.New(errors.ErrCodeUnsatisfiable,
			"no published version of %s satisfies its constraint (%d candidates)", name, len(versions))
	}
	return v, nil
}
