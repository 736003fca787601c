package manifest

import (
	"maps"
	"slices"
	"sort"

	"github.com/jedrzejginter/toolkit/pkg/errors"
)

// Set is an unordered set of package names.
type Set map[string]struct{}

// NewSet creates a set holding names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members in lexicographic order.
func (s Set) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Patch is the declarative output of one feature resolver.
type Patch struct {
	Scripts map[string]string
	Deps    Set
	DevDeps Set
}

// NewPatch builds a patch from literal lists.
func NewPatch(scripts map[string]string, deps, devDeps []string) Patch {
	return Patch{
		Scripts: maps.Clone(scripts),
		Deps:    NewSet(deps...),
		DevDeps: NewSet(devDeps...),
	}
}

// Merge layers patches over base and returns a new patch. Scripts from later
// patches replace earlier ones with the same key; dependency sets are unioned.
// None of the inputs are modified.
func Merge(base Patch, patches ...Patch) Patch {
	out := Patch{
		Scripts: make(map[string]string, len(base.Scripts)),
		Deps:    make(Set, len(base.Deps)),
		DevDeps: make(Set, len(base.DevDeps)),
	}
	for _, p := range append([]Patch{base}, patches...) {
		maps.Copy(out.Scripts, p.Scripts)
		maps.Copy(out.Deps, p.Deps)
		maps.Copy(out.DevDeps, p.DevDeps)
	}
	return out
}

// Names returns every dependency name in p, runtime and development,
// deduplicated and sorted. A package listed in both sets appears once.
func (p Patch) Names() []string {
	all := make(Set, len(p.Deps)+len(p.DevDeps))
	maps.Copy(all, p.Deps)
	maps.Copy(all, p.DevDeps)
	return all.Sorted()
}

// Resolved is the final, versioned patch. Maps serialise with sorted keys.
type Resolved struct {
	Scripts         map[string]string `json:"scripts" yaml:"scripts"`
	Dependencies    map[string]string `json:"dependencies" yaml:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies" yaml:"devDependencies"`
}

// Resolve pairs every dependency of p with its version. A name missing from
// versions is an internal error: resolution must be total.
func (p Patch) Resolve(versions map[string]string) (Resolved, error) {
	r := Resolved{
		Scripts:         maps.Clone(p.Scripts),
		Dependencies:    make(map[string]string, len(p.Deps)),
		DevDependencies: make(map[string]string, len(p.DevDeps)),
	}
	if r.Scripts == nil {
		r.Scripts = map[string]string{}
	}
	fill := func(dst map[string]string, names Set) error {
		for name := range names {
			v, ok := versions[name]
			if !ok || v == "" {
				return errors.New(errors.ErrCodeInternal, "no version resolved for %s", name)
			}
			dst[name] = v
		}
		return nil
	}
	if err := fill(r.Dependencies, p.Deps); err != nil {
		return Resolved{}, err
	}
	if err := fill(r.DevDependencies, p.DevDeps); err != nil {
		return Resolved{}, err
	}
	return r, nil
}

// Entry is one row of a resolved patch.
type Entry struct {
	Kind    string // "dependency" or "devDependency"
	Name    string
	Version string
}

// Entries flattens r into rows ordered by kind, then name.
func (r Resolved) Entries() []Entry {
	out := make([]Entry, 0, len(r.Dependencies)+len(r.DevDependencies))
	for _, name := range sortedKeys(r.Dependencies) {
		out = append(out, Entry{Kind: "dependency", Name: name, Version: r.Dependencies[name]})
	}
	for _, name := range sortedKeys(r.DevDependencies) {
		out = append(out, Entry{Kind: "devDependency", Name: name, Version: r.DevDependencies[name]})
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
