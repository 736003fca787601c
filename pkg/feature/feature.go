// Package feature turns the user's feature selection into manifest patches.
//
// Each selectable [Feature] has a resolver that returns a [manifest.Patch]
// (scripts plus dependency names) and emits the template files it owns
// through an [Emitter]. A base resolver, not selectable, always runs first;
// its patch is the accumulator every other patch is merged into.
//
// Resolvers read only the immutable [Config]. [Collect] runs them
// concurrently and waits for every one before returning, so no patch is
// merged while a resolver is still emitting files.
package feature

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/jedrzejginter/toolkit/pkg/errors"
)

// Feature is a user-selectable unit of scaffolding.
type Feature int

const (
	React Feature = iota + 1
	NextJS
	Tailwind
	Docker
	Jest
	TypeScript
	GitHubCI
	VSCode
)

// All returns every feature in catalogue order.
func All() []Feature {
	return []Feature{React, NextJS, Tailwind, Docker, Jest, TypeScript, GitHubCI, VSCode}
}

// String returns the CLI name of f ("react", "github-ci", ...).
func (f Feature) String() string {
	switch f {
	case React:
		return "react"
	case NextJS:
		return "nextjs"
	case Tailwind:
		return "tailwind"
	case Docker:
		return "docker"
	case Jest:
		return "jest"
	case TypeScript:
		return "typescript"
	case GitHubCI:
		return "github-ci"
	case VSCode:
		return "vscode"
	default:
		return fmt.Sprintf("Feature(%d)", int(f))
	}
}

// Description is the one-line summary shown in the feature catalogue.
func (f Feature) Description() string {
	switch f {
	case React:
		return "React with a11y/hooks lint rules and starter components"
	case NextJS:
		return "Next.js app (implies react)"
	case Tailwind:
		return "Tailwind CSS with PostCSS (v1 while IE11 is supported)"
	case Docker:
		return "Dockerfile and .dockerignore"
	case Jest:
		return "Jest test runner"
	case TypeScript:
		return "TypeScript compiler and typescript-eslint"
	case GitHubCI:
		return "GitHub Actions CI workflow"
	case VSCode:
		return "VS Code workspace settings"
	default:
		return ""
	}
}

// Valid reports whether f is one of the declared features.
func (f Feature) Valid() bool {
	return f >= React && f <= VSCode
}

// MarshalText implements encoding.TextMarshaler.
func (f Feature) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidFeature, "unknown feature %d", int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Feature) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

var aliases = map[string]Feature{
	"next":           NextJS,
	"next.js":        NextJS,
	"ts":             TypeScript,
	"githubci":       GitHubCI,
	"github-actions": GitHubCI,
	"tailwindcss":    Tailwind,
	"vs-code":        VSCode,
}

// Names returns the CLI names of all features.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, f := range all {
		names[i] = f.String()
	}
	return names
}

// Parse converts a feature name to a Feature. Unknown names fail with
// INVALID_FEATURE and, when one is close enough, a suggestion.
func Parse(name string) (Feature, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, f := range All() {
		if f.String() == key {
			return f, nil
		}
	}
	if f, ok := aliases[key]; ok {
		return f, nil
	}

	if s := suggest(key); s != "" {
		return 0, errors.New(errors.ErrCodeInvalidFeature, "unknown feature %q (did you mean %q?)", name, s)
	}
	return 0, errors.New(errors.ErrCodeInvalidFeature, "unknown feature %q (available: %s)", name, strings.Join(Names(), ", "))
}

// ParseList parses names, also splitting comma-separated entries.
func ParseList(names []string) ([]Feature, error) {
	var out []Feature
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			f, err := Parse(part)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
	}
	return out, nil
}

func suggest(key string) string {
	if key == "" {
		return ""
	}
	if matches := fuzzy.Find(key, Names()); len(matches) > 0 {
		return matches[0].Str
	}
	return ""
}
