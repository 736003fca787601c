package feature

import (
	"context"
	stderrors "errors"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/jedrzejginter/toolkit/pkg/errors"
	"github.com/jedrzejginter/toolkit/pkg/manifest"
	"github.com/jedrzejginter/toolkit/pkg/packager"
)

func mustConfig(t *testing.T, opts Options) Config {
	t.Helper()
	cfg, err := NewConfig(opts)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	return cfg
}

func TestResolve_EveryFeature(t *testing.T) {
	cfg := mustConfig(t, Options{Features: All()})
	for _, f := range All() {
		t.Run(f.String(), func(t *testing.T) {
			if _, err := Resolve(context.Background(), f, cfg, Discard); err != nil {
				t.Errorf("Resolve(%v): %v", f, err)
			}
		})
	}
}

func TestResolve_Undeclared(t *testing.T) {
	cfg := mustConfig(t, Options{})
	_, err := Resolve(context.Background(), Feature(0), cfg, Discard)
	if !errors.Is(err, errors.ErrCodeInvalidFeature) {
		t.Errorf("Resolve(0) error = %v, want INVALID_FEATURE", err)
	}
}

func TestResolve_Patches(t *testing.T) {
	tests := []struct {
		feature     Feature
		features    []Feature
		wantScripts []string
		wantDeps    []string
		wantDevDeps []string
	}{
		{React, nil, nil, []string{"react", "react-dom"},
			[]string{"eslint-plugin-jsx-a11y", "eslint-plugin-react", "eslint-plugin-react-hooks"}},
		{React, []Feature{TypeScript}, nil, []string{"react", "react-dom"},
			[]string{"@types/react", "@types/react-dom", "eslint-plugin-jsx-a11y", "eslint-plugin-react", "eslint-plugin-react-hooks"}},
		{NextJS, nil, []string{"build", "dev", "start"}, []string{"envalid", "next"},
			[]string{"babel-plugin-inline-react-svg", "babel-plugin-module-resolver"}},
		{Tailwind, nil, []string{"build:tailwind"}, []string{"autoprefixer", "postcss", "tailwindcss"}, nil},
		{Docker, nil, nil, nil, nil},
		{Jest, nil, []string{"test"}, nil, []string{"eslint-plugin-jest", "jest"}},
		{TypeScript, nil, []string{"typecheck"}, nil,
			[]string{"@types/node", "@typescript-eslint/eslint-plugin", "@typescript-eslint/parser", "typescript"}},
		{GitHubCI, nil, nil, nil, nil},
		{VSCode, nil, nil, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.feature.String(), func(t *testing.T) {
			cfg := mustConfig(t, Options{Features: append([]Feature{tt.feature}, tt.features...)})
			p, err := Resolve(context.Background(), tt.feature, cfg, Discard)
			if err != nil {
				t.Fatal(err)
			}
			p = manifest.Merge(p)
			if got := manifest.NewSet(keys(p.Scripts)...).Sorted(); !equalish(got, tt.wantScripts) {
				t.Errorf("scripts = %v, want %v", got, tt.wantScripts)
			}
			if got := p.Deps.Sorted(); !equalish(got, tt.wantDeps) {
				t.Errorf("deps = %v, want %v", got, tt.wantDeps)
			}
			if got := p.DevDeps.Sorted(); !equalish(got, tt.wantDevDeps) {
				t.Errorf("devDeps = %v, want %v", got, tt.wantDevDeps)
			}
		})
	}
}

func TestBase(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		airbnb   string
		eslint   string
		lint     string
		nvmrcVar string
	}{
		{"plain", Options{}, "eslint-config-airbnb-base",
			"eslint --ext '.js' --ignore-pattern '!.*.js'", "yarn run eslint .", "12"},
		{"react", Options{Features: []Feature{React}, Packager: packager.Npm}, "eslint-config-airbnb",
			"eslint --ext '.js,.jsx' --ignore-pattern '!.*.js'", "npm run eslint .", "12"},
		{"typescript", Options{Features: []Feature{TypeScript}, NodeVersion: "14.15.4"}, "eslint-config-airbnb-typescript",
			"eslint --ext '.js,.ts' --ignore-pattern '!.*.js'", "yarn run eslint .", "14"},
		{"react typescript", Options{Features: []Feature{TypeScript, NextJS}}, "eslint-config-airbnb-typescript",
			"eslint --ext '.js,.jsx,.ts,.tsx' --ignore-pattern '!.*.js'", "yarn run eslint .", "12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var plan Plan
			p, err := Base(context.Background(), mustConfig(t, tt.opts), &plan)
			if err != nil {
				t.Fatal(err)
			}
			if !p.DevDeps.Has(tt.airbnb) || len(p.DevDeps) != 10 {
				t.Errorf("devDeps = %v, want %s among 10", p.DevDeps.Sorted(), tt.airbnb)
			}
			if !p.Deps.Has(OwnPackage) || len(p.Deps) != 1 {
				t.Errorf("deps = %v, want only %s", p.Deps.Sorted(), OwnPackage)
			}
			if p.Scripts["eslint"] != tt.eslint {
				t.Errorf("eslint script = %q, want %q", p.Scripts["eslint"], tt.eslint)
			}
			if p.Scripts["lint"] != tt.lint {
				t.Errorf("lint script = %q, want %q", p.Scripts["lint"], tt.lint)
			}
			var nvmrc, gitignore *File
			for _, f := range plan.Files() {
				switch f.Path {
				case ".nvmrc":
					nvmrc = &f
				case ".gitignore":
					gitignore = &f
				}
			}
			if nvmrc == nil || nvmrc.Vars["NODE_VERSION_MAJOR"] != tt.nvmrcVar || nvmrc.Owner != BaseName {
				t.Errorf(".nvmrc emission = %+v", nvmrc)
			}
			if gitignore == nil || gitignore.Source != GitignoreSource || gitignore.Owner != BaseName {
				t.Errorf(".gitignore emission = %+v", gitignore)
			}
		})
	}
}

func TestTailwind_PostCSSConfig(t *testing.T) {
	for _, drop := range []bool{false, true} {
		var plan Plan
		cfg := mustConfig(t, Options{Features: []Feature{Tailwind}, DropIE11: drop})
		if _, err := Resolve(context.Background(), Tailwind, cfg, &plan); err != nil {
			t.Fatal(err)
		}
		has := false
		for _, f := range plan.Files() {
			if f.Path == "postcss.config.js" {
				has = true
			}
		}
		if has != drop {
			t.Errorf("DropIE11=%v: postcss.config.js emitted = %v", drop, has)
		}
	}
}

func TestGitHubCI_Vars(t *testing.T) {
	var plan Plan
	cfg := mustConfig(t, Options{NodeVersion: "14.15.4", CIBranch: "develop"})
	if _, err := Resolve(context.Background(), GitHubCI, cfg, &plan); err != nil {
		t.Fatal(err)
	}
	files := plan.Files()
	want := map[string]string{"NODE_VERSION": "14.15.4", "CI_BRANCH": "develop"}
	if len(files) != 1 || !reflect.DeepEqual(files[0].Vars, want) {
		t.Errorf("files = %+v", files)
	}
}

func TestResolve_EmitFailure(t *testing.T) {
	boom := stderrors.New("disk full")
	em := EmitterFunc(func(context.Context, File) error { return boom })
	cfg := mustConfig(t, Options{})

	_, err := Resolve(context.Background(), Docker, cfg, em)
	if !errors.Is(err, errors.ErrCodeResolverFailure) {
		t.Fatalf("error = %v, want RESOLVER_FAILURE", err)
	}
	if !stderrors.Is(err, boom) {
		t.Errorf("error = %v, want it to wrap the emit failure", err)
	}
}

func TestCollect(t *testing.T) {
	cfg := mustConfig(t, Options{Features: []Feature{Jest, Tailwind}})
	var plan Plan
	patches, err := Collect(context.Background(), cfg, &plan)
	if err != nil {
		t.Fatal(err)
	}
	if len(patches) != 3 {
		t.Fatalf("len(patches) = %d, want 3", len(patches))
	}
	if !patches[0].Deps.Has(OwnPackage) {
		t.Error("first patch should come from the base resolver")
	}
	if patches[1].Scripts["test"] == "" {
		t.Error("second patch should come from jest")
	}
	if !patches[2].Deps.Has("tailwindcss") {
		t.Error("third patch should come from tailwind")
	}
	files := plan.Files()
	for i := 1; i < len(files); i++ {
		if files[i-1].Path > files[i].Path {
			t.Fatalf("plan files not sorted: %q before %q", files[i-1].Path, files[i].Path)
		}
	}
}

func TestCollect_FailureAbortsAll(t *testing.T) {
	var calls atomic.Int32
	em := EmitterFunc(func(_ context.Context, f File) error {
		calls.Add(1)
		if f.Owner == Docker.String() {
			return stderrors.New("permission denied")
		}
		return nil
	})
	cfg := mustConfig(t, Options{Features: []Feature{Docker, Jest}})
	patches, err := Collect(context.Background(), cfg, em)
	if !errors.Is(err, errors.ErrCodeResolverFailure) {
		t.Fatalf("error = %v, want RESOLVER_FAILURE", err)
	}
	if patches != nil {
		t.Errorf("patches = %v, want nil on failure", patches)
	}
	if calls.Load() == 0 {
		t.Error("emitter was never called")
	}
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// equalish compares string slices treating nil and empty as equal.
func equalish(a, b []string) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
