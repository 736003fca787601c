package manifest

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/jedrzejginter/toolkit/pkg/errors"
)

func TestMerge(t *testing.T) {
	base := NewPatch(map[string]string{"lint": "yarn run eslint ."}, []string{"@ginterdev/toolkit"}, []string{"eslint", "husky"})
	react := NewPatch(nil, []string{"react", "react-dom"}, []string{"eslint-plugin-react"})
	override := NewPatch(map[string]string{"lint": "npm run eslint ."}, nil, []string{"eslint"})

	got := Merge(base, react, override)

	if got.Scripts["lint"] != "npm run eslint ." {
		t.Errorf("lint = %q, want last writer to win", got.Scripts["lint"])
	}
	if want := []string{"@ginterdev/toolkit", "react", "react-dom"}; !reflect.DeepEqual(got.Deps.Sorted(), want) {
		t.Errorf("Deps = %v, want %v", got.Deps.Sorted(), want)
	}
	if want := []string{"eslint", "eslint-plugin-react", "husky"}; !reflect.DeepEqual(got.DevDeps.Sorted(), want) {
		t.Errorf("DevDeps = %v, want %v", got.DevDeps.Sorted(), want)
	}
	if base.Scripts["lint"] != "yarn run eslint ." || len(base.Deps) != 1 {
		t.Error("Merge modified its base")
	}
}

func TestMerge_Idempotent(t *testing.T) {
	base := NewPatch(map[string]string{"lint": "eslint ."}, []string{"a"}, []string{"b"})
	p := NewPatch(map[string]string{"test": "jest", "lint": "eslint src"}, []string{"c"}, []string{"b", "d"})

	once := Merge(base, p)
	twice := Merge(base, p, p)
	nested := Merge(Merge(base, p), p)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Merge(base, p, p) = %+v, want %+v", twice, once)
	}
	if !reflect.DeepEqual(once, nested) {
		t.Errorf("Merge(Merge(base, p), p) = %+v, want %+v", nested, once)
	}
}

func TestMerge_Empty(t *testing.T) {
	got := Merge(Patch{})
	if got.Scripts == nil || got.Deps == nil || got.DevDeps == nil {
		t.Error("Merge should return initialised maps")
	}
	if len(got.Names()) != 0 {
		t.Errorf("Names() = %v, want empty", got.Names())
	}
}

func TestNames_Deduplicates(t *testing.T) {
	p := NewPatch(nil, []string{"react", "postcss"}, []string{"postcss", "jest", "@types/node"})
	want := []string{"@types/node", "jest", "postcss", "react"}
	if got := p.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestResolve(t *testing.T) {
	p := NewPatch(map[string]string{"test": "jest"}, []string{"react"}, []string{"jest", "react"})
	versions := map[string]string{"react": "17.0.1", "jest": "26.6.3", "unused": "1.0.0"}

	got, err := p.Resolve(versions)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := Resolved{
		Scripts:         map[string]string{"test": "jest"},
		Dependencies:    map[string]string{"react": "17.0.1"},
		DevDependencies: map[string]string{"jest": "26.6.3", "react": "17.0.1"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %+v, want %+v", got, want)
	}

	delete(versions, "jest")
	if _, err := p.Resolve(versions); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Resolve with missing version error = %v, want INTERNAL_ERROR", err)
	}
}

func TestResolved_JSONKeyOrder(t *testing.T) {
	r := Resolved{
		Scripts:         map[string]string{"typecheck": "tsc --noEmit", "eslint": "eslint"},
		Dependencies:    map[string]string{"react": "17.0.1", "next": "10.0.5", "envalid": "7.0.0"},
		DevDependencies: map[string]string{},
	}
	a, _ := json.Marshal(r)
	b, _ := json.Marshal(r)
	want := `{"scripts":{"eslint":"eslint","typecheck":"tsc --noEmit"},"dependencies":{"envalid":"7.0.0","next":"10.0.5","react":"17.0.1"},"devDependencies":{}}`
	if string(a) != want || string(a) != string(b) {
		t.Errorf("json = %s, want %s", a, want)
	}
}

func TestResolved_Entries(t *testing.T) {
	r := Resolved{
		Dependencies:    map[string]string{"react": "17.0.1", "next": "10.0.5"},
		DevDependencies: map[string]string{"jest": "26.6.3"},
	}
	want := []Entry{
		{"dependency", "next", "10.0.5"},
		{"dependency", "react", "17.0.1"},
		{"devDependency", "jest", "26.6.3"},
	}
	if got := r.Entries(); !reflect.DeepEqual(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}
