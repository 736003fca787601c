package feature

import (
	"reflect"
	"strings"
	"testing"

	"github.com/jedrzejginter/toolkit/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Feature
	}{
		{"react", React},
		{"NextJS", NextJS},
		{" tailwind ", Tailwind},
		{"github-ci", GitHubCI},
		{"ts", TypeScript},
		{"next", NextJS},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParse_Unknown(t *testing.T) {
	tests := []struct {
		in      string
		wantMsg string
	}{
		{"typscript", `did you mean "typescript"?`},
		{"nxtjs", `did you mean "nextjs"?`},
		{"zzz", "available: react, nextjs"},
		{"", "available:"},
	}
	for _, tt := range tests {
		_, err := Parse(tt.in)
		if !errors.Is(err, errors.ErrCodeInvalidFeature) {
			t.Fatalf("Parse(%q) error = %v, want INVALID_FEATURE", tt.in, err)
		}
		if !strings.Contains(err.Error(), tt.wantMsg) {
			t.Errorf("Parse(%q) error = %q, want it to contain %q", tt.in, err, tt.wantMsg)
		}
	}
}

func TestParseList(t *testing.T) {
	got, err := ParseList([]string{"react,jest", "", "docker"})
	if err != nil {
		t.Fatal(err)
	}
	if want := []Feature{React, Jest, Docker}; !reflect.DeepEqual(got, want) {
		t.Errorf("ParseList = %v, want %v", got, want)
	}
	if _, err := ParseList([]string{"react,bogus"}); err == nil {
		t.Error("expected error for unknown feature")
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, f := range All() {
		if !f.Valid() {
			t.Errorf("%v should be valid", f)
		}
		if f.Description() == "" {
			t.Errorf("%v has no description", f)
		}
		got, err := Parse(f.String())
		if err != nil || got != f {
			t.Errorf("Parse(%q) = (%v, %v), want %v", f.String(), got, err, f)
		}
	}
	if Feature(0).Valid() || Feature(99).Valid() {
		t.Error("undeclared values must not be valid")
	}
	if got := Feature(99).String(); got != "Feature(99)" {
		t.Errorf("String() = %q", got)
	}
}

func TestTextMarshaling(t *testing.T) {
	b, err := GitHubCI.MarshalText()
	if err != nil || string(b) != "github-ci" {
		t.Errorf("MarshalText = (%q, %v)", b, err)
	}
	var f Feature
	if err := f.UnmarshalText([]byte("vscode")); err != nil || f != VSCode {
		t.Errorf("UnmarshalText = (%v, %v)", f, err)
	}
	if _, err := Feature(0).MarshalText(); err == nil {
		t.Error("MarshalText of zero value should fail")
	}
}
