package packager

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseManager(t *testing.T) {
	tests := []struct {
		in      string
		want    Manager
		wantErr bool
	}{
		{"", Yarn, false},
		{"yarn", Yarn, false},
		{" NPM ", Npm, false},
		{"pnpm", "", true},
	}
	for _, tt := range tests {
		got, err := ParseManager(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseManager(%q) = (%q, %v), want (%q, wantErr %v)", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestManager_Commands(t *testing.T) {
	if got := Yarn.RunScript("eslint", "."); got != "yarn run eslint ." {
		t.Errorf("RunScript = %q", got)
	}
	if got := Npm.InstallArgs(); !reflect.DeepEqual(got, []string{"npm", "i"}) {
		t.Errorf("InstallArgs = %v", got)
	}
	if got := Yarn.InstallArgs(); !reflect.DeepEqual(got, []string{"yarn", "install"}) {
		t.Errorf("InstallArgs = %v", got)
	}
	if got := Npm.FormatArgs(); !reflect.DeepEqual(got, []string{"npm", "run", "lint", "--fix"}) {
		t.Errorf("FormatArgs = %v", got)
	}
}

func TestRunner(t *testing.T) {
	var calls [][]string
	var dirs []string
	r := &Runner{
		Manager: Yarn,
		Dir:     "/tmp/app",
		Run: func(_ context.Context, dir string, argv []string) error {
			dirs = append(dirs, dir)
			calls = append(calls, argv)
			return nil
		},
	}
	ctx := context.Background()
	if err := r.Install(ctx); err != nil {
		t.Fatal(err)
	}
	if err := r.Format(ctx); err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"yarn", "install"}, {"yarn", "run", "lint", "--fix"}}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
	if dirs[0] != "/tmp/app" || dirs[1] != "/tmp/app" {
		t.Errorf("dirs = %v", dirs)
	}
}

func TestRunner_Error(t *testing.T) {
	boom := errors.New("exit status 1")
	r := &Runner{Manager: Npm, Run: func(context.Context, string, []string) error { return boom }}
	err := r.Install(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped %v", err, boom)
	}
	if !strings.HasPrefix(err.Error(), "npm i: ") {
		t.Errorf("error = %q, want command prefix", err)
	}
}
