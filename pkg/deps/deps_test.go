package deps

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jedrzejginter/toolkit/pkg/constraint"
	"github.com/jedrzejginter/toolkit/pkg/errors"
)

// fakeRegistry serves canned answers and counts queries per package.
type fakeRegistry struct {
	versions map[string][]string
	latest   map[string]string
	fail     map[string]error
	delay    time.Duration

	mu       sync.Mutex
	calls    map[string]int
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeRegistry) record(ctx context.Context, name string) error {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
	f.mu.Unlock()

	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.fail[name]
}

func (f *fakeRegistry) QueryVersions(ctx context.Context, name string) ([]string, error) {
	if err := f.record(ctx, name); err != nil {
		return nil, err
	}
	return f.versions[name], nil
}

func (f *fakeRegistry) QueryLatest(ctx context.Context, name string) (string, error) {
	if err := f.record(ctx, name); err != nil {
		return "", err
	}
	v, ok := f.latest[name]
	if !ok {
		return "", fmt.Errorf("package not found: %s", name)
	}
	return v, nil
}

func (f *fakeRegistry) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func TestVersions(t *testing.T) {
	reg := &fakeRegistry{versions: map[string][]string{
		"husky": {"5.0.0-alpha.1", "4.0.0", "4.3.8", "5.0.0", "4.3.8-canary"},
	}}
	ctx := context.Background()

	all, err := Versions(ctx, reg, "husky", false)
	if err != nil {
		t.Fatal(err)
	}
	if want := reg.versions["husky"]; !reflect.DeepEqual(all, want) {
		t.Errorf("Versions(all) = %v, want %v", all, want)
	}

	releases, err := Versions(ctx, reg, "husky", true)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"4.0.0", "4.3.8", "5.0.0"}; !reflect.DeepEqual(releases, want) {
		t.Errorf("Versions(releases) = %v, want %v", releases, want)
	}
}

func TestVersions_RegistryError(t *testing.T) {
	boom := stderrors.New("connection refused")
	reg := &fakeRegistry{fail: map[string]error{"husky": boom}}

	_, err := Versions(context.Background(), reg, "husky", true)
	if !errors.Is(err, errors.ErrCodeRegistry) || !stderrors.Is(err, boom) {
		t.Fatalf("error = %v, want REGISTRY_ERROR wrapping cause", err)
	}
	if got := errors.UserMessage(err); got != "registry error: query versions of husky: connection refused" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestResolve(t *testing.T) {
	reg := &fakeRegistry{
		versions: map[string][]string{"husky": {"4.0.0", "4.9.0", "5.0.0", "5.1.0"}},
		latest:   map[string]string{"react": "17.0.1", "jest": "26.6.3", "husky": "5.1.0"},
	}
	got, err := NewResolver(reg).Resolve(context.Background(),
		[]string{"react", "husky", "jest", "react", "@ginterdev/toolkit"},
		Options{
			Constraints: constraint.Defaults(false),
			Pins:        map[string]string{"@ginterdev/toolkit": "1.2.0"},
		})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"react":              "17.0.1",
		"husky":              "4.9.0",
		"jest":               "26.6.3",
		"@ginterdev/toolkit": "1.2.0",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
	if n := reg.callCount("react"); n != 1 {
		t.Errorf("react queried %d times, want 1", n)
	}
	if n := reg.callCount("@ginterdev/toolkit"); n != 0 {
		t.Errorf("pinned package queried %d times, want 0", n)
	}
}

func TestResolve_Unsatisfiable(t *testing.T) {
	reg := &fakeRegistry{
		versions: map[string][]string{"husky": {"5.0.0", "5.1.0"}},
		latest:   map[string]string{"husky": "5.1.0", "react": "17.0.1"},
	}
	got, err := NewResolver(reg).Resolve(context.Background(), []string{"react", "husky"},
		Options{Constraints: constraint.Defaults(true)})
	if !errors.Is(err, errors.ErrCodeUnsatisfiable) {
		t.Fatalf("error = %v, want UNSATISFIABLE_CONSTRAINT", err)
	}
	if got != nil {
		t.Errorf("Resolve returned partial result %v", got)
	}
}

func TestResolve_RegistryFailure(t *testing.T) {
	reg := &fakeRegistry{
		latest: map[string]string{"react": "17.0.1"},
		fail:   map[string]error{"next": stderrors.New("503 service unavailable")},
	}
	_, err := NewResolver(reg).Resolve(context.Background(), []string{"react", "next"}, Options{})
	if !errors.Is(err, errors.ErrCodeRegistry) {
		t.Fatalf("error = %v, want REGISTRY_ERROR", err)
	}
	if reg.callCount("next") != 1 {
		t.Errorf("next queried %d times, want exactly 1 (no retries)", reg.callCount("next"))
	}
}

func TestResolve_QueryTimeout(t *testing.T) {
	reg := &fakeRegistry{latest: map[string]string{"react": "17.0.1"}, delay: time.Second}
	_, err := NewResolver(reg).Resolve(context.Background(), []string{"react"},
		Options{QueryTimeout: 10 * time.Millisecond})
	if !errors.Is(err, errors.ErrCodeRegistry) || !stderrors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want REGISTRY_ERROR wrapping deadline", err)
	}
}

func TestResolve_ConcurrencyLimit(t *testing.T) {
	reg := &fakeRegistry{latest: map[string]string{}, delay: 20 * time.Millisecond}
	var names []string
	for i := range 12 {
		name := fmt.Sprintf("pkg-%d", i)
		names = append(names, name)
		reg.latest[name] = "1.0.0"
	}
	got, err := NewResolver(reg).Resolve(context.Background(), names, Options{Concurrency: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(names) {
		t.Errorf("resolved %d names, want %d", len(got), len(names))
	}
	if p := reg.peak.Load(); p > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", p)
	}
}
