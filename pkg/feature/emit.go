package feature

import (
	"context"
	"sort"
	"sync"

	"github.com/jedrzejginter/toolkit/pkg/errors"
)

// File is one template emission. Contents are rendered elsewhere; a File
// only names what goes where.
type File struct {
	Path   string            `json:"path"`           // destination, relative to the project root
	Source string            `json:"source"`         // template name
	Dir    bool              `json:"dir,omitempty"`  // copy a whole template directory
	Vars   map[string]string `json:"vars,omitempty"` // template substitutions
	Owner  string            `json:"owner"`          // resolver that emitted it
}

// Emitter receives file emissions from resolvers. Implementations must be
// safe for concurrent use.
type Emitter interface {
	Emit(ctx context.Context, f File) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ctx context.Context, f File) error

func (fn EmitterFunc) Emit(ctx context.Context, f File) error { return fn(ctx, f) }

// Discard drops every emission.
var Discard Emitter = EmitterFunc(func(context.Context, File) error { return nil })

// Plan records emissions.
type Plan struct {
	mu    sync.Mutex
	files []File
}

// Emit records f.
func (p *Plan) Emit(_ context.Context, f File) error {
	p.mu.Lock()
	p.files = append(p.files, f)
	p.mu.Unlock()
	return nil
}

// Files returns recorded emissions sorted by path.
func (p *Plan) Files() []File {
	p.mu.Lock()
	out := append([]File(nil), p.files...)
	p.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// emit sends files in order, stopping at the first failure.
func emit(ctx context.Context, em Emitter, owner string, files ...File) error {
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		f.Owner = owner
		if err := em.Emit(ctx, f); err != nil {
			return errors.Wrap(errors.ErrCodeResolverFailure, err, "%s: emit %s", owner, f.Path)
		}
	}
	return nil
}
