package constraint

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/jedrzejginter/toolkit/pkg/errors"
)

type overrideFile struct {
	Constraints map[string]string `toml:"constraints"`
}

// Parse decodes a TOML override document. An empty range clears the
// constraint for that package.
func Parse(data []byte) (Table, error) {
	var f overrideFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse constraint overrides")
	}

	t := make(Table, len(f.Constraints))
	for name, expr := range f.Constraints {
		if err := errors.ValidateNpmPackageName(name); err != nil {
			return nil, err
		}
		if expr == "" {
			t[name] = nil
			continue
		}
		fn, err := Range(expr)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "constraint for %s", name)
		}
		t[name] = fn
	}
	return t, nil
}

// LoadFile reads and parses a TOML override file.
func LoadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read constraint overrides")
	}
	return Parse(data)
}
