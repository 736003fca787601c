package manifest

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jedrzejginter/toolkit/pkg/errors"
)

// Document is a package.json whose top-level key order survives a
// read-modify-write cycle. Values are kept as raw JSON until replaced.
type Document struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewDocument returns an empty document ("{}").
func NewDocument() *Document {
	return &Document{values: make(map[string]json.RawMessage)}
}

// Read parses a package.json. Empty input yields an empty document.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read package.json")
	}
	doc := NewDocument()
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse package.json")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "package.json must contain a JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse package.json")
		}
		key := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse package.json field %q", key)
		}
		doc.setRaw(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse package.json")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "package.json has content after the top-level object")
	}
	return doc, nil
}

// ReadFile reads path, returning an empty document when it does not exist.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Get decodes the value at key into v. It reports false when key is absent.
func (d *Document) Get(key string, v any) (bool, error) {
	raw, ok := d.values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, errors.Wrap(errors.ErrCodeInvalidManifest, err, "package.json field %q", key)
	}
	return true, nil
}

// String returns the value at key when it is a non-empty string.
func (d *Document) String(key string) string {
	var s string
	if ok, err := d.Get(key, &s); !ok || err != nil {
		return ""
	}
	return s
}

// Set replaces the value at key, keeping its position. New keys are appended.
func (d *Document) Set(key string, v any) error {
	raw, err := marshal(v)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode package.json field %q", key)
	}
	d.setRaw(key, raw)
	return nil
}

func (d *Document) setRaw(key string, raw json.RawMessage) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = raw
}

// Bytes renders the document with two-space indentation and a trailing newline.
func (d *Document) Bytes() ([]byte, error) {
	if len(d.keys) == 0 {
		return []byte("{}\n"), nil
	}
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, key := range d.keys {
		k, err := marshal(key)
		if err != nil {
			return nil, err
		}
		buf.WriteString("  ")
		buf.Write(k)
		buf.WriteString(": ")
		if err := json.Indent(&buf, d.values[key], "  ", "  "); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "package.json field %q", key)
		}
		if i < len(d.keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// WriteFile writes the document to path.
func (d *Document) WriteFile(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// marshal encodes v without HTML escaping, so "&&" in scripts stays readable.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ApplyOptions carries the values Apply fills in.
type ApplyOptions struct {
	Name      string // used when the document has no name
	NodeMajor uint64 // engines.node becomes "^<NodeMajor>"
}

// Apply overlays r on doc the way `npm init -y` followed by an install would:
// missing name/license/version are filled, engines.node is set, and
// scripts and dependency maps are merged with the new values winning.
// Runtime dependencies are only written when r has any.
func Apply(doc *Document, r Resolved, opts ApplyOptions) error {
	defaults := []struct{ key, value string }{
		{"name", sanitizeName(opts.Name)},
		{"license", "UNLICENSED"},
		{"version", "0.0.0"},
	}
	for _, kv := range defaults {
		if doc.String(kv.key) == "" && kv.value != "" {
			if err := doc.Set(kv.key, kv.value); err != nil {
				return err
			}
		}
	}

	if err := overlay(doc, "scripts", r.Scripts); err != nil {
		return err
	}

	engines := map[string]any{}
	if _, err := doc.Get("engines", &engines); err != nil {
		return err
	}
	if engines == nil {
		engines = map[string]any{}
	}
	engines["node"] = "^" + strconv.FormatUint(opts.NodeMajor, 10)
	if err := doc.Set("engines", engines); err != nil {
		return err
	}

	if len(r.Dependencies) > 0 {
		if err := overlay(doc, "dependencies", r.Dependencies); err != nil {
			return err
		}
	}
	return overlay(doc, "devDependencies", r.DevDependencies)
}

// overlay merges values into the object at key. Keys end up sorted.
func overlay(doc *Document, key string, values map[string]string) error {
	merged := map[string]any{}
	if _, err := doc.Get(key, &merged); err != nil {
		return err
	}
	if merged == nil {
		merged = map[string]any{}
	}
	for k, v := range values {
		merged[k] = v
	}
	return doc.Set(key, merged)
}

// sanitizeName turns a directory name into something npm accepts.
func sanitizeName(dir string) string {
	name := strings.ToLower(strings.TrimSpace(dir))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '-'
		}
	}, name)
	return strings.TrimLeft(name, "._")
}
