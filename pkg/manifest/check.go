package manifest

import "regexp"

// dependencyFields are the package.json maps inspected by Unpinned.
var dependencyFields = []string{"dependencies", "devDependencies", "peerDependencies", "optionalDependencies"}

// exact matches versions installed with --exact: they start with a digit or
// letter ("4.3.8", "file:./x.tgz"), never with a range operator.
var exact = regexp.MustCompile(`(?i)^[\da-z]`)

// Unpinned is a dependency whose version is a range rather than an exact pin.
type Unpinned struct {
	Field   string
	Name    string
	Version string
}

// FindUnpinned lists every dependency of doc that is not pinned exactly,
// ordered by field and then name.
func FindUnpinned(doc *Document) ([]Unpinned, error) {
	var out []Unpinned
	for _, field := range dependencyFields {
		var deps map[string]string
		if _, err := doc.Get(field, &deps); err != nil {
			return nil, err
		}
		for _, name := range sortedKeys(deps) {
			if v := deps[name]; !exact.MatchString(v) {
				out = append(out, Unpinned{Field: field, Name: name, Version: v})
			}
		}
	}
	return out, nil
}
