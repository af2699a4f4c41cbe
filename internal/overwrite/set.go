// Package overwrite declares overwrite sets, ordered lists of literal values
// to write at fixed document paths, and applies them to content documents.
package overwrite

import (
	"embed"
	stderrors "errors"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"git.home.luguber.info/inful/contentmigrate/internal/docpath"
	"git.home.luguber.info/inful/contentmigrate/internal/document"
	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
)

//go:embed sets/*.json
var embedded embed.FS

// DefaultSet is the set applied when none is configured.
const DefaultSet = "part1"

// Overwrite replaces the value at Path with a literal Value.
type Overwrite struct {
	Path  docpath.Path
	Value any
}

// Set is a named, ordered list of overwrites plus the text used to report it.
type Set struct {
	Name       string
	Summary    string
	Next       string
	Overwrites []Overwrite
}

// Names lists the sets built into the binary.
func Names() []string {
	entries, err := embedded.ReadDir("sets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	slices.Sort(names)
	return names
}

// Builtin returns the embedded set called name.
func Builtin(name string) (*Set, error) {
	data, err := embedded.ReadFile(path.Join("sets", name+".json"))
	if err != nil {
		return nil, errors.NotFoundError("unknown overwrite set").
			UserAction().
			WithContext("set", name).
			WithContext("available", strings.Join(Names(), ",")).
			Build()
	}
	set, err := Decode(data)
	if err != nil {
		// Embedded sets are part of the build.
		return nil, errors.WrapError(err, errors.CategoryInternal, "embedded overwrite set is invalid").
			Fatal().
			WithContext("set", name).
			Build()
	}
	return set, nil
}

// Load resolves ref as a built-in set name first and as a file path otherwise.
func Load(ref string) (*Set, error) {
	if ref == "" {
		ref = DefaultSet
	}
	if slices.Contains(Names(), ref) {
		return Builtin(ref)
	}

	// #nosec G304 - set files are chosen by the operator
	data, err := os.ReadFile(ref)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.WrapError(err, errors.CategoryNotFound, "overwrite set not found").
				Fatal().
				UserAction().
				WithContext("set", ref).
				WithContext("available", strings.Join(Names(), ",")).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot read overwrite set").
			Fatal().
			WithContext("set", ref).
			Build()
	}
	set, err := Decode(data)
	if err != nil {
		if classified, ok := errors.AsClassified(err); ok {
			return nil, classified.WithContext("set", ref)
		}
		return nil, err
	}
	return set, nil
}

// Decode reads a set declared as JSON:
//
//	{"name": "...", "summary": "...", "next": "...",
//	 "overwrites": [{"path": "globals.email", "value": "..."}]}
//
// Values keep their declared key order.
func Decode(data []byte) (*Set, error) {
	root, err := document.Parse(data)
	if err != nil {
		return nil, err
	}

	set := &Set{}
	if set.Name, err = requiredString(root, "name"); err != nil {
		return nil, err
	}
	if set.Summary, err = requiredString(root, "summary"); err != nil {
		return nil, err
	}
	if v, ok := root.Get("next"); ok {
		next, isString := v.(string)
		if !isString {
			return nil, invalidSet("next must be a string", "next")
		}
		set.Next = next
	}

	raw, _ := root.Get("overwrites")
	items, ok := raw.([]any)
	if !ok || len(items) == 0 {
		return nil, invalidSet("overwrites must be a non-empty array", "overwrites")
	}
	for i, item := range items {
		ow, err := decodeOverwrite(item)
		if err != nil {
			if classified, ok := errors.AsClassified(err); ok {
				return nil, classified.WithContext("index", i)
			}
			return nil, err
		}
		set.Overwrites = append(set.Overwrites, ow)
	}
	return set, nil
}

func decodeOverwrite(item any) (Overwrite, error) {
	obj, ok := item.(*document.Object)
	if !ok {
		return Overwrite{}, invalidSet("overwrite must be an object", "overwrites")
	}
	raw, err := requiredString(obj, "path")
	if err != nil {
		return Overwrite{}, err
	}
	p, err := docpath.Parse(raw)
	if err != nil {
		return Overwrite{}, err
	}
	value, ok := obj.Get("value")
	if !ok {
		return Overwrite{}, invalidSet("overwrite has no value", "value")
	}
	return Overwrite{Path: p, Value: value}, nil
}

func requiredString(obj *document.Object, key string) (string, error) {
	v, _ := obj.Get(key)
	s, ok := v.(string)
	if !ok || s == "" {
		return "", invalidSet(key+" must be a non-empty string", key)
	}
	return s, nil
}

func invalidSet(msg, field string) error {
	return errors.ValidationError("invalid overwrite set: "+msg).
		WithContext("field", field).
		Build()
}
