package docpath

import (
	"strconv"

	"git.home.luguber.info/inful/contentmigrate/internal/document"
	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
)

// Get returns the value at p. Every segment must exist.
func Get(root any, p Path) (any, error) {
	return walk(root, p, p)
}

// Lookup resolves p like Set would. found is false when only the final object
// key is absent (Set would create it); any other unresolvable segment is a
// missing_key error.
func Lookup(root any, p Path) (value any, found bool, err error) {
	if len(p) == 0 {
		return root, true, nil
	}
	parent, err := walk(root, p[:len(p)-1], p)
	if err != nil {
		return nil, false, err
	}
	last := p[len(p)-1]
	if obj, ok := parent.(*document.Object); ok && !last.IsIndex {
		v, found := obj.Get(last.Key)
		return v, found, nil
	}
	v, reason := step(parent, last)
	if reason != "" {
		return nil, false, missingKey(p, len(p)-1, reason)
	}
	return v, true, nil
}

// Set replaces the value at p.
//
// All segments but the last must exist. A final key is created when absent;
// a final index must already be in range.
func Set(root *document.Object, p Path, value any) error {
	if len(p) == 0 {
		return errors.ValidationError("cannot replace the document root").Build()
	}
	parent, err := walk(root, p[:len(p)-1], p)
	if err != nil {
		return err
	}

	last := p[len(p)-1]
	if !last.IsIndex {
		obj, ok := parent.(*document.Object)
		if !ok {
			return missingKey(p, len(p)-1, "expected object, found "+document.KindOf(parent))
		}
		obj.Set(last.Key, value)
		return nil
	}

	arr, ok := parent.([]any)
	if !ok {
		return missingKey(p, len(p)-1, "expected array, found "+document.KindOf(parent))
	}
	if last.Index >= len(arr) {
		return missingKey(p, len(p)-1, "index out of range (length "+strconv.Itoa(len(arr))+")")
	}
	arr[last.Index] = value
	return nil
}

func walk(cur any, segs, full Path) (any, error) {
	for i, seg := range segs {
		next, reason := step(cur, seg)
		if reason != "" {
			return nil, missingKey(full, i, reason)
		}
		cur = next
	}
	return cur, nil
}

// step moves one segment down; a non-empty reason means it could not.
func step(cur any, seg Segment) (any, string) {
	if seg.IsIndex {
		arr, ok := cur.([]any)
		if !ok {
			return nil, "expected array, found " + document.KindOf(cur)
		}
		if seg.Index >= len(arr) {
			return nil, "index out of range (length " + strconv.Itoa(len(arr)) + ")"
		}
		return arr[seg.Index], ""
	}

	obj, ok := cur.(*document.Object)
	if !ok {
		return nil, "expected object, found " + document.KindOf(cur)
	}
	v, found := obj.Get(seg.Key)
	if !found {
		return nil, "key not found"
	}
	return v, ""
}

func missingKey(full Path, failedAt int, reason string) error {
	return errors.MissingKeyError("path not found in document").
		WithContext("path", full.String()).
		WithContext("segment", full[:failedAt+1].String()).
		WithContext("reason", reason).
		Build()
}
