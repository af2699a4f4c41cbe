package overwrite

import (
	"git.home.luguber.info/inful/contentmigrate/internal/docpath"
	"git.home.luguber.info/inful/contentmigrate/internal/document"
)

// Action describes what an overwrite does to its target.
type Action string

const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionUnchanged Action = "unchanged"
	ActionMissing   Action = "missing"
)

// Outcome is the effect of one overwrite on a document.
type Outcome struct {
	Path   docpath.Path
	Action Action
	Err    error
}

// Apply performs the overwrites of set on doc in declared order and reports
// what each one did. Each value is deep-cloned, so a set can be applied any
// number of times without sharing structure with the document.
//
// The first failing overwrite stops the run and its error is returned; the
// overwrites before it have already been applied to doc.
func Apply(doc *document.Object, set *Set) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(set.Overwrites))
	for _, ow := range set.Overwrites {
		action, err := classify(doc, ow)
		if err == nil {
			err = docpath.Set(doc, ow.Path, document.Clone(ow.Value))
		}
		if err != nil {
			outcomes = append(outcomes, Outcome{Path: ow.Path, Action: ActionMissing, Err: err})
			return outcomes, err
		}
		outcomes = append(outcomes, Outcome{Path: ow.Path, Action: action})
	}
	return outcomes, nil
}

// Plan reports what Apply would do without touching doc. Unlike Apply it
// keeps going past a missing path so every problem is listed.
//
// Overwrites are evaluated against doc as loaded, not against the result of
// earlier overwrites in the set.
func Plan(doc *document.Object, set *Set) []Outcome {
	outcomes := make([]Outcome, 0, len(set.Overwrites))
	for _, ow := range set.Overwrites {
		action, err := classify(doc, ow)
		if err != nil {
			outcomes = append(outcomes, Outcome{Path: ow.Path, Action: ActionMissing, Err: err})
			continue
		}
		outcomes = append(outcomes, Outcome{Path: ow.Path, Action: action})
	}
	return outcomes
}

func classify(doc *document.Object, ow Overwrite) (Action, error) {
	current, found, err := docpath.Lookup(doc, ow.Path)
	switch {
	case err != nil:
		return ActionMissing, err
	case !found:
		return ActionCreate, nil
	case document.Equal(current, ow.Value):
		return ActionUnchanged, nil
	default:
		return ActionUpdate, nil
	}
}

// Count tallies outcomes by action.
func Count(outcomes []Outcome) map[Action]int {
	counts := make(map[Action]int, 4)
	for _, o := range outcomes {
		counts[o.Action]++
	}
	return counts
}
