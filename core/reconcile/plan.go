package reconcile

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
)

// Filter decides whether a source name takes part in the pass.
// Rejected names are never uploaded. A rejected name already in the ledger
// is retained, not deleted, because the source still lists it.
type Filter func(name string) bool

// ExtensionFilter accepts names whose extension matches one of exts,
// case-insensitively. An empty list accepts everything.
func ExtensionFilter(exts []string) Filter {
	if len(exts) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}
	if len(allowed) == 0 {
		return nil
	}
	return func(name string) bool {
		_, ok := allowed[strings.ToLower(path.Ext(name))]
		return ok
	}
}

// Plan is the diff between the ledger and a source listing.
// It is computed without I/O and never changes once built.
type Plan struct {
	// Removed are ledger names absent from the source, sorted.
	Removed []string `json:"removed" yaml:"removed"`

	// Added are source items absent from the ledger, sorted by name.
	Added []Item `json:"added" yaml:"added"`

	// Unchanged are names present in both, sorted.
	Unchanged []string `json:"unchanged" yaml:"unchanged"`

	// Ignored are source names rejected by the filter, sorted.
	Ignored []string `json:"ignored" yaml:"ignored"`

	// Retained are ignored names already in the ledger, sorted. The source
	// still lists them, so they are neither deleted nor dropped from the
	// ledger; the pass leaves them alone.
	Retained []string `json:"retained" yaml:"retained"`

	// Duplicates are source names listed more than once. Only the first
	// listed item with that name is kept.
	Duplicates []string `json:"duplicates" yaml:"duplicates"`

	// KnownCount is the size of the ledger set.
	KnownCount int `json:"known" yaml:"known"`

	// SourceCount is the number of distinct accepted source names.
	SourceCount int `json:"source" yaml:"source"`
}

// ComputePlan diffs known against the source listing.
// It returns a KindInvariant error if the removed and added sets overlap or
// do not account for every name, which would mean the diff itself is broken.
func ComputePlan(known map[string]struct{}, items []Item, filter Filter) (*Plan, error) {
	plan := &Plan{
		Removed:    []string{},
		Added:      []Item{},
		Unchanged:  []string{},
		Ignored:    []string{},
		Retained:   []string{},
		Duplicates: []string{},
		KnownCount: len(known),
	}

	sourceItems := make(map[string]Item, len(items))
	ignored := make(map[string]struct{})
	dupes := make(map[string]struct{})

	for _, item := range items {
		if filter != nil && !filter(item.Name) {
			ignored[item.Name] = struct{}{}
			continue
		}
		if _, seen := sourceItems[item.Name]; seen {
			dupes[item.Name] = struct{}{}
			continue
		}
		sourceItems[item.Name] = item
	}
	plan.SourceCount = len(sourceItems)

	for name := range known {
		_, listed := sourceItems[name]
		_, filtered := ignored[name]
		switch {
		case listed:
			plan.Unchanged = append(plan.Unchanged, name)
		case filtered:
			// Still listed by the source: never a deletion candidate.
			plan.Retained = append(plan.Retained, name)
		default:
			plan.Removed = append(plan.Removed, name)
		}
	}
	for name, item := range sourceItems {
		if _, ok := known[name]; !ok {
			plan.Added = append(plan.Added, item)
		}
	}
	for name := range ignored {
		plan.Ignored = append(plan.Ignored, name)
	}
	for name := range dupes {
		plan.Duplicates = append(plan.Duplicates, name)
	}

	sort.Strings(plan.Removed)
	sort.Strings(plan.Unchanged)
	sort.Strings(plan.Ignored)
	sort.Strings(plan.Retained)
	sort.Strings(plan.Duplicates)
	sort.Slice(plan.Added, func(i, j int) bool {
		return plan.Added[i].Name < plan.Added[j].Name
	})

	if err := plan.verify(known, sourceItems, ignored); err != nil {
		return nil, err
	}
	return plan, nil
}

// verify checks that Removed and Added are disjoint, that no name the source
// listed is removed, and that together with Unchanged and Retained they cover
// known ∪ source exactly once.
func (p *Plan) verify(known map[string]struct{}, source map[string]Item, ignored map[string]struct{}) error {
	seen := make(map[string]string, len(known)+len(source))
	mark := func(name, set string) error {
		if prev, dup := seen[name]; dup {
			return NewError(KindInvariant, "", name, fmt.Errorf("name appears in both %s and %s sets", prev, set))
		}
		seen[name] = set
		return nil
	}

	for _, name := range p.Removed {
		_, listed := source[name]
		_, filtered := ignored[name]
		if listed || filtered {
			return NewError(KindInvariant, "", name, errors.New("name is removed but still listed by the source"))
		}
		if err := mark(name, "removed"); err != nil {
			return err
		}
	}
	for _, item := range p.Added {
		if err := mark(item.Name, "added"); err != nil {
			return err
		}
	}
	for _, name := range p.Unchanged {
		if err := mark(name, "unchanged"); err != nil {
			return err
		}
	}
	for _, name := range p.Retained {
		if err := mark(name, "retained"); err != nil {
			return err
		}
	}

	union := len(known)
	for name := range source {
		if _, ok := known[name]; !ok {
			union++
		}
	}
	if len(seen) != union {
		return NewError(KindInvariant, "", "", fmt.Errorf("plan covers %d names, expected %d", len(seen), union))
	}
	return nil
}

// Empty reports whether the plan requires no mirror operations.
func (p *Plan) Empty() bool {
	return len(p.Removed) == 0 && len(p.Added) == 0
}
