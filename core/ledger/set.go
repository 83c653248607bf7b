package ledger

import (
	"context"
	"sort"

	"screenshot-mirror/core/reconcile"
)

// Names loads l and returns its names sorted.
func Names(ctx context.Context, l reconcile.Ledger) ([]string, error) {
	set, err := l.Load(ctx)
	return sorted(set), err
}

// Forget removes names from l and saves it. It returns the names that were
// actually present. The next pass treats forgotten names that are still in
// the source as new, so they go through the mirror existence check again.
func Forget(ctx context.Context, l reconcile.Ledger, names []string) ([]string, error) {
	set, err := l.Load(ctx)
	if err != nil {
		// Saving over an unreadable ledger would discard it.
		return nil, err
	}

	removed := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := set[name]; ok {
			delete(set, name)
			removed = append(removed, name)
		}
	}
	if len(removed) == 0 {
		return removed, nil
	}

	if err := l.Save(ctx, set); err != nil {
		return nil, err
	}
	sort.Strings(removed)
	return removed, nil
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
