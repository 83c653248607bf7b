package reconcile_test

import (
	"testing"

	"screenshot-mirror/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func set(names ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func items(names ...string) []reconcile.Item {
	out := make([]reconcile.Item, 0, len(names))
	for _, n := range names {
		out = append(out, reconcile.Item{ID: "id-" + n, Name: n})
	}
	return out
}

func addedNames(p *reconcile.Plan) []string {
	names := make([]string, 0, len(p.Added))
	for _, it := range p.Added {
		names = append(names, it.Name)
	}
	return names
}

// TestComputePlan_Scenario checks the basic known={a,b}, source={b,c} diff.
func TestComputePlan_Scenario(t *testing.T) {
	plan, err := reconcile.ComputePlan(set("a", "b"), items("b", "c"), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, plan.Removed)
	assert.Equal(t, []string{"c"}, addedNames(plan))
	assert.Equal(t, []string{"b"}, plan.Unchanged)
	assert.Equal(t, 2, plan.KnownCount)
	assert.Equal(t, 2, plan.SourceCount)
	assert.False(t, plan.Empty())
}

// TestComputePlan_Disjoint checks that removed and added never overlap and
// together with unchanged cover the union of both sets.
func TestComputePlan_Disjoint(t *testing.T) {
	tests := []struct {
		name   string
		known  map[string]struct{}
		source []reconcile.Item
	}{
		{"both empty", set(), nil},
		{"only known", set("a", "b"), nil},
		{"only source", set(), items("a", "b")},
		{"identical", set("a", "b"), items("a", "b")},
		{"overlap", set("a", "b", "c"), items("b", "c", "d", "e")},
		{"disjoint", set("x", "y"), items("p", "q")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := reconcile.ComputePlan(tt.known, tt.source, nil)
			require.NoError(t, err)

			removed := set(plan.Removed...)
			added := set(addedNames(plan)...)
			for name := range removed {
				assert.NotContains(t, added, name)
			}

			union := set()
			for n := range tt.known {
				union[n] = struct{}{}
			}
			for _, it := range tt.source {
				union[it.Name] = struct{}{}
			}
			covered := set(plan.Unchanged...)
			for n := range removed {
				covered[n] = struct{}{}
			}
			for n := range added {
				covered[n] = struct{}{}
			}
			assert.Equal(t, union, covered)
			assert.Equal(t, len(union), len(plan.Removed)+len(plan.Added)+len(plan.Unchanged))
		})
	}
}

func TestComputePlan_Duplicates(t *testing.T) {
	source := []reconcile.Item{
		{ID: "1", Name: "dup.png"},
		{ID: "2", Name: "dup.png"},
		{ID: "3", Name: "other.png"},
	}

	plan, err := reconcile.ComputePlan(set(), source, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"dup.png"}, plan.Duplicates)
	assert.Equal(t, 2, plan.SourceCount)
	require.Len(t, plan.Added, 2)
	assert.Equal(t, "1", plan.Added[0].ID, "first listed item wins")
}

func TestComputePlan_Filter(t *testing.T) {
	filter := reconcile.ExtensionFilter([]string{"png", ".JPG"})

	plan, err := reconcile.ComputePlan(set("old.txt", "keep.png"), items("keep.png", "new.jpg", "notes.txt", "raw.psd"), filter)
	require.NoError(t, err)

	assert.Equal(t, []string{"new.jpg"}, addedNames(plan))
	assert.Equal(t, []string{"old.txt"}, plan.Removed, "unlisted ledger names are removed whatever their extension")
	assert.Equal(t, []string{"notes.txt", "raw.psd"}, plan.Ignored)
	assert.Equal(t, []string{"keep.png"}, plan.Unchanged)
	assert.Empty(t, plan.Retained)
}

func TestComputePlan_FilterRetainsListedNames(t *testing.T) {
	filter := reconcile.ExtensionFilter([]string{"png"})

	tests := []struct {
		name         string
		known        map[string]struct{}
		source       []reconcile.Item
		wantRemoved  []string
		wantRetained []string
	}{
		{"listed and filtered", set("notes.txt", "a.png"), items("notes.txt", "a.png"), []string{}, []string{"notes.txt"}},
		{"not listed", set("notes.txt", "a.png"), items("a.png"), []string{"notes.txt"}, []string{}},
		{"filtered and new", set("a.png"), items("a.png", "notes.txt"), []string{}, []string{}},
		{"listed twice", set("notes.txt"), items("notes.txt", "notes.txt"), []string{}, []string{"notes.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := reconcile.ComputePlan(tt.known, tt.source, filter)
			require.NoError(t, err)

			assert.Equal(t, tt.wantRemoved, plan.Removed)
			assert.Equal(t, tt.wantRetained, plan.Retained)
			assert.Empty(t, plan.Added)
			for _, name := range plan.Removed {
				for _, it := range tt.source {
					assert.NotEqual(t, it.Name, name, "a listed name must never be removed")
				}
			}
		})
	}
}

func TestExtensionFilter(t *testing.T) {
	assert.Nil(t, reconcile.ExtensionFilter(nil))
	assert.Nil(t, reconcile.ExtensionFilter([]string{" ", ""}))

	f := reconcile.ExtensionFilter([]string{"png"})
	assert.True(t, f("map.png"))
	assert.True(t, f("MAP.PNG"))
	assert.False(t, f("map.png.bak"))
	assert.False(t, f("png"))
}

func TestComputePlan_EmptyPlan(t *testing.T) {
	plan, err := reconcile.ComputePlan(set("a"), items("a"), nil)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}
