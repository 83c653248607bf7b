package ledger

import (
	"context"
	"testing"

	"screenshot-mirror/core/reconcile"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_LoadMissing(t *testing.T) {
	l := NewFile(afero.NewMemMapFs(), "/data/synced_files.json")

	names, err := l.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, names)
	assert.NotNil(t, names)
}

func TestFile_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"not json", "{{{"},
		{"object instead of array", `{"a": 1}`},
		{"truncated", `["a.png", "b.pn`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/ledger.json", []byte(tt.contents), 0o644))

			names, err := NewFile(fs, "/ledger.json").Load(context.Background())

			assert.Empty(t, names)
			assert.NotNil(t, names)
			assert.True(t, reconcile.IsKind(err, reconcile.KindLedgerRead))
		})
	}
}

func TestFile_SaveAndLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	l := NewFile(fs, "/public/synced_files.json")
	ctx := context.Background()

	require.NoError(t, l.Save(ctx, map[string]struct{}{"b.png": {}, "a.png": {}}))

	raw, err := afero.ReadFile(fs, "/public/synced_files.json")
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"a.png\",\n  \"b.png\"\n]", string(raw))

	names, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"a.png": {}, "b.png": {}}, names)

	require.NoError(t, l.Save(ctx, map[string]struct{}{}))
	names, err = l.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	entries, err := afero.ReadDir(fs, "/public")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestFile_SaveReadOnly(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "/ledger.json", []byte(`["a"]`), 0o644))
	l := NewFile(afero.NewReadOnlyFs(base), "/ledger.json")

	err := l.Save(context.Background(), map[string]struct{}{"b": {}})

	assert.True(t, reconcile.IsKind(err, reconcile.KindLedgerWrite))
	raw, readErr := afero.ReadFile(base, "/ledger.json")
	require.NoError(t, readErr)
	assert.Equal(t, `["a"]`, string(raw), "previous ledger untouched")
}

func TestForget(t *testing.T) {
	fs := afero.NewMemMapFs()
	l := NewFile(fs, "/ledger.json")
	ctx := context.Background()
	require.NoError(t, l.Save(ctx, map[string]struct{}{"a": {}, "b": {}, "c": {}}))

	removed, err := Forget(ctx, l, []string{"c", "missing", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, removed)

	names, err := Names(ctx, l)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names)
}

func TestForget_RefusesUnreadableLedger(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/ledger.json", []byte("garbage"), 0o644))
	l := NewFile(fs, "/ledger.json")

	_, err := Forget(context.Background(), l, []string{"a"})

	assert.True(t, reconcile.IsKind(err, reconcile.KindLedgerRead))
	raw, _ := afero.ReadFile(fs, "/ledger.json")
	assert.Equal(t, "garbage", string(raw))
}
