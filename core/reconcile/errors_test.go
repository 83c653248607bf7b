package reconcile_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"screenshot-mirror/core/reconcile"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	base := errors.New("boom")
	classified := reconcile.NewError(reconcile.KindMirrorConflict, reconcile.OpPut, "a.png", base)

	tests := []struct {
		name string
		err  error
		want reconcile.Kind
	}{
		{"nil", nil, ""},
		{"plain", base, reconcile.KindUnknown},
		{"classified", classified, reconcile.KindMirrorConflict},
		{"wrapped", fmt.Errorf("outer: %w", classified), reconcile.KindMirrorConflict},
		{"canceled", context.Canceled, reconcile.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reconcile.KindOf(tt.err))
		})
	}
}

func TestIsTransient(t *testing.T) {
	assert.True(t, reconcile.IsTransient(reconcile.NewError(reconcile.KindSourceUnavailable, reconcile.OpList, "", nil)))
	assert.True(t, reconcile.IsTransient(reconcile.NewError(reconcile.KindMirrorUnavailable, reconcile.OpPut, "a", nil)))
	assert.False(t, reconcile.IsTransient(reconcile.NewError(reconcile.KindMirrorConflict, reconcile.OpPut, "a", nil)))
	assert.False(t, reconcile.IsTransient(reconcile.NewError(reconcile.KindSourceItemMissing, reconcile.OpFetch, "a", nil)))
	assert.False(t, reconcile.IsTransient(errors.New("plain")))
	assert.False(t, reconcile.IsTransient(nil))
}

func TestError_Message(t *testing.T) {
	err := reconcile.NewError(reconcile.KindMirrorItemMissing, reconcile.OpDelete, "a.png", errors.New("404 Not Found"))

	assert.Equal(t, `MIRROR_ITEM_MISSING delete "a.png": 404 Not Found`, err.Error())
	assert.ErrorIs(t, err, err.Err)
	assert.Equal(t, "LEDGER_WRITE", reconcile.NewError(reconcile.KindLedgerWrite, "", "", nil).Error())
}
