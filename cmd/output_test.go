package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"screenshot-mirror/core/config"
	"screenshot-mirror/core/ledger"
	"screenshot-mirror/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport() *reconcile.Report {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &reconcile.Report{
		PassID:     "pass-1",
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		Deleted:    []string{"a.png"},
		Added:      []string{"c.png"},
		Skipped:    []string{},
		Failures: []reconcile.Failure{
			{Name: "d.png", Op: reconcile.OpPut, Kind: reconcile.KindMirrorUnavailable, Reason: "boom"},
		},
		LedgerSaved: true,
		Summary:     reconcile.Summary{Deleted: 1, Added: 1, Unchanged: 1, Failed: 1, Ledger: 2},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in       string
		expected string
		wantErr  bool
	}{
		{"", formatText, false},
		{"text", formatText, false},
		{"JSON", formatJSON, false},
		{" yaml ", formatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestWriteReport_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, formatText, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "pass-1")
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "a.png")
	assert.Contains(t, out, "c.png")
	assert.Contains(t, out, "2 names")
	assert.Contains(t, out, "! d.png [put/MIRROR_UNAVAILABLE] boom")
}

func TestWriteReport_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, formatJSON, sampleReport()))

	var decoded reconcile.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "pass-1", decoded.PassID)
	assert.Equal(t, []string{"c.png"}, decoded.Added)
	assert.Len(t, decoded.Failures, 1)
}

func TestWriteReport_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, formatYAML, sampleReport()))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "pass-1", decoded["pass_id"])
	assert.Equal(t, true, decoded["ledger_saved"])
}

func TestWritePlan_Text(t *testing.T) {
	plan, err := reconcile.ComputePlan(
		map[string]struct{}{"a.png": {}, "b.png": {}},
		[]reconcile.Item{{ID: "1", Name: "b.png"}, {ID: "2", Name: "c.png"}},
		nil,
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writePlan(&buf, formatText, plan))

	out := buf.String()
	assert.Contains(t, out, "To delete")
	assert.Contains(t, out, "a.png")
	assert.Contains(t, out, "c.png")
	assert.NotContains(t, out, "Duplicates")
}

func TestWriteNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeNames(&buf, formatText, []string{"a.png", "b.png"}))
	assert.Equal(t, "a.png\nb.png\n", buf.String())

	buf.Reset()
	require.NoError(t, writeNames(&buf, formatJSON, []string{"a.png"}))
	assert.JSONEq(t, `["a.png"]`, buf.String())
}

func TestSyncExit(t *testing.T) {
	clean := &reconcile.Report{}
	failed := &reconcile.Report{Failures: []reconcile.Failure{{Name: "x"}}}

	assert.NoError(t, syncExit(clean, nil, true))
	assert.NoError(t, syncExit(failed, nil, false))
	assert.ErrorIs(t, syncExit(failed, nil, true), errItemsFailed)

	err := syncExit(clean, errors.Join(reconcile.ErrStateUnknown), false)
	assert.ErrorIs(t, err, reconcile.ErrStateUnknown)
	assert.Contains(t, err.Error(), "next pass will repair it")

	assert.ErrorIs(t, syncExit(clean, context.Canceled, false), context.Canceled)
	assert.ErrorIs(t, syncExit(nil, reconcile.ErrPassActive, false), reconcile.ErrPassActive)
}

func TestConfirmDestructiveAction(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		yes      bool
		expected bool
	}{
		{"auto confirmed", "", true, true},
		{"typed yes", "yes\n", false, true},
		{"typed yes without newline", "yes", false, true},
		{"typed y", "y\n", false, false},
		{"empty input", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Equal(t, tt.expected, confirmDestructiveAction(strings.NewReader(tt.input), &out, tt.yes))
		})
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := &config.Config{Sync: config.SyncConfig{
		Concurrency:    8,
		MaxRetries:     2,
		RetryInitialMs: 100,
		RetryMaxMs:     1000,
		Extensions:     "png,jpg",
	}}

	opts := engineOptions(cfg)
	assert.Equal(t, 8, opts.Concurrency)
	assert.Equal(t, 2, opts.Retry.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, opts.Retry.InitialInterval)
	assert.Equal(t, time.Second, opts.Retry.MaxInterval)
	require.NotNil(t, opts.Filter)
	assert.True(t, opts.Filter("map.png"))
	assert.False(t, opts.Filter("notes.txt"))
}

func TestOpenLedger_File(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Ledger: config.LedgerConfig{
		Driver: config.LedgerFile,
		Path:   filepath.Join(dir, "public", "synced_files.json"),
	}}

	led, lockPath, err := openLedger(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "public", "synced_files.json.lock"), lockPath)

	require.NoError(t, led.Save(context.Background(), map[string]struct{}{"a.png": {}}))
	names, err := ledger.Names(context.Background(), led)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, names)
}

func TestOpenLedger_ExplicitLockPath(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Ledger: config.LedgerConfig{
		Driver:   config.LedgerFile,
		Path:     filepath.Join(dir, "synced_files.json"),
		LockPath: filepath.Join(dir, "pass.lock"),
	}}

	_, lockPath, err := openLedger(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pass.lock"), lockPath)
}
