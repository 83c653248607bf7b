package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options tunes a pass.
type Options struct {
	// Concurrency is the number of items processed in parallel within a phase.
	// Values below 1 mean sequential processing.
	Concurrency int

	// Retry bounds retries of transient failures per operation.
	Retry RetryPolicy

	// Filter restricts which source names are mirrored. Nil accepts all.
	Filter Filter
}

// Engine runs reconciliation passes between a source and a mirror.
// A single Engine must not run two passes at once; callers serialize passes
// (see core/lock and the mirror feature).
type Engine struct {
	source Source
	mirror Mirror
	ledger Ledger
	logger *zap.Logger
	opts   Options
	now    func() time.Time
}

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(source Source, mirror Mirror, ledger Ledger, logger *zap.Logger, opts Options) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Engine{
		source: source,
		mirror: mirror,
		ledger: ledger,
		logger: logger,
		opts:   opts,
		now:    time.Now,
	}
}

// outcome is the result of one item, produced by a worker and merged into
// the working set by the pass after the phase completes.
type outcome struct {
	name    string
	op      Op
	err     error
	skipped bool
}

// Preview loads the ledger and the source listing and returns the plan a pass
// would execute, without touching the mirror or saving the ledger.
func (e *Engine) Preview(ctx context.Context) (*Plan, error) {
	known := e.loadLedger(ctx, e.logger)
	items, err := e.list(ctx)
	if err != nil {
		return nil, err
	}
	return ComputePlan(known, items, e.opts.Filter)
}

// Run executes one pass. The returned report is never nil.
//
// Pass-fatal errors (source listing, broken plan, ledger save) are returned as
// err; per-item failures are only recorded in the report. When the mirror
// was mutated but the ledger could not be saved, err wraps ErrStateUnknown.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		PassID:    uuid.NewString(),
		StartedAt: e.now(),
		Deleted:   []string{},
		Added:     []string{},
		Skipped:   []string{},
		Failures:  []Failure{},
	}
	log := e.logger.With(zap.String("pass_id", report.PassID))
	defer func() {
		report.FinishedAt = e.now()
	}()

	known := e.loadLedger(ctx, log)
	report.Summary.Known = len(known)

	// A failed listing must never drive deletions: abort before any mutation.
	items, err := e.list(ctx)
	if err != nil {
		log.Error("Source listing failed, aborting pass", zap.Error(err))
		report.Failures = append(report.Failures, failureOf("", OpList, err))
		report.Summary.Failed = len(report.Failures)
		return report, err
	}

	plan, err := ComputePlan(known, items, e.opts.Filter)
	if err != nil {
		log.Error("Plan verification failed, aborting pass", zap.Error(err))
		return report, err
	}
	report.Summary.Source = plan.SourceCount
	report.Summary.Unchanged = len(plan.Unchanged)
	report.Summary.Ignored = len(plan.Ignored)
	report.Summary.Retained = len(plan.Retained)
	for _, name := range plan.Duplicates {
		log.Warn("Duplicate name in source listing, keeping first", zap.String("name", name))
	}

	log.Info("Pass planned",
		zap.Int("known", plan.KnownCount),
		zap.Int("source", plan.SourceCount),
		zap.Int("to_delete", len(plan.Removed)),
		zap.Int("to_add", len(plan.Added)),
		zap.Int("unchanged", len(plan.Unchanged)),
	)

	working := make(map[string]struct{}, len(known)+len(plan.Added))
	for name := range known {
		working[name] = struct{}{}
	}

	// Deletions run to completion before any addition starts. Names are
	// unique within each phase, so no two workers ever target the same name.
	deletions := e.runPhase(ctx, plan.Removed, OpDelete, func(ctx context.Context, i int) outcome {
		return e.deleteOne(ctx, plan.Removed[i])
	})
	for _, o := range deletions {
		if o.err != nil {
			report.Failures = append(report.Failures, failureOf(o.name, o.op, o.err))
			log.Warn("Delete failed, keeping name in ledger", zap.String("name", o.name), zap.String("kind", string(KindOf(o.err))), zap.Error(o.err))
			continue
		}
		delete(working, o.name)
		report.Deleted = append(report.Deleted, o.name)
		log.Info("Deleted from mirror", zap.String("name", o.name))
	}

	if ctx.Err() == nil {
		names := make([]string, len(plan.Added))
		for i, item := range plan.Added {
			names[i] = item.Name
		}
		additions := e.runPhase(ctx, names, OpExists, func(ctx context.Context, i int) outcome {
			return e.addOne(ctx, plan.Added[i])
		})
		for _, o := range additions {
			switch {
			case o.err != nil:
				report.Failures = append(report.Failures, failureOf(o.name, o.op, o.err))
				log.Warn("Add failed, will retry next pass", zap.String("name", o.name), zap.String("op", string(o.op)), zap.String("kind", string(KindOf(o.err))), zap.Error(o.err))
			case o.skipped:
				working[o.name] = struct{}{}
				report.Skipped = append(report.Skipped, o.name)
				log.Info("Already on mirror, adopted into ledger", zap.String("name", o.name))
			default:
				working[o.name] = struct{}{}
				report.Added = append(report.Added, o.name)
				log.Info("Uploaded to mirror", zap.String("name", o.name))
			}
		}
	} else {
		for _, item := range plan.Added {
			report.Failures = append(report.Failures, failureOf(item.Name, OpExists, ctx.Err()))
		}
	}

	report.Summary.Deleted = len(report.Deleted)
	report.Summary.Added = len(report.Added)
	report.Summary.Skipped = len(report.Skipped)
	report.Summary.Failed = len(report.Failures)

	canceled := ctx.Err()
	saveCtx := ctx
	if canceled != nil {
		if !report.Mutated() {
			log.Warn("Pass canceled before any mirror change, ledger left untouched", zap.Error(canceled))
			return report, canceled
		}
		// The mirror already changed; keep the ledger as close to it as possible.
		saveCtx = context.WithoutCancel(ctx)
	}

	if err := e.ledger.Save(saveCtx, working); err != nil {
		if !IsKind(err, KindLedgerWrite) {
			err = NewError(KindLedgerWrite, OpSave, "", err)
		}
		if report.Mutated() {
			err = fmt.Errorf("%w: %w", ErrStateUnknown, err)
		}
		log.Error("Ledger save failed", zap.Error(err))
		return report, err
	}
	report.LedgerSaved = true
	report.Summary.Ledger = len(working)

	log.Info("Pass finished",
		zap.Int("deleted", report.Summary.Deleted),
		zap.Int("added", report.Summary.Added),
		zap.Int("skipped", report.Summary.Skipped),
		zap.Int("failed", report.Summary.Failed),
		zap.Int("ledger", report.Summary.Ledger),
	)

	if canceled != nil {
		return report, canceled
	}
	return report, nil
}

// runPhase processes names with bounded concurrency. Each worker writes
// only its own slot; the caller merges the slots after Wait. Items not yet
// started when ctx is done are recorded as abandoned under op.
func (e *Engine) runPhase(ctx context.Context, names []string, op Op, fn func(context.Context, int) outcome) []outcome {
	results := make([]outcome, len(names))
	var g errgroup.Group
	g.SetLimit(e.opts.Concurrency)
	for i := range names {
		if err := ctx.Err(); err != nil {
			results[i] = outcome{name: names[i], op: op, err: err}
			continue
		}
		g.Go(func() error {
			results[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (e *Engine) deleteOne(ctx context.Context, name string) outcome {
	err := retryErr(ctx, e.opts.Retry, func() error {
		return e.mirror.Delete(ctx, name)
	})
	if IsKind(err, KindMirrorItemMissing) {
		err = nil
	}
	return outcome{name: name, op: OpDelete, err: err}
}

func (e *Engine) addOne(ctx context.Context, item Item) outcome {
	exists, err := retry(ctx, e.opts.Retry, func() (bool, error) {
		return e.mirror.Exists(ctx, item.Name)
	})
	if err != nil {
		return outcome{name: item.Name, op: OpExists, err: err}
	}
	if exists {
		return outcome{name: item.Name, op: OpExists, skipped: true}
	}

	content, err := retry(ctx, e.opts.Retry, func() ([]byte, error) {
		return e.fetch(ctx, item)
	})
	if err != nil {
		return outcome{name: item.Name, op: OpFetch, err: err}
	}

	err = retryErr(ctx, e.opts.Retry, func() error {
		return e.mirror.Put(ctx, item.Name, content)
	})
	if err != nil {
		return outcome{name: item.Name, op: OpPut, err: err}
	}
	return outcome{name: item.Name, op: OpPut}
}

// fetch reads the whole item so a broken stream is retried like a failed request.
func (e *Engine) fetch(ctx context.Context, item Item) ([]byte, error) {
	rc, err := e.source.Fetch(ctx, item)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		if IsKind(err, KindUnknown) {
			err = NewError(KindSourceUnavailable, OpFetch, item.Name, err)
		}
		return nil, err
	}
	return content, nil
}

func (e *Engine) list(ctx context.Context) ([]Item, error) {
	items, err := retry(ctx, e.opts.Retry, func() ([]Item, error) {
		return e.source.List(ctx)
	})
	if err != nil && !IsKind(err, KindSourceUnavailable) {
		err = NewError(KindSourceUnavailable, OpList, "", err)
	}
	return items, err
}

func (e *Engine) loadLedger(ctx context.Context, log *zap.Logger) map[string]struct{} {
	known, err := e.ledger.Load(ctx)
	if err != nil {
		log.Warn("Ledger unreadable, assuming nothing is synced", zap.Error(err))
	}
	if known == nil {
		known = map[string]struct{}{}
	}
	return known
}

func failureOf(name string, op Op, err error) Failure {
	kind := KindOf(err)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		kind = KindCanceled
	}
	return Failure{
		Name:   name,
		Op:     op,
		Kind:   kind,
		Reason: err.Error(),
	}
}
