package mirror

import (
	"context"
	"sync"
	"time"

	"screenshot-mirror/core/ledger"
	"screenshot-mirror/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// RunFunc executes one pass.
type RunFunc func(ctx context.Context) (*reconcile.Report, error)

// Status is the outcome of the most recent pass.
type Status struct {
	// Report is the pass report. It is present even for failed passes.
	Report *reconcile.Report `json:"report,omitempty"`

	// Error is the pass-fatal error, if any.
	Error string `json:"error,omitempty"`

	// Kind classifies Error.
	Kind reconcile.Kind `json:"kind,omitempty"`

	// FinishedAt is when the pass returned.
	FinishedAt time.Time `json:"finished_at"`
}

// Service coordinates passes triggered from HTTP and the scheduler.
type Service struct {
	run    RunFunc
	ledger reconcile.Ledger
	logger *zap.Logger
	now    func() time.Time

	group singleflight.Group

	mu   sync.RWMutex
	last *Status
}

// NewService creates a service running passes through run.
func NewService(run RunFunc, l reconcile.Ledger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{run: run, ledger: l, logger: logger, now: time.Now}
}

// Trigger runs a pass, or joins the one in progress. shared is true when
// the result came from a pass started by another caller. The pass is not
// canceled when ctx is.
func (s *Service) Trigger(ctx context.Context) (status *Status, shared bool, err error) {
	v, err, shared := s.group.Do("pass", func() (any, error) {
		report, runErr := s.run(context.WithoutCancel(ctx))
		st := &Status{Report: report, FinishedAt: s.now()}
		if runErr != nil {
			st.Error = runErr.Error()
			st.Kind = reconcile.KindOf(runErr)
			s.logger.Error("Pass failed", zap.Error(runErr))
		}
		s.mu.Lock()
		s.last = st
		s.mu.Unlock()
		return st, runErr
	})
	st, _ := v.(*Status)
	return st, shared, err
}

// Last returns the most recent status, or nil before the first pass.
func (s *Service) Last() *Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Ledger returns the recorded names, sorted.
func (s *Service) Ledger(ctx context.Context) ([]string, error) {
	return ledger.Names(ctx, s.ledger)
}
