// Package form implements the patent analysis form: it holds the user's
// inputs, submits them to an Analyzer, and exposes the resulting view.
//
// A Form moves through StateForm → StateSubmitting → StateSuccess or
// StateFailure, and may be resubmitted from either terminal state. At most
// one submission is in flight at a time.
package form

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/turtacn/patentlens/internal/infrastructure/monitoring/logging"
	plerrors "github.com/turtacn/patentlens/pkg/errors"
	"github.com/turtacn/patentlens/pkg/types/analysis"
)

var (
	// ErrSubmissionInFlight is returned by Submit while a request is pending.
	ErrSubmissionInFlight = plerrors.New(plerrors.ErrCodeSubmissionInFlight, "a submission is already in progress")
	// ErrFormClosed is returned by Submit after Close.
	ErrFormClosed = plerrors.New(plerrors.ErrCodeFormClosed, "form is closed")
)

// Analyzer performs one analysis round trip. *client.Client implements it.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

// Observer is notified around each submission.
type Observer interface {
	SubmissionStarted()
	SubmissionFinished(outcome string, elapsed time.Duration)
}

// Submission outcomes. The first three are passed to
// Observer.SubmissionFinished; OutcomeRejected labels a submit refused while
// another is pending.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeCancelled = "cancelled"
	OutcomeRejected  = "rejected"
)

// Option configures a Form.
type Option func(*Form)

func WithLogger(l logging.Logger) Option {
	return func(f *Form) {
		if l != nil {
			f.logger = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(f *Form) { f.observer = o }
}

// Form is the state of one analysis form instance. It is safe for concurrent
// use; the network call runs without holding the lock.
type Form struct {
	analyzer Analyzer
	logger   logging.Logger
	observer Observer

	// lifetime is cancelled by Close and bounds every request.
	lifetime context.Context
	cancel   context.CancelFunc

	mu          sync.Mutex
	patentID    string
	companyName string
	state       State
	loading     bool
	result      *analysis.Result
	errMsg      string
	closed      bool
}

// New returns a Form in StateForm with empty inputs.
func New(analyzer Analyzer, opts ...Option) *Form {
	ctx, cancel := context.WithCancel(context.Background())
	f := &Form{
		analyzer: analyzer,
		logger:   logging.NewNopLogger(),
		lifetime: ctx,
		cancel:   cancel,
		state:    StateForm,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetPatentID records an edit to the patent id input. Edits are accepted in
// every state and take effect on the next Submit.
func (f *Form) SetPatentID(v string) {
	f.mu.Lock()
	f.patentID = v
	f.mu.Unlock()
}

// SetCompanyName records an edit to the company name input.
func (f *Form) SetCompanyName(v string) {
	f.mu.Lock()
	f.companyName = v
	f.mu.Unlock()
}

// Submit sends the current inputs to the analyzer and blocks until the
// request completes, is cancelled through ctx, or the form is closed.
//
// The outcome is recorded in the form's state, not returned: Submit returns
// an error only when it refuses to start (ErrSubmissionInFlight,
// ErrFormClosed).
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFormClosed
	}
	if f.loading {
		f.mu.Unlock()
		if r, ok := f.observer.(interface{ SubmissionRejected() }); ok {
			r.SubmissionRejected()
		}
		return ErrSubmissionInFlight
	}

	req := analysis.Request{PatentID: f.patentID, CompanyName: f.companyName}
	f.loading = true
	f.state = StateSubmitting
	f.result = nil
	f.errMsg = ""
	f.mu.Unlock()

	reqCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(f.lifetime, cancel)
	defer func() {
		stop()
		cancel()
	}()

	log := f.logger.With(logging.String("patent_id", req.PatentID), logging.String("company_name", req.CompanyName))
	log.Info("analysis submitted")
	if f.observer != nil {
		f.observer.SubmissionStarted()
	}

	start := time.Now()
	res, err := f.analyzer.Analyze(reqCtx, req)
	elapsed := time.Since(start)

	outcome := OutcomeSuccess
	f.mu.Lock()
	switch {
	case err != nil:
		f.errMsg = MessageFor(err)
		f.state = StateFailure
		outcome = OutcomeFailure
		if errors.Is(err, context.Canceled) {
			outcome = OutcomeCancelled
		}
	case res == nil:
		f.errMsg = UnknownErrorMessage
		f.state = StateFailure
		outcome = OutcomeFailure
	default:
		f.result = res
		f.state = StateSuccess
	}
	f.loading = false
	msg := f.errMsg
	f.mu.Unlock()

	if f.observer != nil {
		f.observer.SubmissionFinished(outcome, elapsed)
	}
	if outcome == OutcomeSuccess {
		log.Info("analysis completed", logging.Duration("elapsed", elapsed))
	} else {
		log.Warn("analysis failed",
			logging.String("outcome", outcome),
			logging.String("message", msg),
			logging.Duration("elapsed", elapsed),
			logging.Err(err))
	}
	return nil
}

// Close tears the form down, aborting any in-flight request. Subsequent
// Submit calls return ErrFormClosed. Close is idempotent.
func (f *Form) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.cancel()
}

// Closed reports whether Close has been called.
func (f *Form) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
