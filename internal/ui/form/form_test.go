package form

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/patentlens/internal/testutil"
	"github.com/turtacn/patentlens/pkg/client"
	"github.com/turtacn/patentlens/pkg/types/analysis"
)

func newAnalyzer(res *analysis.Result, err error) *testutil.MockAnalyzer {
	a := new(testutil.MockAnalyzer)
	a.On("Analyze", mock.Anything, mock.Anything).Return(res, err)
	return a
}

// heldAnalyzer blocks every call until release is closed or the request
// context ends; entered receives once per call.
func heldAnalyzer(res *analysis.Result, err error) (a *testutil.MockAnalyzer, entered chan struct{}, release chan struct{}) {
	entered = make(chan struct{}, 1)
	release = make(chan struct{})
	a = new(testutil.MockAnalyzer)
	a.On("Analyze", mock.Anything, mock.Anything).Run(testutil.Hold(entered, release)).Return(res, err)
	return a, entered, release
}

type recordingObserver struct {
	mu       sync.Mutex
	started  int
	outcomes []string
	rejected int
}

func (o *recordingObserver) SubmissionStarted() {
	o.mu.Lock()
	o.started++
	o.mu.Unlock()
}

func (o *recordingObserver) SubmissionFinished(outcome string, _ time.Duration) {
	o.mu.Lock()
	o.outcomes = append(o.outcomes, outcome)
	o.mu.Unlock()
}

func (o *recordingObserver) SubmissionRejected() {
	o.mu.Lock()
	o.rejected++
	o.mu.Unlock()
}

func sampleResult() *analysis.Result {
	return &analysis.Result{
		AnalysisID: "a1",
		PatentID:   "US-RE49889-E1",
		Raw:        []byte(`{"analysis_id":"a1","patent_id":"US-RE49889-E1"}`),
	}
}

func TestNew_InitialView(t *testing.T) {
	f := New(new(testutil.MockAnalyzer))
	v := f.View()

	assert.Equal(t, StateForm, v.State)
	assert.Empty(t, v.PatentID)
	assert.Empty(t, v.CompanyName)
	assert.False(t, v.Loading)
	assert.False(t, v.SubmitDisabled)
	assert.Equal(t, "Analyze Patent", v.SubmitLabel)
	assert.False(t, v.HasError())
	assert.False(t, v.HasResult())
}

func TestSubmit_Success(t *testing.T) {
	a := new(testutil.MockAnalyzer)
	a.On("Analyze", mock.Anything, analysis.Request{PatentID: "US-RE49889-E1", CompanyName: "Walmart Inc."}).
		Return(sampleResult(), nil).Once()
	f := New(a)
	f.SetPatentID("US-RE49889-E1")
	f.SetCompanyName("Walmart Inc.")

	require.NoError(t, f.Submit(context.Background()))

	a.AssertExpectations(t)
	v := f.View()
	assert.Equal(t, StateSuccess, v.State)
	assert.False(t, v.Loading)
	assert.Empty(t, v.Error)
	require.True(t, v.HasResult())
	assert.Equal(t, "a1", v.Result.AnalysisID)
	assert.Equal(t, "{\n  \"analysis_id\": \"a1\",\n  \"patent_id\": \"US-RE49889-E1\"\n}", v.ResultJSON)
	assert.JSONEq(t, `{"analysis_id":"a1","patent_id":"US-RE49889-E1"}`, string(v.ResultRaw))
}

func TestSubmit_EmptyInputsStillDispatch(t *testing.T) {
	a := newAnalyzer(sampleResult(), nil)
	f := New(a)

	require.NoError(t, f.Submit(context.Background()))
	a.AssertNumberOfCalls(t, "Analyze", 1)
	assert.Equal(t, []analysis.Request{{}}, a.Requests())
}

func TestSubmit_Failures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"server error text", &client.APIError{StatusCode: 404, Message: "Patent not found"}, "Patent not found"},
		{"server without text", &client.APIError{StatusCode: 500}, "Analysis failed"},
		{"transport error", errors.New("Failed to fetch"), "Failed to fetch"},
		{"empty message", errors.New(""), "An unknown error occurred"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := New(newAnalyzer(nil, tc.err))
			require.NoError(t, f.Submit(context.Background()))

			v := f.View()
			assert.Equal(t, StateFailure, v.State)
			assert.Equal(t, tc.want, v.Error)
			assert.Nil(t, v.Result)
			assert.Empty(t, v.ResultJSON)
			assert.False(t, v.SubmitDisabled)
		})
	}
}

func TestSubmit_NilResultIsFailure(t *testing.T) {
	f := New(newAnalyzer(nil, nil))
	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, StateFailure, f.View().State)
	assert.Equal(t, UnknownErrorMessage, f.View().Error)
}

func TestSubmit_InFlightIsRejected(t *testing.T) {
	a, entered, release := heldAnalyzer(sampleResult(), nil)
	obs := &recordingObserver{}
	f := New(a, WithObserver(obs))

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background()) }()
	<-entered

	v := f.View()
	assert.Equal(t, StateSubmitting, v.State)
	assert.True(t, v.Loading)
	assert.True(t, v.SubmitDisabled)
	assert.Equal(t, "Analyzing...", v.SubmitLabel)

	err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-done)
	a.AssertNumberOfCalls(t, "Analyze", 1)
	assert.Equal(t, StateSuccess, f.View().State)
	assert.Equal(t, 1, obs.rejected)
	assert.Equal(t, []string{OutcomeSuccess}, obs.outcomes)
}

func TestSubmit_ConcurrentCallersMakeOneRequest(t *testing.T) {
	a, entered, release := heldAnalyzer(sampleResult(), nil)
	f := New(a)

	first := make(chan error, 1)
	go func() { first <- f.Submit(context.Background()) }()
	<-entered

	var wg sync.WaitGroup
	var rejected int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if errors.Is(f.Submit(context.Background()), ErrSubmissionInFlight) {
				atomic.AddInt32(&rejected, 1)
			}
		}()
	}
	wg.Wait()
	close(release)
	require.NoError(t, <-first)

	assert.Equal(t, int32(10), rejected)
	a.AssertNumberOfCalls(t, "Analyze", 1)
}

func TestSubmit_ClearsPreviousOutcome(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	a := new(testutil.MockAnalyzer)
	a.On("Analyze", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()
	a.On("Analyze", mock.Anything, mock.Anything).Run(testutil.Hold(entered, release)).Return(sampleResult(), nil).Once()
	a.On("Analyze", mock.Anything, mock.Anything).Return(nil, &client.APIError{StatusCode: 502, Message: "upstream down"}).Once()
	f := New(a)

	require.NoError(t, f.Submit(context.Background()))
	require.Equal(t, "boom", f.View().Error)

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background()) }()
	<-entered

	v := f.View()
	assert.Empty(t, v.Error, "error is cleared when a new submission starts")
	assert.Nil(t, v.Result)

	close(release)
	require.NoError(t, <-done)
	v = f.View()
	assert.Equal(t, StateSuccess, v.State)
	assert.Empty(t, v.Error)

	require.NoError(t, f.Submit(context.Background()))
	v = f.View()
	assert.Equal(t, StateFailure, v.State)
	assert.Nil(t, v.Result, "success result is cleared by a later failure")
	assert.Equal(t, "upstream down", v.Error)
	a.AssertExpectations(t)
}

func TestSubmit_CallerCancellation(t *testing.T) {
	a, entered, _ := heldAnalyzer(sampleResult(), nil)
	obs := &recordingObserver{}
	f := New(a, WithObserver(obs))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Submit(ctx) }()
	<-entered
	cancel()

	require.NoError(t, <-done)
	assert.Equal(t, StateFailure, f.View().State)
	assert.Equal(t, []string{OutcomeCancelled}, obs.outcomes)
	assert.False(t, f.Closed())
}

func TestClose_AbortsInFlightRequest(t *testing.T) {
	a, entered, _ := heldAnalyzer(sampleResult(), nil)
	f := New(a)

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background()) }()
	<-entered

	f.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not abort the in-flight request")
	}

	assert.True(t, f.Closed())
	assert.False(t, f.View().Loading)
	assert.ErrorIs(t, f.Submit(context.Background()), ErrFormClosed)
	assert.NotPanics(t, f.Close)
	a.AssertNumberOfCalls(t, "Analyze", 1)
}

func TestInputsEditableWhileSubmitting(t *testing.T) {
	a, entered, release := heldAnalyzer(sampleResult(), nil)
	f := New(a)
	f.SetPatentID("first")

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background()) }()
	<-entered

	f.SetPatentID("second")
	close(release)
	require.NoError(t, <-done)

	require.Len(t, a.Requests(), 1)
	assert.Equal(t, "first", a.Requests()[0].PatentID)
	assert.Equal(t, "second", f.View().PatentID)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "form", StateForm.String())
	assert.Equal(t, "submitting", StateSubmitting.String())
	assert.Equal(t, "success", StateSuccess.String())
	assert.Equal(t, "failure", StateFailure.String())
	assert.Equal(t, "State(9)", State(9).String())
	assert.True(t, StateFailure.Terminal())
	assert.False(t, StateSubmitting.Terminal())
}
