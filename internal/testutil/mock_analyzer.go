package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/patentlens/pkg/types/analysis"
)

// MockAnalyzer is a testify mock of form.Analyzer.
//
//	a := new(testutil.MockAnalyzer)
//	a.On("Analyze", mock.Anything, mock.Anything).Return(result, nil)
//
// A call whose context has ended by the time the expectation returns reports
// the context error, as the real client would.
type MockAnalyzer struct {
	mock.Mock

	mu       sync.Mutex
	requests []analysis.Request
}

func (m *MockAnalyzer) Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	args := m.Called(ctx, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.Result), args.Error(1)
}

// Requests returns the requests received so far, in call order.
func (m *MockAnalyzer) Requests() []analysis.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]analysis.Request(nil), m.requests...)
}

// Hold returns a Run function that signals entered (when non-nil) once the
// call starts and then blocks until release is closed or the call's context
// ends.
func Hold(entered chan<- struct{}, release <-chan struct{}) func(mock.Arguments) {
	return func(args mock.Arguments) {
		if entered != nil {
			entered <- struct{}{}
		}
		ctx := args.Get(0).(context.Context)
		select {
		case <-release:
		case <-ctx.Done():
		}
	}
}
