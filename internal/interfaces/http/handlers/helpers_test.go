package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/patentlens/internal/interfaces/http/middleware"
	"github.com/turtacn/patentlens/internal/testutil"
	"github.com/turtacn/patentlens/internal/ui/form"
	"github.com/turtacn/patentlens/pkg/types/analysis"
)

const sampleBody = testutil.SampleResultBody

func newAnalyzer(res *analysis.Result, err error) *testutil.MockAnalyzer {
	a := new(testutil.MockAnalyzer)
	a.On("Analyze", mock.Anything, mock.Anything).Return(res, err)
	return a
}

// heldAnalyzer blocks each call until release is closed.
func heldAnalyzer(res *analysis.Result) (a *testutil.MockAnalyzer, entered chan struct{}, release chan struct{}) {
	entered = make(chan struct{}, 1)
	release = make(chan struct{})
	a = new(testutil.MockAnalyzer)
	a.On("Analyze", mock.Anything, mock.Anything).Run(testutil.Hold(entered, release)).Return(res, nil)
	return a, entered, release
}

func sampleResult(t *testing.T) *analysis.Result {
	t.Helper()
	res, err := analysis.ParseResult([]byte(sampleBody))
	if err != nil {
		t.Fatalf("parse sample: %v", err)
	}
	return res
}

func newForm(t *testing.T, a form.Analyzer) *form.Form {
	f := form.New(a)
	t.Cleanup(f.Close)
	return f
}

func withForm(r *http.Request, f *form.Form) *http.Request {
	return r.WithContext(middleware.ContextWithForm(r.Context(), "sess-test", f))
}
