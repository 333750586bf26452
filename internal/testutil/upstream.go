package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

// SampleResultBody is a schema-valid analysis response.
const SampleResultBody = `{"analysis_id":"a1","patent_id":"US-RE49889-E1","patent_title":"Mobile checkout","company_name":"Walmart Inc.","analysis_date":"2024-10-01","top_infringing_products":[{"product_name":"Walmart+ App","infringement_likelihood":"High","relevant_claims":["1","4"],"explanation":"Scan and pay flow","specific_features":["QR checkout"]}],"overall_risk_assessment":"High risk"}`

// Upstream is a fake analysis service that counts and records requests.
type Upstream struct {
	*httptest.Server

	calls int32
	mu    sync.Mutex
	last  *http.Request
	body  []byte
}

// NewUpstream serves status and body with a JSON content type for every
// request. The server is closed when the test ends.
func NewUpstream(t testing.TB, status int, body string) *Upstream {
	return NewUpstreamFunc(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// NewUpstreamFunc delegates to h after recording the request.
func NewUpstreamFunc(t testing.TB, h http.HandlerFunc) *Upstream {
	t.Helper()
	u := &Upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&u.calls, 1)
		body, _ := io.ReadAll(r.Body)
		u.mu.Lock()
		u.last = r
		u.body = body
		u.mu.Unlock()
		h(w, r)
	}))
	t.Cleanup(u.Close)
	return u
}

// Calls returns the number of requests received.
func (u *Upstream) Calls() int {
	return int(atomic.LoadInt32(&u.calls))
}

// LastRequest returns the most recent request and its body.
func (u *Upstream) LastRequest() (*http.Request, []byte) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.last, u.body
}
