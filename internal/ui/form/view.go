package form

import (
	"encoding/json"

	"github.com/turtacn/patentlens/pkg/types/analysis"
)

const (
	SubmitLabelIdle    = "Analyze Patent"
	SubmitLabelLoading = "Analyzing..."
)

// ViewModel is an immutable snapshot of a Form for rendering.
type ViewModel struct {
	PatentID       string `json:"patent_id"`
	CompanyName    string `json:"company_name"`
	State          State  `json:"state"`
	Loading        bool   `json:"loading"`
	SubmitLabel    string `json:"submit_label"`
	SubmitDisabled bool   `json:"submit_disabled"`

	// Error is empty when there is nothing to report.
	Error string `json:"error,omitempty"`

	// Result is nil unless State is StateSuccess.
	Result *analysis.Result `json:"-"`
	// ResultJSON is Result pretty-printed with two-space indentation.
	ResultJSON string `json:"-"`
	// ResultRaw is the result body as received, for JSON consumers.
	ResultRaw json.RawMessage `json:"result,omitempty"`
}

// HasError reports whether the error banner should be shown.
func (v ViewModel) HasError() bool { return v.Error != "" }

// HasResult reports whether the result region should be shown.
func (v ViewModel) HasResult() bool { return v.Result != nil }

// View returns a snapshot of the form.
func (f *Form) View() ViewModel {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := ViewModel{
		PatentID:       f.patentID,
		CompanyName:    f.companyName,
		State:          f.state,
		Loading:        f.loading,
		SubmitLabel:    SubmitLabelIdle,
		SubmitDisabled: f.loading,
		Error:          f.errMsg,
		Result:         f.result,
	}
	if f.loading {
		v.SubmitLabel = SubmitLabelLoading
	}
	if f.result != nil {
		v.ResultJSON = f.result.PrettyJSON()
		if len(f.result.Raw) > 0 {
			v.ResultRaw = f.result.Raw
		} else if raw, err := json.Marshal(f.result); err == nil {
			v.ResultRaw = raw
		}
	}
	return v
}
