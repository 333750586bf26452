package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/turtacn/patentlens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patentlens/internal/ui/form"
	"github.com/turtacn/patentlens/pkg/errors"
	"github.com/turtacn/patentlens/pkg/types/analysis"
)

// APIHandler exposes the session form as JSON.
type APIHandler struct {
	logger      logging.Logger
	maxBodySize int64
}

// NewAPIHandler creates an APIHandler. maxBodySize <= 0 disables the limit.
func NewAPIHandler(logger logging.Logger, maxBodySize int64) *APIHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &APIHandler{logger: logger.Named("api"), maxBodySize: maxBodySize}
}

// GetForm handles GET /api/v1/form.
func (h *APIHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	f, err := formFromRequest(r)
	if err != nil {
		h.logger.Error("form lookup failed", logging.Err(err))
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f.View())
}

// Analyze handles POST /api/v1/analyze with a {"patent_id","company_name"}
// body. It replies with the form view: 200 on success, 502 on failure, or an
// error body with 409 while another submission on the session is pending.
func (h *APIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	f, err := formFromRequest(r)
	if err != nil {
		h.logger.Error("form lookup failed", logging.Err(err))
		writeAppError(w, err)
		return
	}

	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}
	var req analysis.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAppError(w, errors.InvalidParam("invalid request body").WithDetail(err.Error()))
		return
	}

	f.SetPatentID(req.PatentID)
	f.SetCompanyName(req.CompanyName)
	if err := f.Submit(r.Context()); err != nil {
		writeAppError(w, err)
		return
	}

	view := f.View()
	status := http.StatusOK
	if view.State == form.StateFailure {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, view)
}
