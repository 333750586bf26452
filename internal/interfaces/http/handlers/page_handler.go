package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/turtacn/patentlens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patentlens/internal/ui/form"
	"github.com/turtacn/patentlens/pkg/errors"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// PageHandler serves the analysis page and its HTML form submission.
type PageHandler struct {
	tmpl        *template.Template
	logger      logging.Logger
	maxBodySize int64
}

// NewPageHandler creates a PageHandler. maxBodySize <= 0 disables the limit.
func NewPageHandler(logger logging.Logger, maxBodySize int64) *PageHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &PageHandler{
		tmpl:        pageTemplate,
		logger:      logger.Named("page"),
		maxBodySize: maxBodySize,
	}
}

// Index handles GET /.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	f, err := formFromRequest(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.render(w, http.StatusOK, f.View())
}

// Analyze handles POST /analyze. It blocks until the submission settles and
// then renders the page for the resulting state. A concurrent submission on
// the same session renders the page with 409.
func (h *PageHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	f, err := formFromRequest(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	f.SetPatentID(r.PostForm.Get("patent_id"))
	f.SetCompanyName(r.PostForm.Get("company_name"))

	status := http.StatusOK
	if err := f.Submit(r.Context()); err != nil {
		status = errors.HTTPStatus(err)
	}
	h.render(w, status, f.View())
}

func (h *PageHandler) render(w http.ResponseWriter, status int, view form.ViewModel) {
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, view); err != nil {
		h.logger.Error("page render failed", logging.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (h *PageHandler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("page request failed", logging.Err(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
