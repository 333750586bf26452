// Package card renders a contact card as an HTML fragment.
package card

import (
	"bytes"
	"html/template"

	"github.com/turtacn/patentlens/internal/infrastructure/monitoring/logging"
)

// Card is a contact card.
type Card struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

const (
	NoCardHTML      template.HTML = "<div>No card</div>"
	InvalidCardHTML template.HTML = "<div>Invalid card</div>"
)

const cardTemplate = `<div class="card">` +
	`<div class="card-id">Id: {{.ID}}</div>` +
	`<div class="card-name">{{.Name}}</div>` +
	`<div class="card-email">{{.Email}}</div>` +
	`</div>`

// Valid reports whether c can be rendered: it must be non-nil with a
// non-empty name and email.
func Valid(c *Card) bool {
	return c != nil && c.Name != "" && c.Email != ""
}

// Renderer turns cards into HTML. It is safe for concurrent use.
type Renderer struct {
	tmpl   *template.Template
	logger logging.Logger
}

// NewRenderer returns a Renderer that reports template failures to logger.
func NewRenderer(logger logging.Logger) *Renderer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Renderer{
		tmpl:   template.Must(template.New("card").Parse(cardTemplate)),
		logger: logger.Named("card"),
	}
}

// Render returns the HTML for c. It never fails: a nil card yields
// NoCardHTML, and an invalid card or a template error yields InvalidCardHTML.
func (r *Renderer) Render(c *Card) template.HTML {
	if c == nil {
		return NoCardHTML
	}
	if !Valid(c) {
		return InvalidCardHTML
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, c); err != nil {
		r.logger.Error("card render failed", logging.Int("card_id", c.ID), logging.Err(err))
		return InvalidCardHTML
	}
	return template.HTML(buf.String())
}
