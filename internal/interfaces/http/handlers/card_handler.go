package handlers

import (
	"net/http"
	"strconv"

	"github.com/turtacn/patentlens/internal/ui/card"
)

// CardHandler previews the card component.
type CardHandler struct {
	renderer *card.Renderer
}

// NewCardHandler creates a CardHandler.
func NewCardHandler(renderer *card.Renderer) *CardHandler {
	return &CardHandler{renderer: renderer}
}

// Preview handles GET /card?id=&name=&email=. With no query parameters it
// renders the empty-card placeholder.
func (h *CardHandler) Preview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var c *card.Card
	if len(q) > 0 {
		id, _ := strconv.Atoi(q.Get("id"))
		c = &card.Card{ID: id, Name: q.Get("name"), Email: q.Get("email")}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.renderer.Render(c)))
}
