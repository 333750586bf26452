package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/patentlens/internal/ui/card"
)

func TestCardPreview(t *testing.T) {
	h := NewCardHandler(card.NewRenderer(nil))

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"no card", "", string(card.NoCardHTML)},
		{"invalid", "?id=3&name=Ada", string(card.InvalidCardHTML)},
		{"valid", "?id=3&name=Ada&email=ada%40example.com", `<div class="card-name">Ada</div>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Preview(rec, httptest.NewRequest(http.MethodGet, "/card"+tt.query, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}
