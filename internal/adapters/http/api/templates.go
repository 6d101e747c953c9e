// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// TemplatesHandler handles rule template listing.
type TemplatesHandler struct {
	deps Dependencies
}

// NewTemplatesHandler creates a new templates handler.
func NewTemplatesHandler(deps Dependencies) *TemplatesHandler {
	return &TemplatesHandler{deps: deps}
}

// HandleListTemplates handles GET /templates requests.
func (h *TemplatesHandler) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Templates(r.Context()))
}
