package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/ChemRisk-Intelligence/pkg/errors"
	analysistypes "github.com/turtacn/ChemRisk-Intelligence/pkg/types/analysis"
)

// SubstanceCatalog exposes the loaded reference catalog.
type SubstanceCatalog interface {
	Substances() []*analysistypes.SubstanceSummary
	ResolveSubstance(token string) (*analysistypes.SubstanceSummary, bool)
}

// SubstanceHandler serves the read-only catalog endpoints.
type SubstanceHandler struct {
	catalog SubstanceCatalog
}

// NewSubstanceHandler creates the handler.
func NewSubstanceHandler(catalog SubstanceCatalog) *SubstanceHandler {
	return &SubstanceHandler{catalog: catalog}
}

// substanceListResponse is the body of GET /api/v1/substances.
type substanceListResponse struct {
	Substances []*analysistypes.SubstanceSummary `json:"substances"`
	Total      int                               `json:"total"`
}

// List handles GET /api/v1/substances.  An optional ?q= filter matches a
// case-insensitive fragment of the name or CAS number.
func (h *SubstanceHandler) List(w http.ResponseWriter, r *http.Request) {
	substances := h.catalog.Substances()

	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		q = strings.ToLower(q)
		filtered := substances[:0:0]
		for _, s := range substances {
			if strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(s.CAS, q) {
				filtered = append(filtered, s)
			}
		}
		substances = filtered
	}

	if substances == nil {
		substances = []*analysistypes.SubstanceSummary{}
	}
	writeJSON(w, http.StatusOK, substanceListResponse{Substances: substances, Total: len(substances)})
}

// Resolve handles GET /api/v1/substances/{token}.  The token is a CAS number
// or a name, resolved with the same precedence the analysis applies.
func (h *SubstanceHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if unescaped, err := url.PathUnescape(token); err == nil {
		token = unescaped
	}
	token = strings.TrimSpace(token)
	if token == "" {
		writeError(w, http.StatusBadRequest, errors.ErrCodeBadRequest, "substance requise")
		return
	}

	summary, ok := h.catalog.ResolveSubstance(token)
	if !ok {
		writeError(w, http.StatusNotFound, errors.ErrCodeSubstanceNotFound, "substance inconnue: "+token)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
