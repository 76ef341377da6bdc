package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analysistypes "github.com/turtacn/ChemRisk-Intelligence/pkg/types/analysis"
)

type fakeLister struct{ summaries []*analysistypes.SubstanceSummary }

func (f *fakeLister) Substances() []*analysistypes.SubstanceSummary { return f.summaries }

func (f *fakeLister) ResolveSubstance(token string) (*analysistypes.SubstanceSummary, bool) {
	for _, s := range f.summaries {
		if s.CAS == token || strings.EqualFold(s.Name, token) {
			return s, true
		}
	}
	return nil, false
}

func listSubstances(t *testing.T, h *SubstanceHandler, target string) substanceListResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp substanceListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestSubstanceList(t *testing.T) {
	h := NewSubstanceHandler(&fakeLister{summaries: []*analysistypes.SubstanceSummary{
		{CAS: "7732-18-5", Name: "Eau", Category: "eau"},
		{CAS: "67-64-1", Name: "Acétone", Category: "flammable"},
	}})

	resp := listSubstances(t, h, "/api/v1/substances")
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "Eau", resp.Substances[0].Name)
}

func TestSubstanceList_Filter(t *testing.T) {
	h := NewSubstanceHandler(&fakeLister{summaries: []*analysistypes.SubstanceSummary{
		{CAS: "7732-18-5", Name: "Eau"},
		{CAS: "67-64-1", Name: "Acétone"},
		{CAS: "7664-93-9", Name: "Acide sulfurique"},
	}})

	resp := listSubstances(t, h, "/api/v1/substances?q=aci")
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Acide sulfurique", resp.Substances[0].Name)

	byCAS := listSubstances(t, h, "/api/v1/substances?q=67-64-1")
	require.Equal(t, 1, byCAS.Total)
	assert.Equal(t, "Acétone", byCAS.Substances[0].Name)
}

func TestSubstanceList_Empty(t *testing.T) {
	h := NewSubstanceHandler(&fakeLister{})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/substances", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"substances":[]`)
}

func resolveSubstance(t *testing.T, h *SubstanceHandler, token string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/api/v1/substances/{token}", h.Resolve)

	rec := httptest.NewRecorder()
	target := "/api/v1/substances/" + url.PathEscape(token)
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSubstanceResolve(t *testing.T) {
	h := NewSubstanceHandler(&fakeLister{summaries: []*analysistypes.SubstanceSummary{
		{CAS: "67-64-1", Name: "Acétone", Category: "flammable"},
	}})

	rec := resolveSubstance(t, h, "67-64-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary analysistypes.SubstanceSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "Acétone", summary.Name)
}

func TestSubstanceResolve_ByName(t *testing.T) {
	h := NewSubstanceHandler(&fakeLister{summaries: []*analysistypes.SubstanceSummary{
		{CAS: "67-64-1", Name: "Acétone"},
	}})

	rec := resolveSubstance(t, h, "Acétone")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "67-64-1")
}

func TestSubstanceResolve_NotFound(t *testing.T) {
	h := NewSubstanceHandler(&fakeLister{})

	rec := resolveSubstance(t, h, "Licorne liquide")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "SUB_001")
}
