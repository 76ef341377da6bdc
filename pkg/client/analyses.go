package client

import (
	"context"
	"net/http"
	"net/url"

	analysistypes "github.com/turtacn/ChemRisk-Intelligence/pkg/types/analysis"
)

// Analyze submits a risk analysis request.
func (c *Client) Analyze(ctx context.Context, req *analysistypes.Request) (*analysistypes.Result, error) {
	var result analysistypes.Result
	if err := c.do(ctx, http.MethodPost, "/api/v1/analyses", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// substanceListResponse mirrors the body of GET /api/v1/substances.
type substanceListResponse struct {
	Substances []*analysistypes.SubstanceSummary `json:"substances"`
	Total      int                               `json:"total"`
}

// Substances lists the server's reference catalog.  A non-empty query filters
// by name or CAS fragment.
func (c *Client) Substances(ctx context.Context, query string) ([]*analysistypes.SubstanceSummary, error) {
	path := "/api/v1/substances"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}

	var resp substanceListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Substances, nil
}

// ResolveSubstance looks up a single catalog entry by CAS number or name.
func (c *Client) ResolveSubstance(ctx context.Context, token string) (*analysistypes.SubstanceSummary, error) {
	var summary analysistypes.SubstanceSummary
	if err := c.do(ctx, http.MethodGet, "/api/v1/substances/"+url.PathEscape(token), nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Health checks the server's liveness probe.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}
