package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemRisk-Intelligence/pkg/errors"
	analysistypes "github.com/turtacn/ChemRisk-Intelligence/pkg/types/analysis"
)

// Analyzer runs one risk analysis.  The analysis service satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, req *analysistypes.Request) (*analysistypes.Result, error)
}

// AnalysisHandler serves POST /api/v1/analyses.
type AnalysisHandler struct {
	service     Analyzer
	maxBodySize int64
	logger      logging.Logger
}

// NewAnalysisHandler creates the handler.  maxBodySize caps the request body;
// zero applies a 1 MiB default.
func NewAnalysisHandler(service Analyzer, maxBodySize int64, logger logging.Logger) *AnalysisHandler {
	if maxBodySize <= 0 {
		maxBodySize = 1 << 20
	}
	return &AnalysisHandler{service: service, maxBodySize: maxBodySize, logger: logger}
}

// Analyze handles POST /api/v1/analyses.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analysistypes.Request

	body := http.MaxBytesReader(w, r.Body, h.maxBodySize)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		status := http.StatusBadRequest
		message := "corps de requête JSON invalide"

		var maxErr *http.MaxBytesError
		switch {
		case stderrors.As(err, &maxErr):
			status = http.StatusRequestEntityTooLarge
			message = "corps de requête trop volumineux"
		case err == io.EOF:
			message = "corps de requête vide"
		}
		writeError(w, status, errors.ErrCodeBadRequest, message)
		return
	}

	result, err := h.service.Analyze(r.Context(), &req)
	if err != nil {
		if !errors.IsValidation(err) {
			h.logger.Error("analysis request failed", logging.Err(err))
		}
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
