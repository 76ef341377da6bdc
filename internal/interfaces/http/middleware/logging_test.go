package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemRisk-Intelligence/internal/testutil"
)

func loggedHandler(logger *testutil.MockLogger, status int) http.Handler {
	return RequestLogging(logger, DefaultLoggingConfig())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
}

func TestRequestLogging_Levels(t *testing.T) {
	cases := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"success logs info", http.StatusOK, "info"},
		{"client error logs warn", http.StatusBadRequest, "warn"},
		{"server error logs error", http.StatusInternalServerError, "error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger := testutil.NewMockLogger()
			rec := httptest.NewRecorder()
			loggedHandler(logger, tc.status).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/substances", nil))

			messages := logger.Messages()
			require.Len(t, messages, 1)
			assert.Equal(t, tc.wantLevel, messages[0].Level)
		})
	}
}

func TestRequestLogging_SkipsProbePaths(t *testing.T) {
	logger := testutil.NewMockLogger()
	rec := httptest.NewRecorder()
	loggedHandler(logger, http.StatusOK).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Empty(t, logger.Messages())
}
