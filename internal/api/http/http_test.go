package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleReportUnknownType(t *testing.T) {
	s := New(&Config{}, nil)
	rec := httptest.NewRecorder()

	s.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/payments", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "unknown report type")
}

func TestHealthz(t *testing.T) {
	s := New(&Config{}, nil)
	rec := httptest.NewRecorder()

	s.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
