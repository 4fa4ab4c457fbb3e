package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamcast/roamcast/internal/api/middleware"
	"github.com/roamcast/roamcast/internal/api/models"
	"github.com/roamcast/roamcast/internal/api/response"
)

// serve runs fn behind the request ID middleware so responses carry a
// correlation ID, the way the router wires them.
func serve(fn http.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/trips/trp_abc", http.NoBody)
	middleware.RequestID(fn).ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) models.Problem {
	t.Helper()
	var p models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestJSON(t *testing.T) {
	rec := serve(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, models.TripList{TripIDs: []string{"trp_abc"}})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var list models.TripList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, []string{"trp_abc"}, list.TripIDs)
}

func TestJSONNilBody(t *testing.T) {
	rec := serve(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, nil)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestCreatedSetsLocation(t *testing.T) {
	rec := serve(func(w http.ResponseWriter, r *http.Request) {
		response.Created(w, r, "/v1/trips/trp_new", models.Trip{ID: "trp_new", City: "Lisbon"})
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/v1/trips/trp_new", rec.Header().Get("Location"))

	var created models.Trip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "trp_new", created.ID)
}

func TestNoContent(t *testing.T) {
	rec := serve(func(w http.ResponseWriter, r *http.Request) {
		response.NoContent(w, r)
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestBadRequestCarriesFieldErrors(t *testing.T) {
	rec := serve(func(w http.ResponseWriter, r *http.Request) {
		response.BadRequest(w, r, "invalid trip", []models.FieldError{
			{Field: "city", Message: "city is required"},
		})
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	p := decodeProblem(t, rec)
	assert.Equal(t, models.ProblemTypeValidation, p.Type)
	assert.Equal(t, "invalid trip", p.Detail)
	assert.Equal(t, "/v1/trips/trp_abc", p.Instance)
	assert.NotEmpty(t, p.TraceID)
	require.Len(t, p.Errors, 1)
	assert.Equal(t, "city", p.Errors[0].Field)
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name     string
		write    func(w http.ResponseWriter, r *http.Request)
		status   int
		wantType string
	}{
		{
			name:     "not found",
			write:    func(w http.ResponseWriter, r *http.Request) { response.NotFound(w, r, "trip not found") },
			status:   http.StatusNotFound,
			wantType: models.ProblemTypeNotFound,
		},
		{
			name:     "conflict",
			write:    func(w http.ResponseWriter, r *http.Request) { response.Conflict(w, r, "monitor not initialized") },
			status:   http.StatusConflict,
			wantType: models.ProblemTypeConflict,
		},
		{
			name:     "internal error",
			write:    func(w http.ResponseWriter, r *http.Request) { response.InternalError(w, r, "failed to store trip") },
			status:   http.StatusInternalServerError,
			wantType: models.ProblemTypeInternal,
		},
		{
			name: "service unavailable",
			write: func(w http.ResponseWriter, r *http.Request) {
				response.ServiceUnavailable(w, r, "weather provider unavailable")
			},
			status:   http.StatusServiceUnavailable,
			wantType: models.ProblemTypeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(tt.write)

			assert.Equal(t, tt.status, rec.Code)
			p := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, p.Type)
			assert.Equal(t, tt.status, p.Status)
			assert.NotEmpty(t, p.Detail)
			assert.Equal(t, "/v1/trips/trp_abc", p.Instance)
		})
	}
}

func TestProblemTraceIDMatchesHeader(t *testing.T) {
	rec := serve(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, r, "trip not found")
	})

	p := decodeProblem(t, rec)
	assert.Equal(t, rec.Header().Get("X-Request-Id"), p.TraceID)
}
