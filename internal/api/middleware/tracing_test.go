package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/roamcast/roamcast/internal/api/middleware"
)

// recordSpans installs a recording tracer provider for the duration of the
// test and returns the recorder.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	return recorder
}

func attributeValue(attrs []attribute.KeyValue, key attribute.Key) (string, bool) {
	for _, kv := range attrs {
		if kv.Key == key {
			return kv.Value.Emit(), true
		}
	}
	return "", false
}

func TestTracingRenamesSpanToRoutePattern(t *testing.T) {
	recorder := recordSpans(t)

	r := chi.NewRouter()
	r.Use(middleware.Tracing("roamcast-monitord"))
	r.Post("/v1/trips/{tripId}/check", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/trips/trp_abc/check", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]

	assert.Equal(t, "POST /v1/trips/{tripId}/check", span.Name())

	route, ok := attributeValue(span.Attributes(), "http.route")
	require.True(t, ok)
	assert.Equal(t, "/v1/trips/{tripId}/check", route)

	tripID, ok := attributeValue(span.Attributes(), "trip.id")
	require.True(t, ok)
	assert.Equal(t, "trp_abc", tripID)
}

func TestTracingRecordsStatusCode(t *testing.T) {
	recorder := recordSpans(t)

	r := chi.NewRouter()
	r.Use(middleware.Tracing("roamcast-monitord"))
	r.Get("/v1/ops/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody))

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	status, ok := attributeValue(spans[0].Attributes(), "http.response.status_code")
	require.True(t, ok)
	assert.Equal(t, "200", status)
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestTracingMarksServerErrors(t *testing.T) {
	recorder := recordSpans(t)

	r := chi.NewRouter()
	r.Use(middleware.Tracing("roamcast-monitord"))
	r.Get("/v1/ops/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}
