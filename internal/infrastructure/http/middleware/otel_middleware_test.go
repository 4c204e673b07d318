package middleware

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/product-store/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type instrumentedRouter struct {
	handler  http.Handler
	reader   *sdkmetric.ManualReader
	spans    *tracetest.SpanRecorder
	logLines *bytes.Buffer
}

func newInstrumentedRouter(t *testing.T) *instrumentedRouter {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
		_ = tp.Shutdown(context.Background())
	})

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(RouteLabels())
	r.Use(StructuredLogger(logger))
	r.Use(RequestMetrics(mp.Meter("test")))
	r.Group(func(r chi.Router) {
		r.Use(HTTPRouteContext())
		r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
			switch chi.URLParam(r, "id") {
			case "missing":
				w.WriteHeader(http.StatusNotFound)
			case "broken":
				w.WriteHeader(http.StatusInternalServerError)
			default:
				_, _ = w.Write([]byte(telemetry.RouteFromContext(r.Context())))
			}
		})
	})

	return &instrumentedRouter{
		handler: otelhttp.NewHandler(r, "test-server",
			otelhttp.WithTracerProvider(tp),
			otelhttp.WithMeterProvider(mp),
		),
		reader:   reader,
		spans:    spans,
		logLines: &buf,
	}
}

func (ir *instrumentedRouter) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	ir.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

// routesByMetric collects the http.route attribute of every histogram data point.
func (ir *instrumentedRouter) routesByMetric(t *testing.T) map[string][]string {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, ir.reader.Collect(context.Background(), &rm))

	routes := make(map[string][]string)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			hist, ok := m.Data.(metricdata.Histogram[float64])
			if !ok {
				continue
			}
			for _, dp := range hist.DataPoints {
				route, _ := dp.Attributes.Value(attribute.Key("http.route"))
				routes[m.Name] = append(routes[m.Name], route.AsString())
			}
		}
	}
	return routes
}

func TestHTTPRouteContext_ExposesPatternToHandler(t *testing.T) {
	ir := newInstrumentedRouter(t)

	rec := ir.get(t, "/items/7")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/items/{id}", rec.Body.String())
}

func TestRouteLabels_UsePatternForMetricsAndSpans(t *testing.T) {
	ir := newInstrumentedRouter(t)

	ir.get(t, "/items/1")
	ir.get(t, "/items/2")

	routes := ir.routesByMetric(t)
	assert.Equal(t, []string{"/items/{id}"}, routes["http.server.request.duration.ms"])
	assert.Equal(t, []string{"/items/{id}"}, routes["http.server.request.duration"])

	ended := ir.spans.Ended()
	require.Len(t, ended, 2)
	for _, span := range ended {
		assert.Equal(t, "GET /items/{id}", span.Name())
	}
}

func TestRouteLabels_UnmatchedPathAddsNoRoute(t *testing.T) {
	ir := newInstrumentedRouter(t)

	rec := ir.get(t, "/nowhere/42")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	routes := ir.routesByMetric(t)
	assert.Equal(t, []string{""}, routes["http.server.request.duration"])

	ended := ir.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "test-server", ended[0].Name())
}

func TestStructuredLogger_LevelFollowsStatus(t *testing.T) {
	testCases := []struct {
		name          string
		path          string
		expectedCode  int
		expectedLevel string
	}{
		{"success", "/items/1", http.StatusOK, "INFO"},
		{"client error", "/items/missing", http.StatusNotFound, "WARN"},
		{"server error", "/items/broken", http.StatusInternalServerError, "ERROR"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			ir := newInstrumentedRouter(t)

			// when
			rec := ir.get(t, tc.path)

			// then
			assert.Equal(t, tc.expectedCode, rec.Code)

			scanner := bufio.NewScanner(ir.logLines)
			require.True(t, scanner.Scan())
			var record map[string]any
			require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))

			assert.Equal(t, tc.expectedLevel, record["level"])
			assert.Equal(t, "HTTP request completed", record["msg"])
			assert.Equal(t, "/items/{id}", record["http.route"])
			assert.Equal(t, tc.path, record["url.path"])
			assert.EqualValues(t, tc.expectedCode, record["http.response.status_code"])
			assert.False(t, scanner.Scan(), "expected a single access log line")
		})
	}
}

func TestSinceMillis_KeepsSubMillisecondPrecision(t *testing.T) {
	elapsed := sinceMillis(time.Now().Add(-500 * time.Microsecond))

	assert.GreaterOrEqual(t, elapsed, 0.5)
}
