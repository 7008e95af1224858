package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"calc-api/internal/calculator"
	"calc-api/internal/expression"
	"calc-api/internal/finance"
	"calc-api/internal/observability"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	observability.Logger = zap.NewNop()
	if err := calculator.InitMetrics(); err != nil {
		t.Fatalf("initializing calculator metrics: %v", err)
	}
	if err := finance.InitMetrics(); err != nil {
		t.Fatalf("initializing finance metrics: %v", err)
	}
	return NewRouter(expression.NewEvaluator(expression.DefaultLimits()), expression.DefaultPrecision)
}

func TestNewRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	if body := w.Body.String(); body != "ok" {
		t.Fatalf("expected body %q, got %q", "ok", body)
	}
}

func TestNewRouterEvaluateSetsHeaderAndOmitsRequestIDInBody(t *testing.T) {
	router := newTestRouter(t)

	body := []byte(`{"expression":"2^10"}`)
	req := httptest.NewRequest(http.MethodPost, "/calculator/evaluate", bytes.NewReader(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	requestID := w.Result().Header.Get("X-Request-ID")
	if requestID == "" {
		t.Fatal("expected X-Request-ID header to be set")
	}
	if _, err := uuid.Parse(requestID); err != nil {
		t.Fatalf("expected valid UUID in X-Request-ID, got %q: %v", requestID, err)
	}

	var payload map[string]any
	if err := json.NewDecoder(w.Result().Body).Decode(&payload); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}

	if _, ok := payload["request_id"]; ok {
		t.Fatal("did not expect request_id field in success JSON body")
	}

	if got, ok := payload["result"].(float64); !ok || got != 1024 {
		t.Fatalf("expected result 1024, got %#v", payload["result"])
	}
}

func TestNewRouterMountsEveryEndpoint(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/calculator/functions", "", http.StatusOK},
		{http.MethodPost, "/calculator/chain", `{"expressions":["1","ans+1"]}`, http.StatusOK},
		{http.MethodPost, "/finance/amortization", `{"principal":1000,"annualRate":5,"termMonths":12,"summaryOnly":true}`, http.StatusOK},
		{http.MethodPost, "/finance/compound", `{"principal":1000,"annualRate":5,"compoundsPerYear":12,"years":1}`, http.StatusOK},
		{http.MethodPost, "/calculator/evaluate", `{"expression":""}`, http.StatusBadRequest},
		{http.MethodGet, "/calculator/evaluate", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/calculator/add", "", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			req := httptest.NewRequest(tc.method, tc.path, body)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tc.status {
				t.Fatalf("expected status %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestNewRouterBadRequestBodyCarriesOnlyError(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/calculator/evaluate", strings.NewReader(`{"expression":"1","mode":"hex"}`))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var payload map[string]any
	if err := json.NewDecoder(w.Result().Body).Decode(&payload); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}
	if len(payload) != 1 {
		t.Fatalf("expected only an error field, got %#v", payload)
	}
	if msg, _ := payload["error"].(string); !strings.Contains(msg, "valid modes are") {
		t.Fatalf("expected mode list in error, got %q", msg)
	}
}

func TestNewRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/calculator/functions", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if !strings.Contains(w.Body.String(), `calc_http_requests_total{method="GET",route="/calculator/functions",status="200"}`) {
		t.Fatal("expected request counter for /calculator/functions in /metrics output")
	}
}

func TestNewRouterRecoversHandlerPanic(t *testing.T) {
	mux, ok := newTestRouter(t).(*chi.Mux)
	if !ok {
		t.Fatal("expected NewRouter to return a *chi.Mux")
	}
	mux.Get("/panics", func(w http.ResponseWriter, r *http.Request) {
		panic("handler defect")
	})

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panics", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if w.Result().Header.Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header on a recovered response")
	}

	var payload map[string]string
	if err := json.NewDecoder(w.Result().Body).Decode(&payload); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}
	if payload["error"] != "internal server error" {
		t.Fatalf("expected internal server error, got %#v", payload)
	}
}
