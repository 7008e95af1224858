package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func ExecuteRequest(req *http.Request, handler http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// PostJSON sends body as a JSON POST to path.
func PostJSON(handler http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return ExecuteRequest(req, handler)
}

func CheckResponseCode(t testing.TB, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Fatalf("expected status %d, got %d", expected, actual)
	}
}

// CheckErrorBody asserts an error response: the status, a body holding only
// the error field, and a message containing want.
func CheckErrorBody(t testing.TB, rr *httptest.ResponseRecorder, status int, want string) {
	t.Helper()
	CheckResponseCode(t, status, rr.Code)

	var body map[string]string
	DecodeJSONBody(t, rr.Body, &body)
	if len(body) != 1 {
		t.Fatalf("expected only an error field, got %#v", body)
	}
	if !strings.Contains(body["error"], want) {
		t.Fatalf("expected error containing %q, got %q", want, body["error"])
	}
}

func DecodeJSONBody(t testing.TB, body io.Reader, dst any) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}
}
