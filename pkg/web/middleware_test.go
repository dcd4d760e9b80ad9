package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func Test_APIVersion(t *testing.T) {
	testCases := []struct {
		name            string
		headers         map[string]string
		expectedCode    int
		expectedVersion string
	}{
		{name: "no header uses the default", expectedCode: http.StatusOK, expectedVersion: "1.0"},
		{name: "explicit version", headers: map[string]string{APIVersionHeader: "2.0"}, expectedCode: http.StatusOK, expectedVersion: "2.0"},
		{name: "major only is normalised", headers: map[string]string{APIVersionHeader: "2"}, expectedCode: http.StatusOK, expectedVersion: "2.0"},
		{name: "legacy header", headers: map[string]string{LegacyAPIVersionHeader: "2.0"}, expectedCode: http.StatusOK, expectedVersion: "2.0"},
		{
			name:            "current header wins over legacy",
			headers:         map[string]string{APIVersionHeader: "1.0", LegacyAPIVersionHeader: "2.0"},
			expectedCode:    http.StatusOK,
			expectedVersion: "1.0",
		},
		{name: "unsupported version", headers: map[string]string{APIVersionHeader: "3.0"}, expectedCode: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = GetAPIVersion(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			handler := APIVersion(discardLogger(), "1.0", []string{"1.0", "2.0"})(next)
			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			// when
			handler.ServeHTTP(rr, req)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.Equal(t, "1.0, 2.0", rr.Header().Get(SupportedVersionsHeader))
			assert.Equal(t, tc.expectedVersion, seen)
			if tc.expectedCode == http.StatusBadRequest {
				assert.JSONEq(t, `{"error":"Unsupported API version 3.0, supported: 1.0, 2.0"}`, rr.Body.String())
			}
		})
	}
}

func Test_RequestIDInjector(t *testing.T) {
	t.Run("reuses inbound id", func(t *testing.T) {
		var seen string
		handler := RequestIDInjector(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = middleware.GetReqID(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-123")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, "req-123", seen)
		assert.Equal(t, "req-123", rr.Header().Get(middleware.RequestIDHeader))
	})
	t.Run("generates an id", func(t *testing.T) {
		var seen string
		handler := RequestIDInjector(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = middleware.GetReqID(r.Context())
		}))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Len(t, seen, 36)
		assert.Equal(t, seen, rr.Header().Get(middleware.RequestIDHeader))
	})
}

func Test_Recoverer(t *testing.T) {
	// given
	handler := Recoverer(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	// when
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	// then
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String())
}
