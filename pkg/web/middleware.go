package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	// APIVersionHeader carries the requested API version.
	APIVersionHeader = "X-API-Version"
	// LegacyAPIVersionHeader is the misspelt header still sent by older clients.
	LegacyAPIVersionHeader = "X-API-Verision"
	// SupportedVersionsHeader reports the versions this API serves.
	SupportedVersionsHeader = "api-supported-versions"
)

// RequestIDInjector creates a middleware that injects request id.
// An inbound X-Request-Id header is reused, otherwise a new UUID is generated.
func RequestIDInjector(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(middleware.RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(middleware.RequestIDHeader, reqID)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StructuredLogger creates a middleware that logs HTTP requests in a structured format.
func StructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.InfoContext(r.Context(), "Request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes_written", ww.BytesWritten(),
					"duration_ms", float64(time.Since(start).Nanoseconds())/1e6,
					"remote_addr", r.RemoteAddr,
					"user_agent", r.UserAgent(),
				)
			}()
			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}

// Recoverer is a middleware that recovers from panics and logs them using the provided logger.
func Recoverer(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.ErrorContext(r.Context(), "Panic recovered", "panic", rvr)
					RespondError(w, logger, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
				}
			}()
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

// APIVersion negotiates the API version from the request headers.
// A request without a version is served with defaultVersion; an unsupported version is rejected with 400.
// Every response reports the supported versions.
func APIVersion(logger *slog.Logger, defaultVersion string, supported []string) func(next http.Handler) http.Handler {
	supportedList := strings.Join(supported, ", ")
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(SupportedVersionsHeader, supportedList)

			version := r.Header.Get(APIVersionHeader)
			if version == "" {
				version = r.Header.Get(LegacyAPIVersionHeader)
			}
			if version == "" {
				version = defaultVersion
			}
			if !strings.Contains(version, ".") {
				version += ".0"
			}
			if !slices.Contains(supported, version) {
				logger.WarnContext(r.Context(), "Unsupported API version requested", "version", version)
				RespondError(w, logger, http.StatusBadRequest,
					fmt.Sprintf("Unsupported API version %s, supported: %s", version, supportedList))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAPIVersion(r.Context(), version)))
		}
		return http.HandlerFunc(fn)
	}
}
