// Package httpapi exposes the bridge operations over a local HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ohmybug/ohmybug-bridge/internal/application"
	"github.com/ohmybug/ohmybug-bridge/internal/domain"
)

// ScanRequest is the body of the scan, report and fix endpoints.
type ScanRequest struct {
	Path string `json:"path"`
	Fix  bool   `json:"fix,omitempty"`
}

type handler struct {
	bridge application.Bridge
	log    *zap.Logger
}

// NewRouter creates the chi router for the bridge API.
func NewRouter(bridge application.Bridge, log *zap.Logger) *chi.Mux {
	if log == nil {
		log = zap.NewNop()
	}
	h := &handler{bridge: bridge, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/scan", h.scan)              // POST /api/v1/scan
		r.Post("/scan/report", h.scanReport) // POST /api/v1/scan/report
		r.Post("/fix", h.fix)                // POST /api/v1/fix
		r.Get("/available", h.available)     // GET /api/v1/available
		r.Get("/version", h.version)         // GET /api/v1/version
		r.Get("/doctor", h.doctor)           // GET /api/v1/doctor
	})

	return r
}

func (h *handler) scan(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeScanRequest(w, r)
	if !ok {
		return
	}
	result, err := h.bridge.Scan(r.Context(), req.Path, req.Fix)
	if err != nil {
		h.writeBridgeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) scanReport(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeScanRequest(w, r)
	if !ok {
		return
	}
	text, err := h.bridge.ScanReport(r.Context(), req.Path)
	if err != nil {
		h.writeBridgeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func (h *handler) fix(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeScanRequest(w, r)
	if !ok {
		return
	}
	result, err := h.bridge.Fix(r.Context(), req.Path)
	if err != nil {
		h.writeBridgeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) available(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"available": h.bridge.IsAvailable(r.Context())})
}

func (h *handler) version(w http.ResponseWriter, r *http.Request) {
	v, err := h.bridge.Version(r.Context())
	if err != nil {
		h.writeBridgeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"version": v})
}

func (h *handler) doctor(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.bridge.Doctor(r.Context()))
}

func decodeScanRequest(w http.ResponseWriter, r *http.Request) (ScanRequest, bool) {
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return req, false
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return req, false
	}
	return req, true
}

// statusFor maps the bridge error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrToolNotFound):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout
	case domain.IsScanFailed(err):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled):
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) writeBridgeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Warn("bridge request failed", zap.Int("status", status), zap.Error(err))
	}
	writeError(w, status, err.Error())
}

// writeJSON encodes v before the status line is sent, so an encoding failure
// can still be reported as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		status = http.StatusInternalServerError
		buf.Reset()
		buf.WriteString(`{"error":"failed to encode response"}` + "\n")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
