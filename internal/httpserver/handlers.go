package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillcoder/demo-app/internal/logic/podinfo"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.collector.Health())
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.collector.Ready())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := s.page.render(s.collector.Collect(ctx))
	if err != nil {
		s.requestLogger(r).ErrorContext(ctx, "failed to render index page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(body); err != nil {
		s.requestLogger(r).DebugContext(ctx, "failed to write index page", "error", err)
	}
}

func (s *Server) handleAPIInfo(w http.ResponseWriter, r *http.Request) {
	info := s.collector.Collect(r.Context())

	if acceptsCBOR(r) {
		s.writeCBOR(w, r, http.StatusOK, info)

		return
	}

	s.writeJSON(w, r, http.StatusOK, info)
}

func (s *Server) handleAPIPod(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.pods == nil {
		s.writeJSON(w, r, http.StatusServiceUnavailable, errorBody{Error: "pod lookup is disabled"})

		return
	}

	details, err := s.pods.GetPodDetailsQuery(ctx)
	if err != nil {
		if podinfo.IsNotFound(err) {
			s.writeJSON(w, r, http.StatusNotFound, errorBody{Error: "pod not found"})

			return
		}

		s.requestLogger(r).WarnContext(ctx, "failed to get pod details", "error", err)
		s.writeJSON(w, r, http.StatusBadGateway, errorBody{Error: "kubernetes api request failed"})

		return
	}

	s.writeJSON(w, r, http.StatusOK, details)
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	body, err := marshalJSON(v, "")
	if err != nil {
		s.requestLogger(r).ErrorContext(r.Context(), "failed to encode json response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(code)

	if _, err := w.Write(body); err != nil {
		s.requestLogger(r).DebugContext(r.Context(), "failed to write json response", "error", err)
	}
}

func (s *Server) writeCBOR(w http.ResponseWriter, r *http.Request, code int, v any) {
	body, err := cbor.Marshal(v)
	if err != nil {
		s.requestLogger(r).ErrorContext(r.Context(), "failed to encode cbor response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", contentTypeCBOR)
	w.WriteHeader(code)

	if _, err := w.Write(body); err != nil {
		s.requestLogger(r).DebugContext(r.Context(), "failed to write cbor response", "error", err)
	}
}

func (s *Server) requestLogger(r *http.Request) *slog.Logger {
	return s.logger.With("traceID", middleware.GetReqID(r.Context()))
}

// marshalJSON encodes v without HTML escaping and without a trailing newline.
func marshalJSON(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if indent != "" {
		enc.SetIndent("", indent)
	}

	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func acceptsCBOR(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}

		if mediaType == contentTypeCBOR {
			return true
		}
	}

	return false
}
