// Package devtools provides a small HTTP preview service for iterating on
// binding output without writing files. It is a development aid, not part of
// the rendering core.
package devtools

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/hdrgen/hdrgen"
	"github.com/hdrgen/hdrgen/ir"
)

var schemaDecoder = schema.NewDecoder()

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
}

// Service serves previews of a single library's rendered bindings.
type Service struct {
	lib    *ir.Library
	base   hdrgen.Config
	logger *slog.Logger
}

// New creates a preview service for lib. cfg supplies the defaults that
// query parameters may override per request.
func New(lib *ir.Library, cfg hdrgen.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{lib: lib, base: cfg, logger: logger}
}

// Handler returns the HTTP handler for the service.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", s.handlePing)
	mux.HandleFunc("GET /preview", s.handlePreview)
	return mux
}

func (s *Service) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"ok":true}`)
}

// previewRequest holds the per-request render overrides, decoded from query
// parameters.
type previewRequest struct {
	Language      string `schema:"language"`
	Style         string `schema:"style"`
	Vertical      bool   `schema:"vertical"`
	VoidPrototype *bool  `schema:"void_prototype"`
	PragmaOnce    bool   `schema:"pragma_once"`
}

func (s *Service) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := schemaDecoder.Decode(&req, r.URL.Query()); err != nil {
		s.logger.Warn("preview: bad query", "error", err)
		http.Error(w, "bad query: "+err.Error(), http.StatusBadRequest)
		return
	}

	cfg := s.base
	if req.Language != "" {
		cfg.Language = req.Language
	}
	if req.Style != "" {
		cfg.Style = req.Style
	}
	if req.Vertical {
		cfg.VerticalFunctionArgs = true
	}
	if req.VoidPrototype != nil {
		cfg.VoidPrototype = req.VoidPrototype
	}
	if req.PragmaOnce {
		cfg.PragmaOnce = true
	}

	gen, err := hdrgen.New(cfg)
	if err != nil {
		s.logger.Warn("preview: invalid config", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	text, err := gen.Render(s.lib)
	if err != nil {
		// Render failures mean a malformed library, which is a server-side
		// bug, not a caller mistake.
		s.logger.Error("preview: render failed", "language", gen.Language().String(), "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.logger.Debug("preview rendered",
		"language", gen.Language().String(), "bytes", len(text))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, text)
}
