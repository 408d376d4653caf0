package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ChicagoDave/gnosis/internal/config"
	"github.com/ChicagoDave/gnosis/pkg/city"
	"github.com/ChicagoDave/gnosis/pkg/geo"
	"github.com/ChicagoDave/gnosis/pkg/scene2d"
	"github.com/ChicagoDave/gnosis/pkg/spec"
	"github.com/ChicagoDave/gnosis/pkg/validation"
	"github.com/ChicagoDave/gnosis/pkg/viewport"
)

// Server is the local development server the host renderer talks to.
type Server struct {
	projectPath string
	project     *spec.Project
	cfg         *config.Config
	cache       *layoutCache
	limiter     *RateLimiter
	logger      *slog.Logger
}

// New creates a server for a loaded project.
func New(projectPath string, project *spec.Project, cfg *config.Config) *Server {
	logger := slog.With("component", "server")
	return &Server{
		projectPath: projectPath,
		project:     project,
		cfg:         cfg,
		cache:       newLayoutCache(defaultCacheSize, slog.Default()),
		limiter:     NewRateLimiter(cfg.RateLimit),
		logger:      logger,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/spec", s.handleSpec)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("GET /api/scene", s.handleScene)
	mux.HandleFunc("GET /api/viewport", s.handleViewport)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/ws", s.handleWS)
	mux.HandleFunc("GET /{$}", s.handleIndex)

	var h http.Handler = mux
	h = s.limiter.Middleware(h)
	h = newCORS(s.cfg.Server).Handler(h)
	return requestLogger(h)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	defer s.limiter.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Gnosis server starting",
			"addr", "http://localhost"+srv.Addr,
			"project", s.projectPath,
			"cities", len(s.project.Cities),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Gnosis server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>Gnosis</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>Gnosis</h1>
<p>Scene JSON is served at <code>/api/scene</code>. Connect the renderer to <code>/api/ws</code> for viewport updates.</p>
</div>
</body></html>`)
}

func (s *Server) handleSpec(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.project)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"cities": len(s.project.Cities),
		"cached": s.cache.len(),
	})
}

// handleValidation reports every city, building valid ones through the cache.
func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) {
	report := city.ValidateProject(s.project, func(cfg spec.CityConfig) (*city.Layout, error) {
		return s.cache.get(cfg, cfg.Seed)
	})
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	l, err := s.layoutFor(r)
	if err != nil {
		s.writeLayoutError(w, err)
		return
	}

	scene, err := scene2d.Assemble(l)
	if err != nil {
		s.writeLayoutError(w, err)
		return
	}
	scene.Metadata.SpecVersion = s.project.SpecVersion
	scene.Metadata.Title = s.project.Title
	scene.Metadata.GeneratedAt = time.Now().UTC().Format(time.RFC3339)

	if ww, wh, ok, err := windowSize(r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	} else if ok {
		if err := scene.Fit(ww, wh); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, scene)
}

// viewportResponse is the payload for /api/viewport and websocket replies.
type viewportResponse struct {
	City     string            `json:"city"`
	Seed     uint64            `json:"seed"`
	Fov      spec.FovDef       `json:"fov"`
	Viewport geo.Rect          `json:"viewport"`
	Display  *viewport.Display `json:"display,omitempty"`
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	l, err := s.layoutFor(r)
	if err != nil {
		s.writeLayoutError(w, err)
		return
	}

	fov, err := fovFromQuery(r, l.Config().FovOrZero())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ww, wh, fit, err := windowSize(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := resolveViewport(l, fov, ww, wh, fit)
	if err != nil {
		s.writeLayoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// resolveViewport reads a built layout and never modifies it.
func resolveViewport(l *city.Layout, fov spec.FovDef, windowW, windowH int, fit bool) (*viewportResponse, error) {
	bounds, err := l.Bounds()
	if err != nil {
		return nil, err
	}
	view, err := viewport.Resolve(fov, bounds)
	if err != nil {
		return nil, err
	}

	cfg := l.Config()
	resp := &viewportResponse{City: cfg.Name, Seed: cfg.Seed, Fov: fov, Viewport: view}
	if fit {
		d, err := viewport.Fit(view, windowW, windowH)
		if err != nil {
			return nil, err
		}
		resp.Display = &d
	}
	return resp, nil
}

// requestError is a client mistake in query parameters.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

// layoutFor resolves ?city= and ?seed= to a cached layout. Omitted values
// fall back to the project's initial city and that city's seed.
func (s *Server) layoutFor(r *http.Request) (*city.Layout, error) {
	q := r.URL.Query()

	var (
		cfg spec.CityConfig
		ok  bool
	)
	if name := q.Get("city"); name != "" {
		cfg, ok = s.project.City(name)
		if !ok {
			return nil, &requestError{http.StatusNotFound, fmt.Sprintf("city %q not found", name)}
		}
	} else if cfg, ok = s.project.Initial(); !ok {
		return nil, &requestError{http.StatusNotFound, "project defines no cities"}
	}

	seed := cfg.Seed
	if raw := q.Get("seed"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, &requestError{http.StatusBadRequest, fmt.Sprintf("invalid seed %q", raw)}
		}
		seed = v
	}

	return s.cache.get(cfg, seed)
}

func (s *Server) writeLayoutError(w http.ResponseWriter, err error) {
	var (
		reqErr *requestError
		cfgErr *validation.ConfigError
		iv     *city.InvariantViolation
	)
	switch {
	case errors.As(err, &reqErr):
		writeError(w, reqErr.status, reqErr.msg)
	case errors.As(err, &cfgErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  err.Error(),
			"report": cfgErr.Report,
		})
	case errors.Is(err, viewport.ErrInvalidWindow):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &iv):
		s.logger.Error("Generated layout violates invariants", "entity", iv.Entity, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":  err.Error(),
			"report": iv.Report,
		})
	default:
		s.logger.Error("Layout request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func fovFromQuery(r *http.Request, base spec.FovDef) (spec.FovDef, error) {
	q := r.URL.Query()
	fov := base
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"x", &fov.X},
		{"y", &fov.Y},
		{"width", &fov.Width},
		{"height", &fov.Height},
	} {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return spec.FovDef{}, fmt.Errorf("invalid %s %q", f.name, raw)
		}
		*f.dst = v
	}
	return fov, nil
}

// windowSize reads window_width and window_height. Both or neither must be
// present.
func windowSize(r *http.Request) (int, int, bool, error) {
	q := r.URL.Query()
	rawW, rawH := q.Get("window_width"), q.Get("window_height")
	if rawW == "" && rawH == "" {
		return 0, 0, false, nil
	}
	ww, errW := strconv.Atoi(rawW)
	wh, errH := strconv.Atoi(rawH)
	if errW != nil || errH != nil {
		return 0, 0, false, fmt.Errorf("invalid window size %q x %q", rawW, rawH)
	}
	return ww, wh, true, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "component", "server", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
