package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ChicagoDave/gnosis/internal/config"
	"github.com/ChicagoDave/gnosis/pkg/scene2d"
	"github.com/ChicagoDave/gnosis/pkg/spec"
	"github.com/ChicagoDave/gnosis/pkg/validation"
)

const exampleProject = "../../examples/first-city"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:        3000,
			CORSOrigins: []string{"http://localhost:5173"},
		},
		Logging: config.LoggingConfig{Level: "info"},
	}
}

func loadExample(t *testing.T) *spec.Project {
	t.Helper()
	p, err := spec.LoadProject(exampleProject)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	return p
}

func newTestServer(t *testing.T, p *spec.Project, cfg *config.Config) *Server {
	t.Helper()
	s := New(exampleProject, p, cfg)
	t.Cleanup(s.limiter.Stop)
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, loadExample(t), testConfig())
	rec := get(t, s.Handler(), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]any
	decode(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestSpecEndpoint(t *testing.T) {
	s := newTestServer(t, loadExample(t), testConfig())
	rec := get(t, s.Handler(), "/api/spec")
	var p spec.Project
	decode(t, rec, &p)
	if p.Title != "Gnosis" {
		t.Errorf("title = %q, want Gnosis", p.Title)
	}
	if len(p.Cities) != 2 {
		t.Errorf("cities = %d, want 2", len(p.Cities))
	}
}

func TestIndex(t *testing.T) {
	s := newTestServer(t, loadExample(t), testConfig())
	if rec := get(t, s.Handler(), "/"); rec.Code != http.StatusOK {
		t.Errorf("GET / status = %d, want 200", rec.Code)
	}
	if rec := get(t, s.Handler(), "/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /nope status = %d, want 404", rec.Code)
	}
}

func TestSceneDefaultCity(t *testing.T) {
	s := newTestServer(t, loadExample(t), testConfig())
	rec := get(t, s.Handler(), "/api/scene")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var scene scene2d.Scene
	decode(t, rec, &scene)
	if scene.Metadata.City != "first" {
		t.Errorf("city = %q, want first", scene.Metadata.City)
	}
	if scene.Metadata.Title != "Gnosis" {
		t.Errorf("title = %q, want Gnosis", scene.Metadata.Title)
	}
	if len(scene.Buildings) == 0 {
		t.Error("expected buildings")
	}
	if report := scene2d.ValidateScene(&scene); !report.Valid {
		t.Errorf("served scene invalid: %+v", report.Errors)
	}
}

func TestSceneSeedOverride(t *testing.T) {
	s := newTestServer(t, loadExample(t), testConfig())
	rec := get(t, s.Handler(), "/api/scene?city=first&seed=7")
	var scene scene2d.Scene
	decode(t, rec, &scene)
	if scene.Metadata.Seed != 7 {
		t.Errorf("seed = %d, want 7", scene.Metadata.Seed)
	}
	if n := s.cache.len(); n != 1 {
		t.Errorf("cache len = %d, want 1", n)
	}
}

func TestSceneWindowFit(t *testing.T) {
	s := newTestServer(t, loadExample(t), testConfig())
	rec := get(t, s.Handler(), "/api/scene?window_width=1600&window_height=1200")
	var scene scene2d.Scene
	decode(t, rec, &scene)
	if scene.Display == nil {
		t.Fatal("expected display")
	}
	// 500x140 city inside an 800x600 fov: the viewport is the whole city.
	if scene.Display.Scale != 3.2 {
		t.Errorf("scale = %v, want 3.2", scene.Display.Scale)
	}
}

func TestSceneRequestErrors(t *testing.T) {
	s := newTestServer(t, loadExample(t), testConfig())
	h := s.Handler()

	tests := []struct {
		target string
		want   int
	}{
		{"/api/scene?city=atlantis", http.StatusNotFound},
		{"/api/scene?seed=abc", http.StatusBadRequest},
		{"/api/scene?seed=-1", http.StatusBadRequest},
		{"/api/scene?window_width=100", http.StatusBadRequest},
		{"/api/scene?window_width=0&window_height=10", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if rec := get(t, h, tt.target); rec.Code != tt.want {
			t.Errorf("GET %s status = %d, want %d", tt.target, rec.Code, tt.want)
		}
	}
}

func invalidProject(t *testing.T) *spec.Project {
	t.Helper()
	p := loadExample(t)
	p.Cities[0].Buildings.MinWidth = 0
	return p
}

func TestSceneInvalidConfig(t *testing.T) {
	s := newTestServer(t, invalidProject(t), testConfig())
	rec := get(t, s.Handler(), "/api/scene?city=first")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var body struct {
		Error  string             `json:"error"`
		Report *validation.Report `json:"report"`
	}
	decode(t, rec, &body)
	if body.Report == nil || body.Report.Valid {
		t.Errorf("expected invalid report, got %+v", body.Report)
	}
	if n := s.cache.len(); n != 0 {
		t.Errorf("failed layout cached: len = %d", n)
	}
}

func TestValidationEndpoint(t *testing.T) {
	s := newTestServer(t, loadExample(t), testConfig())
	rec := get(t, s.Handler(), "/api/validation")
	var report validation.Report
	decode(t, rec, &report)
	if !report.Valid {
		t.Errorf("example project invalid: %+v", report.Errors)
	}
}

func TestValidationEndpointPrefixesCity(t *testing.T) {
	s := newTestServer(t, invalidProject(t), testConfig())
	rec := get(t, s.Handler(), "/api/validation")
	var report validation.Report
	decode(t, rec, &report)
	if report.Valid {
		t.Fatal("expected invalid report")
	}
	found := false
	for _, e := range report.Errors {
		if e.Path == "cities.first.buildings.min_width" {
			found = true
		}
	}
	if !found {
		t.Errorf("no error at cities.first.buildings.min_width: %+v", report.Errors)
	}
}

type viewportBody struct {
	Viewport struct {
		X, Y, Width, Height int
	} `json:"viewport"`
	Display *struct {
		Scale float64 `json:"scale"`
	} `json:"display"`
}

func TestViewportClampsToCity(t *testing.T) {
	s := newTestServer(t, loadExample(t), testConfig())
	rec := get(t, s.Handler(), "/api/viewport?city=downtown&x=10000")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body viewportBody
	decode(t, rec, &body)
	v := body.Viewport
	if v.X != 4200 || v.Width != 800 {
		t.Errorf("viewport x,w = %d,%d, want 4200,800", v.X, v.Width)
	}
	if v.Y != 0 || v.Height != 300 {
		t.Errorf("viewport y,h = %d,%d, want 0,300", v.Y, v.Height)
	}
	if body.Display != nil {
		t.Error("display set without a window size")
	}
}

func TestViewportErrors(t *testing.T) {
	s := newTestServer(t, loadExample(t), testConfig())
	h := s.Handler()

	if rec := get(t, h, "/api/viewport?width=0"); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("width=0 status = %d, want 422", rec.Code)
	}
	if rec := get(t, h, "/api/viewport?x=left"); rec.Code != http.StatusBadRequest {
		t.Errorf("x=left status = %d, want 400", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, loadExample(t), testConfig())
	req := httptest.NewRequest(http.MethodOptions, "/api/scene", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q, want the configured origin", got)
	}
}

func TestRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, BurstSize: 1}
	s := newTestServer(t, loadExample(t), cfg)
	h := s.Handler()

	if rec := get(t, h, "/api/health"); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}
	rec := get(t, h, "/api/health")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
}
