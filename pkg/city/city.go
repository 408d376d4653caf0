// Package city owns a generated city: it runs the building and subway
// generators in order, validates the combined layout, and serves read-only
// queries once the layout is built.
package city

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/ChicagoDave/gnosis/pkg/geo"
	"github.com/ChicagoDave/gnosis/pkg/layout"
	"github.com/ChicagoDave/gnosis/pkg/spec"
	"github.com/ChicagoDave/gnosis/pkg/validation"
	"github.com/ChicagoDave/gnosis/pkg/viewport"
)

// State is the lifecycle stage of a Layout.
type State int

const (
	Unbuilt State = iota
	Generating
	Built
	Failed
)

func (s State) String() string {
	switch s {
	case Unbuilt:
		return "unbuilt"
	case Generating:
		return "generating"
	case Built:
		return "built"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Option configures a Layout.
type Option func(*Layout)

// WithSource injects the random source. It overrides the config seed.
func WithSource(src geo.Source) Option {
	return func(l *Layout) { l.src = src }
}

// WithSeed overrides the config seed.
func WithSeed(seed uint64) Option {
	return func(l *Layout) {
		l.cfg.Seed = seed
		l.src = nil
	}
}

// WithLogger sets the logger. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Layout) { l.logger = logger }
}

// Layout is one city instance. It is generated once; regeneration needs a
// new Layout. A Built layout is immutable and safe for concurrent readers.
type Layout struct {
	cfg    spec.CityConfig
	src    geo.Source
	logger *slog.Logger

	state State
	err   error

	bounds    geo.Rect
	groundY   int
	buildings []layout.Building
	segments  []layout.SubwaySegment
	onramps   []layout.Onramp
	viewport  geo.Rect
	report    *validation.Report
}

// New creates an Unbuilt layout for cfg.
func New(cfg spec.CityConfig, opts ...Option) *Layout {
	l := &Layout{
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.src == nil {
		l.src = geo.NewSource(l.cfg.Seed)
	}
	l.logger = l.logger.With("component", "city", "city", cfg.Name)
	return l
}

// Build creates a layout and generates it.
func Build(cfg spec.CityConfig, opts ...Option) (*Layout, error) {
	l := New(cfg, opts...)
	if err := l.Generate(); err != nil {
		return nil, err
	}
	return l, nil
}

type result struct {
	bounds    geo.Rect
	groundY   int
	buildings []layout.Building
	segments  []layout.SubwaySegment
	onramps   []layout.Onramp
	viewport  geo.Rect
	report    *validation.Report
}

// Generate runs the generators and validation. It is valid only once, from
// Unbuilt. On failure the layout moves to Failed and exposes nothing.
func (l *Layout) Generate() error {
	if l.state != Unbuilt {
		return ErrAlreadyGenerated
	}
	l.state = Generating
	start := time.Now()

	l.logger.Debug("Generating city layout",
		"seed", l.cfg.Seed,
		"length", l.cfg.City.Length,
		"height", l.cfg.City.Height,
	)

	res, err := l.generate()
	if err != nil {
		l.state = Failed
		l.err = err
		l.logger.Warn("City layout generation failed", "error", err)
		return err
	}

	l.bounds = res.bounds
	l.groundY = res.groundY
	l.buildings = res.buildings
	l.segments = res.segments
	l.onramps = res.onramps
	l.viewport = res.viewport
	l.report = res.report
	l.state = Built

	l.logger.Info("City layout built",
		"buildings", len(res.buildings),
		"segments", len(res.segments),
		"onramps", len(res.onramps),
		"viewport", res.viewport.String(),
		"duration", time.Since(start),
	)
	return nil
}

func (l *Layout) generate() (*result, error) {
	report := validation.ValidateConfig(l.cfg)
	if err := report.ConfigErr(); err != nil {
		return nil, err
	}

	bounds := geo.Bounds(l.cfg.City.Length, l.cfg.City.Height)
	groundY := bounds.Bottom() - l.cfg.Subway.Height

	// Subway placement depends on the buildings, so they go first.
	buildings, err := layout.GenerateBuildings(bounds, groundY, l.cfg.Buildings, l.src)
	if err != nil {
		return nil, fmt.Errorf("generating buildings: %w", err)
	}
	segments, onramps, err := layout.GenerateSubway(bounds, l.cfg.Subway, buildings)
	if err != nil {
		return nil, fmt.Errorf("generating subway: %w", err)
	}
	view, err := viewport.Resolve(l.cfg.FovOrZero(), bounds)
	if err != nil {
		return nil, fmt.Errorf("resolving viewport: %w", err)
	}

	layoutReport := Validate(bounds, buildings, segments, onramps, view)
	if !layoutReport.Valid {
		first := layoutReport.Errors[0]
		return nil, &InvariantViolation{
			Entity:  first.Path,
			Message: first.Message,
			Report:  layoutReport,
		}
	}
	report.Merge(layoutReport)

	return &result{
		bounds:    bounds,
		groundY:   groundY,
		buildings: buildings,
		segments:  segments,
		onramps:   onramps,
		viewport:  view,
		report:    report,
	}, nil
}

// State returns the lifecycle stage.
func (l *Layout) State() State { return l.state }

// Err returns the generation failure, if any.
func (l *Layout) Err() error { return l.err }

// Config returns the configuration the layout was created with.
func (l *Layout) Config() spec.CityConfig { return l.cfg }

// Buildings returns the buildings left to right in generation order.
func (l *Layout) Buildings() ([]layout.Building, error) {
	if l.state != Built {
		return nil, ErrNotBuilt
	}
	return slices.Clone(l.buildings), nil
}

// SubwaySegments returns the trackway segments left to right.
func (l *Layout) SubwaySegments() ([]layout.SubwaySegment, error) {
	if l.state != Built {
		return nil, ErrNotBuilt
	}
	return slices.Clone(l.segments), nil
}

// Onramps returns the placed onramps left to right.
func (l *Layout) Onramps() ([]layout.Onramp, error) {
	if l.state != Built {
		return nil, ErrNotBuilt
	}
	return slices.Clone(l.onramps), nil
}

// Bounds returns the city rectangle [0, length] x [0, height].
func (l *Layout) Bounds() (geo.Rect, error) {
	if l.state != Built {
		return geo.Rect{}, ErrNotBuilt
	}
	return l.bounds, nil
}

// Viewport returns the resolved initial viewport.
func (l *Layout) Viewport() (geo.Rect, error) {
	if l.state != Built {
		return geo.Rect{}, ErrNotBuilt
	}
	return l.viewport, nil
}

// GroundY returns the street level line.
func (l *Layout) GroundY() (int, error) {
	if l.state != Built {
		return 0, ErrNotBuilt
	}
	return l.groundY, nil
}

// Report returns the merged config and layout validation report, which
// carries the non-fatal warnings and info of a successful build.
func (l *Layout) Report() (*validation.Report, error) {
	if l.state != Built {
		return nil, ErrNotBuilt
	}
	return l.report, nil
}
