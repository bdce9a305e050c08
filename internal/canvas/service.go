// Package canvas tracks the viewport of each story's canvas. Views live in
// memory only and reset when the process restarts.
package canvas

import (
	"context"
	"math"
	"sync"

	"github.com/bluewriter/bluewriter/internal/event"
	"github.com/bluewriter/bluewriter/pkg/types"
)

// View defaults and zoom bounds.
const (
	DefaultPanX = 0.0
	DefaultPanY = 0.0
	DefaultZoom = 1.0
	MinZoom     = 0.1
	MaxZoom     = 3.0
)

// Fit geometry: padding around the chapters, the size of one note and the
// assumed viewport.
const (
	fitPadding     = 100.0
	noteWidth      = 150.0
	noteHeight     = 100.0
	viewportWidth  = 800.0
	viewportHeight = 600.0
)

type view struct {
	panX, panY, zoom float64
}

// Service holds one view per story.
type Service struct {
	bus     *event.Bus
	minZoom float64
	maxZoom float64

	mu    sync.RWMutex
	views map[int64]*view
}

// Option configures a Service.
type Option func(*Service)

// WithZoomRange overrides the zoom bounds. Invalid ranges are ignored.
func WithZoomRange(lo, hi float64) Option {
	return func(s *Service) {
		if lo > 0 && hi >= lo {
			s.minZoom, s.maxZoom = lo, hi
		}
	}
}

// NewService creates a canvas service.
func NewService(bus *event.Bus, opts ...Option) *Service {
	s := &Service{
		bus:     bus,
		minZoom: MinZoom,
		maxZoom: MaxZoom,
		views:   make(map[int64]*view),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ZoomRange returns the zoom bounds in effect.
func (s *Service) ZoomRange() (float64, float64) {
	return s.minZoom, s.maxZoom
}

func (s *Service) clamp(zoom float64) float64 {
	return math.Max(s.minZoom, math.Min(s.maxZoom, zoom))
}

// viewLocked returns the story's view, creating the default one. Callers hold mu.
func (s *Service) viewLocked(storyID int64) *view {
	v, ok := s.views[storyID]
	if !ok {
		v = &view{panX: DefaultPanX, panY: DefaultPanY, zoom: DefaultZoom}
		s.views[storyID] = v
	}
	return v
}

// View returns the current view of a story. Unknown stories report the
// default view.
func (s *Service) View(storyID int64) types.CanvasView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.views[storyID]
	if !ok {
		return types.CanvasView{StoryID: storyID, PanX: DefaultPanX, PanY: DefaultPanY, Zoom: DefaultZoom}
	}
	return types.CanvasView{StoryID: storyID, PanX: v.panX, PanY: v.panY, Zoom: v.zoom}
}

// SetPan moves the viewport origin. Pan is unconstrained but must be finite.
func (s *Service) SetPan(ctx context.Context, storyID int64, x, y float64) (types.CanvasView, error) {
	if !finite(x) || !finite(y) {
		return types.CanvasView{}, types.Invalid("pan must be a finite number")
	}
	return s.setPan(ctx, storyID, x, y), nil
}

func (s *Service) setPan(ctx context.Context, storyID int64, x, y float64) types.CanvasView {
	s.mu.Lock()
	v := s.viewLocked(storyID)
	oldX, oldY := v.panX, v.panY
	v.panX, v.panY = x, y
	s.mu.Unlock()

	s.bus.Publish(ctx, event.New(event.CanvasPannedData{
		StoryID: storyID, OldX: oldX, OldY: oldY, NewX: x, NewY: y,
	}))
	return s.View(storyID)
}

// SetZoom sets the zoom level clamped to the zoom range. NaN and infinite
// values are rejected.
func (s *Service) SetZoom(ctx context.Context, storyID int64, zoom float64) (types.CanvasView, error) {
	if !finite(zoom) {
		return types.CanvasView{}, types.Invalid("zoom must be a finite number")
	}
	return s.setZoom(ctx, storyID, zoom), nil
}

func (s *Service) setZoom(ctx context.Context, storyID int64, zoom float64) types.CanvasView {
	zoom = s.clamp(zoom)

	s.mu.Lock()
	v := s.viewLocked(storyID)
	old := v.zoom
	v.zoom = zoom
	s.mu.Unlock()

	s.bus.Publish(ctx, event.New(event.CanvasZoomedData{StoryID: storyID, OldZoom: old, NewZoom: zoom}))
	return s.View(storyID)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FocusChapter pans so that a chapter at (x, y) sits in the middle of the
// viewport.
func (s *Service) FocusChapter(ctx context.Context, storyID int64, x, y float64) types.CanvasView {
	return s.setPan(ctx, storyID, x-viewportWidth/2, y-viewportHeight/2)
}

// FitAll zooms and pans so that every position is visible. With no
// positions the view is reset.
func (s *Service) FitAll(ctx context.Context, storyID int64, positions []types.Position) types.CanvasView {
	if len(positions) == 0 {
		return s.Reset(ctx, storyID)
	}

	minX, maxX := positions[0].X, positions[0].X
	minY, maxY := positions[0].Y, positions[0].Y
	for _, p := range positions[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	minX -= fitPadding
	minY -= fitPadding
	maxX += fitPadding + noteWidth
	maxY += fitPadding + noteHeight

	zoom := math.Min(viewportWidth/(maxX-minX), viewportHeight/(maxY-minY))
	s.setZoom(ctx, storyID, zoom)
	return s.setPan(ctx, storyID, minX, minY)
}

// Reset restores the default zoom and pan.
func (s *Service) Reset(ctx context.Context, storyID int64) types.CanvasView {
	s.setZoom(ctx, storyID, DefaultZoom)
	return s.setPan(ctx, storyID, DefaultPanX, DefaultPanY)
}

// ClearStory forgets a story's view without publishing.
func (s *Service) ClearStory(storyID int64) {
	s.mu.Lock()
	delete(s.views, storyID)
	s.mu.Unlock()
}

// ClearAll forgets every view without publishing.
func (s *Service) ClearAll() {
	s.mu.Lock()
	s.views = make(map[int64]*view)
	s.mu.Unlock()
}
