package grid

import (
	"github.com/charmbracelet/log"

	merrors "github.com/matzehuels/masonry/pkg/errors"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug events. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine owns the cached layout of a single hosting view.
//
// Compute runs at most once per invalidation: while the cache holds
// placements, further calls return the cached State untouched. Callers must
// call Invalidate when the data set or the container geometry changes.
type Engine struct {
	state  *State
	logger *log.Logger
}

// NewEngine creates an empty engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: log.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute populates the cache from in, unless the cache already holds
// placements, in which case the cached State is returned and in is ignored.
// On error the engine is left exactly as it was.
func (e *Engine) Compute(in Input) (*State, error) {
	if e.state != nil && e.state.Len() > 0 {
		e.logger.Debug("layout cached, skipping compute", "items", e.state.Len())
		return e.state, nil
	}

	s, err := Compute(in)
	if err != nil {
		return nil, err
	}
	e.state = s

	e.logger.Debug("computed layout",
		"items", s.Len(),
		"columns", s.Columns(),
		"content_height", s.ContentHeight())
	return s, nil
}

// Load replaces the cache with a previously computed State.
func (e *Engine) Load(s *State) {
	e.state = s
}

// State returns the cached State, or nil before the first Compute.
// After Invalidate it returns an empty State.
func (e *Engine) State() *State { return e.state }

// Computed reports whether the engine holds a State.
func (e *Engine) Computed() bool { return e.state != nil }

// ContentSize returns the size of the scrollable content area.
// It fails with NOT_COMPUTED before the first successful Compute.
func (e *Engine) ContentSize() (Size, error) {
	if e.state == nil {
		return Size{}, errNotComputed("content size")
	}
	return e.state.ContentSize(), nil
}

// PlacementsIntersecting returns every cached placement overlapping q in
// index order. It fails with NOT_COMPUTED before the first successful Compute.
func (e *Engine) PlacementsIntersecting(q Rect) ([]Placement, error) {
	if e.state == nil {
		return nil, errNotComputed("placements")
	}
	return e.state.PlacementsIntersecting(q), nil
}

// Invalidate clears the cached placements and resets the content height to
// zero so the next Compute starts fresh. Size and visibility queries issued
// before that Compute report an empty layout rather than NOT_COMPUTED.
func (e *Engine) Invalidate() {
	if e.state == nil {
		return
	}
	e.logger.Debug("invalidated layout", "items", e.state.Len())
	e.state = &State{columns: e.state.columns, width: e.state.width}
}

func errNotComputed(what string) error {
	return merrors.New(merrors.ErrCodeNotComputed, "%s requested before layout was computed", what)
}
