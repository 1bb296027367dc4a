// Package session keeps computed layouts alive between API requests.
//
// A session pairs an item manifest with the grid engine's cached layout, so a
// client can create a layout once and then issue many visibility queries
// against it while scrolling. Sessions expire after a TTL.
//
// Store backends:
//   - [MemoryStore]: in-process, for development and tests
//   - [RedisStore]: shared across API instances
//   - [FileStore]: JSON files on disk, for a single long-running server
//
// # Usage
//
//	sess, err := session.New(manifest, session.DefaultTTL)
//	eng, _ := sess.Engine()
//	eng.Compute(input)
//	sess.Capture(eng)
//	store.Set(ctx, sess)
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/grid"
	"github.com/matzehuels/masonry/pkg/items"
)

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// Snapshot is the serialized form of an engine's cached layout.
type Snapshot struct {
	Columns    int              `json:"columns"`
	Width      float64          `json:"width"`
	Placements []grid.Placement `json:"placements"`
}

// Session stores one client's layout.
type Session struct {
	ID       string          `json:"id"`
	Manifest *items.Manifest `json:"manifest"`

	// Layout is nil until the first successful compute. After an
	// invalidation it holds the geometry with no placements.
	Layout *Snapshot `json:"layout,omitempty"`

	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates a session for m with a fresh UUID.
func New(m *items.Manifest, ttl time.Duration) (*Session, error) {
	if m == nil {
		return nil, merrors.New(merrors.ErrCodeInvalidInput, "session requires a manifest")
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Manifest:  m,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}

// ValidID reports whether id is a well-formed session ID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session's lifetime by ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// Engine returns a grid engine loaded with the session's layout.
func (s *Session) Engine(opts ...grid.Option) (*grid.Engine, error) {
	e := grid.NewEngine(opts...)
	if s.Layout == nil {
		return e, nil
	}
	st, err := grid.Restore(s.Layout.Columns, s.Layout.Width, s.Layout.Placements)
	if err != nil {
		return nil, merrors.Wrap(merrors.ErrCodeInternal, err, "restore session %s", s.ID)
	}
	e.Load(st)
	return e, nil
}

// Capture records the engine's current layout in the session.
func (s *Session) Capture(e *grid.Engine) {
	st := e.State()
	if st == nil {
		s.Layout = nil
		return
	}
	s.Layout = &Snapshot{
		Columns:    st.Columns(),
		Width:      st.Width(),
		Placements: st.Placements(),
	}
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session until its ExpiresAt.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (may be a no-op for Redis).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
