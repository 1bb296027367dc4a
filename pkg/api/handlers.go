package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/masonry/pkg/buildinfo"
	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/grid"
	"github.com/matzehuels/masonry/pkg/items"
	"github.com/matzehuels/masonry/pkg/observability"
	"github.com/matzehuels/masonry/pkg/pipeline"
	"github.com/matzehuels/masonry/pkg/render"
	"github.com/matzehuels/masonry/pkg/session"
)

var errEmptyBody = merrors.New(merrors.ErrCodeInvalidInput, "request body is empty")

// layoutRequest creates a session or drives a stateless render.
type layoutRequest struct {
	Manifest    *items.Manifest `json:"manifest,omitempty"`
	ManifestURL string          `json:"manifest_url,omitempty"`

	Columns       int     `json:"columns"`
	Width         float64 `json:"width"`
	CaptionHeight float64 `json:"caption_height,omitempty"`

	Format string `json:"format,omitempty"`
	Labels bool   `json:"labels,omitempty"`
}

// computeRequest changes the geometry used by the next compute.
type computeRequest struct {
	Columns int     `json:"columns"`
	Width   float64 `json:"width"`
}

type layoutSummary struct {
	ID        string    `json:"id"`
	Items     int       `json:"items"`
	Computed  bool      `json:"computed"`
	Columns   int       `json:"columns,omitempty"`
	Width     float64   `json:"width,omitempty"`
	Size      grid.Size `json:"size"`
	ExpiresAt time.Time `json:"expires_at"`
}

type visibleResponse struct {
	Viewport   grid.Rect             `json:"viewport"`
	Placements []render.PlacementDoc `json:"placements"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Current()})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := s.manifest(r, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	// The caption override belongs to the session so later computes see it.
	if req.CaptionHeight > 0 {
		cp := *m
		cp.CaptionHeight = req.CaptionHeight
		m = &cp
	}

	sess, err := session.New(m, s.ttl)
	if err != nil {
		writeError(w, err)
		return
	}
	e, err := sess.Engine(grid.WithLogger(s.logger))
	if err != nil {
		writeError(w, err)
		return
	}
	opts := pipeline.Options{
		Columns:       req.Columns,
		Width:         req.Width,
		CaptionHeight: req.CaptionHeight,
		Logger:        s.logger,
	}
	if _, err := pipeline.ComputeEngine(r.Context(), e, m, opts); err != nil {
		writeError(w, err)
		return
	}
	sess.Capture(e)

	if err := s.store.Set(r.Context(), sess); err != nil {
		writeError(w, merrors.Wrap(merrors.ErrCodeInternal, err, "store session"))
		return
	}
	s.logger.Info("created layout", "id", sess.ID, "items", m.Len())
	writeJSON(w, http.StatusCreated, summarize(sess, e))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, e, ok := s.load(w, r)
	if !ok {
		return
	}
	if !e.Computed() {
		writeError(w, merrors.New(merrors.ErrCodeNotComputed, "layout %s has not been computed", sess.ID))
		return
	}
	writeJSON(w, http.StatusOK, render.BuildDocument(e.State(), render.WithItems(sess.Manifest)))
}

func (s *Server) handleSize(w http.ResponseWriter, r *http.Request) {
	_, e, ok := s.load(w, r)
	if !ok {
		return
	}
	size, err := e.ContentSize()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, size)
}

func (s *Server) handleVisible(w http.ResponseWriter, r *http.Request) {
	q, err := parseRect(r, true)
	if err != nil {
		writeError(w, err)
		return
	}
	sess, e, ok := s.load(w, r)
	if !ok {
		return
	}

	start := time.Now()
	ps, err := e.PlacementsIntersecting(*q)
	if err != nil {
		writeError(w, err)
		return
	}
	observability.Layout().OnQuery(r.Context(), len(ps), time.Since(start))

	writeJSON(w, http.StatusOK, visibleResponse{
		Viewport:   *q,
		Placements: render.PlacementDocs(ps, render.WithItems(sess.Manifest)),
	})
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	q, err := parseRect(r, false)
	if err != nil {
		writeError(w, err)
		return
	}
	sess, e, ok := s.load(w, r)
	if !ok {
		return
	}
	if !e.Computed() {
		writeError(w, merrors.New(merrors.ErrCodeNotComputed, "layout %s has not been computed", sess.ID))
		return
	}

	opts := []render.Option{render.WithItems(sess.Manifest)}
	if labels, _ := strconv.ParseBool(r.URL.Query().Get("labels")); labels {
		opts = append(opts, render.WithLabels())
	}
	if q != nil {
		opts = append(opts, render.WithViewport(*q))
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(render.RenderSVG(e.State(), opts...))
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var req computeRequest
	if err := s.decode(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, err)
		return
	}
	sess, e, ok := s.load(w, r)
	if !ok {
		return
	}

	// Default to the session's current geometry.
	if st := e.State(); st != nil {
		if req.Columns == 0 {
			req.Columns = st.Columns()
		}
		if req.Width == 0 {
			req.Width = st.Width()
		}
	}

	opts := pipeline.Options{Columns: req.Columns, Width: req.Width, Logger: s.logger}
	if _, err := pipeline.ComputeEngine(r.Context(), e, sess.Manifest, opts); err != nil {
		writeError(w, err)
		return
	}
	s.save(w, r, sess, e)
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	sess, e, ok := s.load(w, r)
	if !ok {
		return
	}
	e.Invalidate()
	s.save(w, r, sess, e)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, merrors.Wrap(merrors.ErrCodeInternal, err, "delete session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := s.manifest(r, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Format == "" {
		req.Format = pipeline.FormatSVG
	}

	res, err := s.runner.Execute(r.Context(), m, pipeline.Options{
		Columns:       req.Columns,
		Width:         req.Width,
		CaptionHeight: req.CaptionHeight,
		Formats:       []string{req.Format},
		Labels:        req.Labels,
		Logger:        s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType(req.Format))
	w.Header().Set("X-Layout-Cache", cacheStatus(res.CacheInfo.LayoutHit))
	w.Header().Set("X-Render-Cache", cacheStatus(res.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[req.Format])
}

// load fetches the session named in the URL and restores its engine,
// writing an error response on failure.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (*session.Session, *grid.Engine, bool) {
	id := chi.URLParam(r, "id")
	if !session.ValidID(id) {
		writeError(w, merrors.New(merrors.ErrCodeSessionNotFound, "layout %q not found", id))
		return nil, nil, false
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, merrors.Wrap(merrors.ErrCodeInternal, err, "load session"))
		return nil, nil, false
	}
	if sess == nil {
		writeError(w, merrors.New(merrors.ErrCodeSessionNotFound, "layout %q not found", id))
		return nil, nil, false
	}
	e, err := sess.Engine(grid.WithLogger(s.logger))
	if err != nil {
		writeError(w, err)
		return nil, nil, false
	}
	return sess, e, true
}

// save captures the engine into the session, stores it with a renewed TTL
// and writes the summary.
func (s *Server) save(w http.ResponseWriter, r *http.Request, sess *session.Session, e *grid.Engine) {
	sess.Capture(e)
	sess.Touch(s.ttl)
	if err := s.store.Set(r.Context(), sess); err != nil {
		writeError(w, merrors.Wrap(merrors.ErrCodeInternal, err, "store session"))
		return
	}
	writeJSON(w, http.StatusOK, summarize(sess, e))
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return merrors.New(merrors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return merrors.Wrap(merrors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}

// manifest resolves the inline manifest or downloads manifest_url.
func (s *Server) manifest(r *http.Request, req *layoutRequest) (*items.Manifest, error) {
	switch {
	case req.Manifest != nil && req.ManifestURL != "":
		return nil, merrors.New(merrors.ErrCodeInvalidInput, "set either manifest or manifest_url, not both")
	case req.Manifest != nil:
		if err := req.Manifest.Validate(); err != nil {
			return nil, err
		}
		return req.Manifest, nil
	case req.ManifestURL != "":
		return s.fetcher.Fetch(r.Context(), req.ManifestURL)
	}
	return nil, merrors.New(merrors.ErrCodeInvalidInput, "manifest or manifest_url is required")
}

func summarize(sess *session.Session, e *grid.Engine) layoutSummary {
	sum := layoutSummary{
		ID:        sess.ID,
		Items:     sess.Manifest.Len(),
		Computed:  e.Computed(),
		ExpiresAt: sess.ExpiresAt,
	}
	if st := e.State(); st != nil {
		sum.Columns = st.Columns()
		sum.Width = st.Width()
		sum.Size = st.ContentSize()
	}
	return sum
}

// parseRect reads x, y, w and h query parameters. When required is false and
// none are present it returns nil.
func parseRect(r *http.Request, required bool) (*grid.Rect, error) {
	q := r.URL.Query()
	if !required && q.Get("x") == "" && q.Get("y") == "" && q.Get("w") == "" && q.Get("h") == "" {
		return nil, nil
	}

	var vals [4]float64
	for i, name := range [...]string{"x", "y", "w", "h"} {
		raw := q.Get(name)
		if raw == "" {
			return nil, merrors.New(merrors.ErrCodeInvalidInput, "query parameter %q is required", name)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, merrors.New(merrors.ErrCodeInvalidInput, "query parameter %q must be a number, got %q", name, raw)
		}
		vals[i] = v
	}
	return &grid.Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	}
	return "image/svg+xml"
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
