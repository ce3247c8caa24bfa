package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/forcegraph/pkg/buildinfo"
	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/interact"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/render/sink"
	"github.com/matzehuels/forcegraph/pkg/session"
	"github.com/matzehuels/forcegraph/pkg/viz"
)

// =============================================================================
// Request and Response Bodies
// =============================================================================

type createSessionRequest struct {
	Snapshot graph.Snapshot `json:"snapshot"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
}

type createSessionResponse struct {
	ID string `json:"id"`
	viz.Result
}

type viewportRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type pointerRequest struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"delta_y,omitempty"`
	Factor float64 `json:"factor,omitempty"`
}

type pointerResponse struct {
	Mode      string             `json:"mode"`
	Transform interact.Transform `json:"transform"`
}

type renderRequest struct {
	Snapshot graph.Snapshot `json:"snapshot"`
	pipeline.Options
}

// Content types of scene and render formats.
var contentTypes = map[string]string{
	pipeline.FormatSVG:   "image/svg+xml",
	pipeline.FormatPNG:   "image/png",
	pipeline.FormatPDF:   "application/pdf",
	pipeline.FormatJSON:  "application/json",
	pipeline.FormatScene: "application/json",
	pipeline.FormatDOT:   "text/vnd.graphviz",
}

// =============================================================================
// Operational
// =============================================================================

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Version,
		"sessions": s.sessions.Len(),
	})
}

// =============================================================================
// Sessions
// =============================================================================

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	vp := viewportOrDefault(req.Width, req.Height)

	view, err := viz.NewView(vp, s.cfg.Viz(),
		viz.WithLogger(s.logger),
		viz.WithPalette(s.cfg.NewPalette()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := view.SetSnapshot(req.Snapshot)
	if err != nil {
		view.Teardown()
		s.writeError(w, r, err)
		return
	}
	sess, err := s.sessions.Create(view)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if res.Dropped > 0 {
		s.logger.Warn("dropped links with unknown endpoints", "session", sess.ID, "count", res.Dropped)
	}
	writeJSON(w, http.StatusCreated, createSessionResponse{ID: sess.ID, Result: res})
}

// withSession resolves the {id} URL parameter and runs fn on its loop.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*viz.View) error) bool {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return false
	}
	if err := sess.Do(r.Context(), fn); err != nil {
		s.writeError(w, r, err)
		return false
	}
	return true
}

func (s *Server) session(r *http.Request) (*session.Session, error) {
	return s.sessions.Get(chi.URLParam(r, "id"))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	var st viz.Stats
	if s.withSession(w, r, func(v *viz.View) error {
		st = v.Stats()
		return nil
	}) {
		writeJSON(w, http.StatusOK, st)
	}
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getScene(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "svg" && format != "layout" {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidFormat, "unsupported scene format %q (json, svg or layout)", format))
		return
	}

	var scene render.Scene
	var layout graph.Layout
	if !s.withSession(w, r, func(v *viz.View) error {
		scene = v.Scene()
		if format == "layout" {
			layout = v.Layout()
		}
		return nil
	}) {
		return
	}

	switch format {
	case "svg":
		opts := []sink.SVGOption{sink.WithTransform()}
		if bg := s.cfg.Render.Background; bg != "" {
			opts = append(opts, sink.WithBackground(bg))
		}
		writeBytes(w, contentTypes[pipeline.FormatSVG], sink.RenderSVG(scene, opts...))
	case "layout":
		data, err := graph.MarshalLayout(layout)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeBytes(w, contentTypes[pipeline.FormatJSON], data)
	default:
		data, err := sink.RenderJSON(scene)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeBytes(w, contentTypes[pipeline.FormatScene], data)
	}
}

func (s *Server) putSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := graph.ReadSnapshot(r.Body)
	if err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidSnapshot, err, "invalid snapshot body"))
		return
	}
	var res viz.Result
	if s.withSession(w, r, func(v *viz.View) error {
		var err error
		res, err = v.SetSnapshot(snap)
		return err
	}) {
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) putViewport(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	vp := force.Viewport{Width: req.Width, Height: req.Height}
	if s.withSession(w, r, func(v *viz.View) error { return v.Resize(vp) }) {
		writeJSON(w, http.StatusOK, vp)
	}
}

func (s *Server) postPointer(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	apply, err := pointerAction(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var resp pointerResponse
	if s.withSession(w, r, func(v *viz.View) error {
		if err := apply(v); err != nil {
			return err
		}
		resp = pointerResponse{Mode: v.Mode().String(), Transform: v.Transform()}
		return nil
	}) {
		writeJSON(w, http.StatusOK, resp)
	}
}

// pointerAction maps a pointer request to the matching view call.
func pointerAction(req pointerRequest) (func(*viz.View) error, error) {
	switch req.Type {
	case viz.PointerDown:
		return func(v *viz.View) error { return v.PointerDown(req.X, req.Y) }, nil
	case viz.PointerMove:
		return func(v *viz.View) error { return v.PointerMove(req.X, req.Y) }, nil
	case viz.PointerUp:
		return func(v *viz.View) error { return v.PointerUp(req.X, req.Y) }, nil
	case viz.PointerWheel:
		return func(v *viz.View) error { return v.Wheel(req.X, req.Y, req.DeltaY) }, nil
	case viz.PointerPinch:
		return func(v *viz.View) error { return v.Pinch(req.X, req.Y, req.Factor) }, nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidPointer, "unknown pointer event type %q", req.Type)
	}
}

// =============================================================================
// Headless Render
// =============================================================================

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidFormat, err, "invalid format"))
		return
	}

	opts := req.Options
	opts.Formats = []string{format}
	opts.Logger = s.logger
	cfg := s.cfg.Viz()
	opts.Config = &cfg
	opts.Palette = s.cfg.NewPalette()
	if opts.MaxSteps == 0 {
		opts.MaxSteps = s.cfg.Simulation.MaxSteps
	}
	if opts.Padding == 0 {
		opts.Padding = s.cfg.Render.Padding
	}
	if opts.Background == "" {
		opts.Background = s.cfg.Render.Background
	}

	result, err := s.runner.Execute(r.Context(), req.Snapshot, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Layout-Cache", hitOrMiss(result.CacheInfo.LayoutHit))
	w.Header().Set("X-Render-Cache", hitOrMiss(result.CacheInfo.RenderHit))
	writeBytes(w, contentTypes[format], result.Artifacts[format])
}

func hitOrMiss(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func viewportOrDefault(width, height float64) force.Viewport {
	if width == 0 {
		width = pipeline.DefaultWidth
	}
	if height == 0 {
		height = pipeline.DefaultHeight
	}
	return force.Viewport{Width: width, Height: height}
}
