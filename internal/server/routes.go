package server

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	cerrors "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/httputil"
	"github.com/matzehuels/canopy/pkg/observability"
	"github.com/matzehuels/canopy/pkg/render/svg"
	"github.com/matzehuels/canopy/pkg/tree"
	"github.com/matzehuels/canopy/pkg/viewport"
	"github.com/matzehuels/canopy/pkg/widget"
)

// maxFrames bounds ?n= on frame and reset sampling.
const maxFrames = 120

type createRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type sessionResponse struct {
	ID     string        `json:"id"`
	Update widget.Update `json:"update"`
}

type viewportRequest struct {
	DX   float64             `json:"dx"`
	DY   float64             `json:"dy"`
	Zoom float64             `json:"zoom"`
	X    float64             `json:"x"`
	Y    float64             `json:"y"`
	Set  *viewport.Transform `json:"set,omitempty"`
}

type viewportResponse struct {
	View      viewport.Transform `json:"view"`
	Transform string             `json:"transform"`
}

type resetResponse struct {
	Identity   bool     `json:"identity"`
	Duration   int64    `json:"duration"`
	Transforms []string `json:"transforms"`
}

type framesResponse struct {
	Duration int64    `json:"duration"`
	Frames   []string `json:"frames"`
}

func (s *Server) routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/events", s.handleEvents)
		r.Post("/sessions", s.handleCreate)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/svg", s.handleSVG)
			r.Get("/frames", s.handleFrames)
			r.Post("/viewport", s.handleViewport)
			r.Post("/reset", s.handleReset)
			r.Get("/nodes/{node}", s.handleInspect)
			r.Post("/nodes/{node}/toggle", s.handleToggle)
		})
	})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if httputil.Status(cerrors.GetCode(err)) >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	httputil.WriteError(w, err)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := svg.Page(w, svg.PageOptions{
		Title:    s.cfg.Title,
		API:      "/api",
		Frames:   s.cfg.Frames,
		Duration: s.hub.opts.Duration,
		Watch:    s.reloader != nil,
	})
	if err != nil {
		s.logger.Error("write page", "error", err)
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.reloader == nil {
		s.fail(w, r, cerrors.New(cerrors.ErrCodeNotFound, "dataset is not watched"))
		return
	}
	s.reloader.ServeHTTP(w, r)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	id, u, err := s.hub.Create(r.Context(), geom.Size{W: req.Width, H: req.Height})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, sessionResponse{ID: id, Update: u})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var resp sessionResponse
	err := s.hub.View(r.Context(), id, func(wg *widget.Widget) error {
		resp = sessionResponse{ID: id, Update: wg.Last()}
		resp.Update.Transform = wg.Transform()
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.hub.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := s.hub.View(r.Context(), chi.URLParam(r, "id"), func(wg *widget.Widget) error {
		return svg.Render(&buf, wg.Tree(), wg.Settled(), s.svgOptions(wg)...)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(buf.Bytes())
}

func (s *Server) svgOptions(wg *widget.Widget) []svg.Option {
	return []svg.Option{svg.WithTransform(wg.Transform()), svg.WithSize(wg.Surface()), svg.WithTitle(s.cfg.Title)}
}

func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	n, err := frameCount(r, s.cfg.Frames)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var resp framesResponse
	err = s.hub.View(r.Context(), chi.URLParam(r, "id"), func(wg *widget.Widget) error {
		opts := s.svgOptions(wg)
		for _, f := range wg.Frames(n) {
			resp.Frames = append(resp.Frames, string(svg.RenderBytes(wg.Tree(), f, opts...)))
		}
		resp.Duration = wg.Duration().Milliseconds()
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	var t viewport.Transform
	err := s.hub.Update(r.Context(), chi.URLParam(r, "id"), func(wg *widget.Widget) error {
		switch {
		case req.Set != nil:
			t = wg.SetTransform(*req.Set)
		case req.Zoom > 0:
			t = wg.Zoom(req.Zoom, geom.Point{X: req.X, Y: req.Y})
		default:
			t = wg.Pan(req.DX, req.DY)
		}
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, viewportResponse{View: t, Transform: t.String()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	n, err := frameCount(r, s.cfg.Frames)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var tw viewport.Tween
	err = s.hub.Update(r.Context(), chi.URLParam(r, "id"), func(wg *widget.Widget) error {
		tw = wg.Reset(r.Context())
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := resetResponse{Identity: tw.Identity(), Duration: tw.Duration.Milliseconds()}
	for _, t := range tw.Sample(n) {
		resp.Transforms = append(resp.Transforms, t.String())
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	node, err := nodeID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in widget.Inspection
	err = s.hub.View(r.Context(), chi.URLParam(r, "id"), func(wg *widget.Widget) error {
		var err error
		in, err = wg.Inspect(node)
		return err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, in)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	node, err := nodeID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var u widget.Update
	err = s.hub.Update(r.Context(), chi.URLParam(r, "id"), func(wg *widget.Widget) error {
		var err error
		u, err = wg.Toggle(r.Context(), node)
		return err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func nodeID(r *http.Request) (tree.ID, error) {
	raw := chi.URLParam(r, "node")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, cerrors.New(cerrors.ErrCodeInvalidInput, "invalid node id %q", raw)
	}
	return tree.ID(n), nil
}

func frameCount(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxFrames {
		return 0, cerrors.New(cerrors.ErrCodeInvalidInput, "n must be between 1 and %d", maxFrames)
	}
	return n, nil
}
