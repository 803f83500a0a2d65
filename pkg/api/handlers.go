package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/schemaflow/pkg/errors"
	"github.com/matzehuels/schemaflow/pkg/layout"
	"github.com/matzehuels/schemaflow/pkg/pipeline"
	"github.com/matzehuels/schemaflow/pkg/render"
	"github.com/matzehuels/schemaflow/pkg/route"
	"github.com/matzehuels/schemaflow/pkg/session"
)

// layoutRequest carries schema text and optional layout overrides. Absent
// fields keep the server's defaults.
type layoutRequest struct {
	DBML      string            `json:"dbml"`
	Direction *layout.Direction `json:"direction,omitempty"`
	NodeSep   *float64          `json:"node_sep,omitempty"`
	RankSep   *float64          `json:"rank_sep,omitempty"`
	EdgeSep   *float64          `json:"edge_sep,omitempty"`
	Margin    *float64          `json:"margin,omitempty"`
	Style     string            `json:"style,omitempty"`
	Engine    string            `json:"engine,omitempty"`
	NoLabels  bool              `json:"no_labels,omitempty"`
}

func (s *Server) options(req layoutRequest) pipeline.Options {
	o := s.opts
	o.Formats = nil
	if req.Direction != nil {
		o.Layout.Direction = *req.Direction
	}
	if req.NodeSep != nil {
		o.Layout.NodeSep = *req.NodeSep
	}
	if req.RankSep != nil {
		o.Layout.RankSep = *req.RankSep
	}
	if req.EdgeSep != nil {
		o.Layout.EdgeSep = *req.EdgeSep
	}
	if req.Margin != nil {
		o.Layout.Margin = *req.Margin
	}
	if req.Style != "" {
		o.Style = req.Style
	}
	if req.Engine != "" {
		o.Engine = req.Engine
	}
	o.NoLabels = o.NoLabels || req.NoLabels
	return o
}

func formatParam(r *http.Request) string {
	if f := r.URL.Query().Get("format"); f != "" {
		return f
	}
	return render.FormatSVG
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) parse(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sch, err := pipeline.Parse(req.DBML)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sch)
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Layout(r.Context(), req.DBML, s.options(req))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

type routeRequest struct {
	Source route.Box `json:"source"`
	Target route.Box `json:"target"`
}

func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, route.Route(req.Source, req.Target))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := s.options(req)
	opts.Formats = []string{formatParam(r)}
	res, err := s.runner.Execute(r.Context(), req.DBML, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeArtifact(w, opts.Formats[0], res.Artifacts)
}

func (s *Server) writeArtifact(w http.ResponseWriter, format string, artifacts map[string][]byte) {
	w.Header().Set("Content-Type", render.ContentType(format))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifacts[format]); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}

// sessionView is a stored session together with its layout and routed
// edges, as returned by every session endpoint.
type sessionView struct {
	*session.Session
	Layout layout.Result  `json:"layout"`
	Routes []route.Routed `json:"routes"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := s.options(req)
	live, err := pipeline.NewSession(s.runner, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := live.Update(r.Context(), req.DBML); err != nil {
		s.writeError(w, r, err)
		return
	}
	st := live.State()
	sess := session.New(st.Text, live.Direction(), st.Positions, s.sessionTTL)
	cfg := opts.Layout
	sess.Config = &cfg
	s.save(w, r, http.StatusCreated, sess, live)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, live, err := s.load(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.view(r.Context(), sess, live)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

// updateSession replaces the schema text. A schema that fails leaves the
// stored session untouched.
func (s *Server) updateSession(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, live, err := s.load(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := live.Update(r.Context(), req.DBML); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.save(w, r, http.StatusOK, sess, live)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !session.ValidID(id) {
		s.writeError(w, r, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id))
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type relayoutRequest struct {
	Direction layout.Direction `json:"direction"`
}

func (s *Server) relayoutSession(w http.ResponseWriter, r *http.Request) {
	var req relayoutRequest
	if r.ContentLength != 0 {
		if err := decode(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	sess, live, err := s.load(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := live.Relayout(r.Context(), req.Direction); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.save(w, r, http.StatusOK, sess, live)
}

type moveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) moveNode(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, live, err := s.load(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := live.Move(chi.URLParam(r, "node"), req.X, req.Y); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.save(w, r, http.StatusOK, sess, live)
}

func (s *Server) renderSession(w http.ResponseWriter, r *http.Request) {
	_, live, err := s.load(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := s.opts
	opts.Formats = []string{formatParam(r)}
	if style := r.URL.Query().Get("style"); style != "" {
		opts.Style = style
	}
	artifacts, err := live.Render(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeArtifact(w, opts.Formats[0], artifacts)
}

// load fetches the session named in the URL and rebuilds its live diagram.
func (s *Server) load(r *http.Request) (*session.Session, *pipeline.Session, error) {
	id := chi.URLParam(r, "id")
	if !session.ValidID(id) {
		return nil, nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "load session")
	}
	if sess == nil {
		return nil, nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}

	opts := s.opts
	opts.Formats = nil
	if sess.Config != nil {
		opts.Layout = *sess.Config
	}
	live, err := pipeline.NewSession(s.runner, opts)
	if err != nil {
		return nil, nil, err
	}
	if err := live.Restore(r.Context(), sess.Text, sess.Direction, sess.Positions); err != nil {
		return nil, nil, err
	}
	return sess, live, nil
}

// save writes the live diagram back into sess, stores it and answers with
// its view.
func (s *Server) save(w http.ResponseWriter, r *http.Request, status int, sess *session.Session, live *pipeline.Session) {
	st := live.State()
	sess.Text = st.Text
	sess.Direction = live.Direction()
	sess.Positions = st.Positions
	if sess.Config != nil {
		sess.Config.Direction = sess.Direction
	}
	sess.Touch(s.sessionTTL)
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "save session"))
		return
	}
	view, err := s.view(r.Context(), sess, live)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, status, view)
}

func (s *Server) view(ctx context.Context, sess *session.Session, live *pipeline.Session) (sessionView, error) {
	routes, err := live.Routes(ctx)
	if err != nil {
		return sessionView{}, err
	}
	return sessionView{Session: sess, Layout: live.State().Layout, Routes: routes}, nil
}
