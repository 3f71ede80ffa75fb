package api

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/dissect/pkg/core/dyck"
	"github.com/matzehuels/dissect/pkg/core/flip"
	"github.com/matzehuels/dissect/pkg/core/poly"
	"github.com/matzehuels/dissect/pkg/core/sampler"
	"github.com/matzehuels/dissect/pkg/errors"
	pkgio "github.com/matzehuels/dissect/pkg/io"
	"github.com/matzehuels/dissect/pkg/render"
	"github.com/matzehuels/dissect/pkg/session"
)

type pathBody struct {
	Path string `json:"path"`
}

type decodeResponse struct {
	Valid bool   `json:"valid"`
	Arity int    `json:"arity"`
	Nodes int    `json:"nodes"`
	Tree  string `json:"tree"`
}

type validateResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

type sessionResponse struct {
	ID    string `json:"id"`
	Flips int    `json:"flips"`
	pkgio.Document
}

type flipResponse struct {
	Index int    `json:"index"`
	Old   [2]int `json:"old"`
	New   [2]int `json:"new"`
}

// newRand returns a generator for one request.
func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func (s *Server) handleRandomPath(w http.ResponseWriter, r *http.Request) {
	arity, err := intParam(r, "arity")
	if err != nil {
		s.writeError(w, err)
		return
	}
	length, err := intParam(r, "length")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := errors.ValidatePathLength(arity, length); err != nil {
		s.writeError(w, err)
		return
	}
	if length > s.opts.MaxLength {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "path length too large (max %d)", s.opts.MaxLength))
		return
	}

	p := sampler.Path(newRand(), arity, length)
	s.writeJSON(w, http.StatusOK, pathBody{Path: p.String()})
}

func (s *Server) handleDecodePath(w http.ResponseWriter, r *http.Request) {
	var body pathBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return
	}
	p, err := dyck.Parse(body.Path)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(p) > s.opts.MaxLength {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "path length too large (max %d)", s.opts.MaxLength))
		return
	}

	t, err := dyck.Decode(p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer t.Release()
	s.writeJSON(w, http.StatusOK, decodeResponse{
		Valid: true,
		Arity: dyck.InferArity(p),
		Nodes: t.Len(),
		Tree:  t.Serialize(),
	})
}

func (s *Server) handleRandomDissection(w http.ResponseWriter, r *http.Request) {
	sides, err := intParam(r, "sides")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.checkSides(sides); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, pkgio.NewDocument(poly.Random(newRand(), sides)))
}

func (s *Server) handleValidateDissection(w http.ResponseWriter, r *http.Request) {
	d, err := s.readDissection(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := d.Validate(); err != nil {
		s.writeJSON(w, http.StatusOK, validateResponse{Valid: false, Reason: errors.UserMessage(err)})
		return
	}
	s.writeJSON(w, http.StatusOK, validateResponse{Valid: true})
}

// handleNextDissection returns the triangulation after the posted one in
// enumeration order, or 404 when the posted one is the last.
func (s *Server) handleNextDissection(w http.ResponseWriter, r *http.Request) {
	d, err := s.readDissection(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := d.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	next, ok := poly.Next(d)
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "no triangulation of a %d-gon follows this one", d.Sides))
		return
	}
	s.writeJSON(w, http.StatusOK, pkgio.NewDocument(next))
}

// handleCreateSession starts a flip session from the posted triangulation,
// or from a random one when the request has ?sides= and no body.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var d *poly.Dissection
	if r.URL.Query().Has("sides") {
		sides, err := intParam(r, "sides")
		if err != nil {
			s.writeError(w, err)
			return
		}
		if err := s.checkSides(sides); err != nil {
			s.writeError(w, err)
			return
		}
		d = poly.Random(newRand(), sides)
	} else {
		var err error
		if d, err = s.readDissection(r); err != nil {
			s.writeError(w, err)
			return
		}
	}

	sess, err := session.New(d, s.opts.SessionTTL)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}
	s.logger.Info("session started", "session", sess.ID, "sides", d.Sides)
	s.writeJSON(w, http.StatusCreated, s.describe(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.describe(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "delete session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFlip(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	raw := chi.URLParam(r, "index")
	idx, err := strconv.Atoi(raw)
	if err != nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "diagonal index %q is not an integer", raw))
		return
	}

	old, next, err := sess.Flip(idx)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := flipResponse{Index: idx, Old: [2]int{old.L, old.R}, New: [2]int{next.L, next.R}}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := pkgio.WritePlot(&buf, s.snapshot(sess)); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	svg, hit, err := render.RenderCached(r.Context(), s.opts.Cache, render.PolygonDOT(s.snapshot(sess), render.Options{}), "svg")
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render session %s", sess.ID))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Write(svg)
}

// session resolves the {id} URL parameter, writing a 404 on failure.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) snapshot(sess *session.Session) *poly.Dissection {
	var d *poly.Dissection
	sess.Do(func(e *flip.Engine) error {
		d = e.Dissection()
		return nil
	})
	return d
}

func (s *Server) describe(sess *session.Session) sessionResponse {
	return sessionResponse{ID: sess.ID, Flips: sess.Flips(), Document: pkgio.NewDocument(s.snapshot(sess))}
}

func (s *Server) readDissection(r *http.Request) (*poly.Dissection, error) {
	d, err := pkgio.ReadJSON(r.Body)
	if err != nil {
		return nil, err
	}
	if err := s.checkSides(d.Sides); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Server) checkSides(sides int) error {
	if err := errors.ValidateSides(sides); err != nil {
		return err
	}
	if sides > s.opts.MaxSides {
		return errors.New(errors.ErrCodeInvalidInput, "too many sides (max %d)", s.opts.MaxSides)
	}
	return nil
}
