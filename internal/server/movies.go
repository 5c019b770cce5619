package server

import (
	"context"
	"net/http"

	"github.com/desertthunder/reelist/internal/movies"
	"github.com/desertthunder/reelist/internal/session"
)

const maxBodyBytes = 1 << 20

// MoviesHandler serves a user's movie list at /api/movies.
//
// Requests must already carry a session (see [RequireSession]).
type MoviesHandler struct {
	reader *movies.Reader
	writer *movies.Writer
	errs   errorWriter
}

func NewMoviesHandler(reader *movies.Reader, writer *movies.Writer, errs errorWriter) *MoviesHandler {
	return &MoviesHandler{reader: reader, writer: writer, errs: errs}
}

func (h *MoviesHandler) Routes() []Route {
	return []Route{{Path: "/api/movies", Methods: []string{http.MethodGet, http.MethodPost}}}
}

func (h *MoviesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer h.errs.recoverInto(w, r)

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.list(w, r)
	case http.MethodPost:
		h.save(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, movies.Body{Error: "Method not allowed"})
	}
}

// list answers GET with the three buckets.
func (h *MoviesHandler) list(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		h.errs.write(w, r, movies.Unauthorized(nil))
		return
	}

	buckets, err := h.reader.List(r.Context(), s.UserID)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

// save answers POST with the stored entry.
//
// The user is resolved before the body is read, so identity failures win over bad bodies.
func (h *MoviesHandler) save(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		h.errs.write(w, r, movies.Unauthorized(nil))
		return
	}
	if s.UserID == "" && s.Email == "" {
		h.errs.write(w, r, movies.NoUser())
		return
	}

	userID, err := h.writer.ResolveUser(r.Context(), movies.Identity{UserID: s.UserID, Email: s.Email})
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	payload, err := movies.DecodePayload(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	entry, err := h.writer.Save(r.Context(), userID, payload)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// healthHandler answers {"ok":true} while the database responds.
func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
