package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reelist/internal/movies"
	"github.com/go-chi/chi/v5/middleware"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorWriter is the error boundary: it logs the full failure and writes the client view.
type errorWriter struct {
	logger *log.Logger
	debug  bool
}

func (ew errorWriter) write(w http.ResponseWriter, r *http.Request, err error) {
	e := movies.AsError(err)

	kv := []any{
		"kind", e.Kind,
		"status", e.Status,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
	}
	if e.UserID != "" {
		kv = append(kv, "user", e.UserID)
	}
	if e.Err != nil {
		kv = append(kv, "error", e.Err)
	}

	switch {
	case e.Status >= http.StatusInternalServerError:
		ew.logger.Error(e.Message, kv...)
		if len(e.Stack) > 0 {
			ew.logger.Debug("stack", "request_id", middleware.GetReqID(r.Context()), "stack", string(e.Stack))
		}
	case e.Status == http.StatusNotFound:
		ew.logger.Warn(e.Message, kv...)
	default:
		ew.logger.Info(e.Message, kv...)
	}

	writeJSON(w, e.Status, e.Body(ew.debug))
}

// recoverInto turns a panic in the current handler into an internal error response.
//
// [http.ErrAbortHandler] is re-panicked so the server can abort the connection.
func (ew errorWriter) recoverInto(w http.ResponseWriter, r *http.Request) {
	v := recover()
	if v == nil {
		return
	}
	if v == http.ErrAbortHandler {
		panic(v)
	}
	ew.write(w, r, movies.Recovered(v))
}
