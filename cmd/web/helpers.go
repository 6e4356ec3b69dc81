package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/myrjola/spbot/internal/contexthelpers"
	"github.com/myrjola/spbot/internal/errors"
	"github.com/myrjola/spbot/internal/templates"
)

// maxBodyBytes caps JSON request bodies. Chat messages are short.
const maxBodyBytes = 64 << 10

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(status), errors.SlogError(err))
	http.Error(w, http.StatusText(status), status)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request, err error) {
	app.clientError(w, r, http.StatusNotFound, err)
}

func (app *application) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="spbot"`)
	app.clientError(w, r, http.StatusUnauthorized, err)
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "encode JSON response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// readJSON decodes the request body into dst and answers 400 Bad Request when it is not valid.
func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		app.clientError(w, r, http.StatusBadRequest, errors.Wrap(err, "decode JSON request"))
		return false
	}
	return true
}

func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page *templates.Page, data any) {
	buf := new(bytes.Buffer)
	if err := page.Render(buf, contexthelpers.CSPNonce(r.Context()), data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "render page"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	_, _ = buf.WriteTo(w)
}
