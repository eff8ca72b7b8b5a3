package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/structboard/pkg/buildinfo"
	"github.com/matzehuels/structboard/pkg/document"
	"github.com/matzehuels/structboard/pkg/errors"
	"github.com/matzehuels/structboard/pkg/observability"
	"github.com/matzehuels/structboard/pkg/pipeline"
	"github.com/matzehuels/structboard/pkg/render"
	"github.com/matzehuels/structboard/pkg/store"
)

// putResponse reports what was stored after decoding.
type putResponse struct {
	Name     string   `json:"name"`
	Elements int      `json:"elements"`
	Skipped  int      `json:"skipped"`
	Dangling int      `json:"dangling"`
	Problems []string `json:"problems,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Current()})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if infos == nil {
		infos = []store.Info{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	f := document.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		if f, err = document.ParseFormat(q); err != nil {
			s.writeError(w, err)
			return
		}
	}
	w.Header().Set("Content-Type", render.ContentType(string(f)))
	if records == nil {
		records = []document.Record{}
	}
	if err := document.WriteRecords(w, records, f); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

// handlePut decodes the body before storing it, so the store only ever
// holds documents that decode cleanly. Records that had to be skipped or
// links that had to be cleared are reported back.
func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidateName(name); err != nil {
		s.writeError(w, err)
		return
	}

	f := document.FormatJSON
	if ct := r.Header.Get("Content-Type"); strings.Contains(ct, "yaml") {
		f = document.FormatYAML
	}
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	d, rep, err := document.Read(body, f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	observability.Render().OnDecode(r.Context(), d.Len(), rep.Skipped, rep.Dangling)

	if err := store.Save(r.Context(), s.store, name, d); err != nil {
		s.writeError(w, err)
		return
	}
	resp := putResponse{
		Name:     name,
		Elements: d.Len(),
		Skipped:  rep.Skipped,
		Dangling: rep.Dangling,
	}
	for _, p := range rep.Problems {
		resp.Problems = append(resp.Problems, errors.UserMessage(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	opts, err := renderOptions(r, format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	d, _, err := store.Load(r.Context(), s.store, chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.runner.Render(r.Context(), d, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	cacheStatus := "miss"
	if res.CacheInfo.Hits[format] {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("ETag", strconv.Quote(res.DocHash))
	w.Header().Set("X-Cache", cacheStatus)
	w.Write(res.Artifacts[format])
}

func renderOptions(r *http.Request, format string) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Formats:    []string{format},
		Grid:       queryBool(q.Get("grid")),
		Highlight:  q.Get("highlight"),
		AutoLayout: queryBool(q.Get("auto")),
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "scale %q", v)
		}
		opts.Scale = scale
	}
	return opts, opts.ValidateAndSetDefaults()
}

func queryBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

// =============================================================================
// Responses
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// writeError maps error codes to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(code),
	})
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidName, errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidDocument, errors.ErrCodeMissingField, errors.ErrCodeUnknownType:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
