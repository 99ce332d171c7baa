package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"plates/internal/code"
	"plates/internal/ctxlog"
)

type errorResponse struct {
	Error      string `json:"error"`
	Kind       string `json:"kind,omitempty"`
	Pattern    string `json:"pattern,omitempty"`
	Value      string `json:"value,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func write(w http.ResponseWriter, r *http.Request, status int, content []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(status)
	if _, err := w.Write(content); err != nil {
		log := ctxlog.Get(r.Context())
		log.Error("failed to write response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	content, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("server: marshal response: %w", err))
	}
	write(w, r, status, append(content, '\n'))
}

// writeError maps engine errors to client errors. Anything unexpected is
// logged and answered with 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		unknown *code.UnknownPatternError
		codeErr *code.Error
	)

	switch {
	case errors.As(err, &unknown):
		writeJSON(w, r, http.StatusNotFound, errorResponse{
			Error:      err.Error(),
			Kind:       "pattern",
			Value:      unknown.Name,
			Suggestion: unknown.Suggestion,
		})

	case errors.As(err, &codeErr) && (errors.Is(err, code.ErrRange) || errors.Is(err, code.ErrFormat)):
		kind := "format"
		if errors.Is(err, code.ErrRange) {
			kind = "range"
		}
		writeJSON(w, r, http.StatusBadRequest, errorResponse{
			Error:   err.Error(),
			Kind:    kind,
			Pattern: codeErr.Pattern,
			Value:   codeErr.Value,
		})

	default:
		log := ctxlog.Get(r.Context())
		log.Error("request failed", "error", err)
		internalServerError(w, r)
	}
}

func internalServerError(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func tooManyRequests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
}

// cachedJSONHandler serves a value that never changes, answering
// conditional requests with 304.
func cachedJSONHandler(v any) http.Handler {
	content, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("server: marshal cached response: %w", err))
	}
	content = append(content, '\n')
	etag := `"` + strconv.FormatUint(xxhash.Sum64(content), 36) + `"`

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		write(w, r, http.StatusOK, content)
	})
}
