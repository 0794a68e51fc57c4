package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"website-assistant/internal/archive"
	"website-assistant/internal/crawler"
	"website-assistant/internal/ioformats"
	"website-assistant/internal/llm"
	"website-assistant/internal/tools"
)

var (
	errInvalidPayload = errors.New("invalid payload")
	errNoArchive      = errors.New("brochure archive is disabled")
)

type urlReq struct {
	URL     string `json:"url"`
	Company string `json:"company,omitempty"`
}

type chatReq struct {
	Variant string        `json:"variant,omitempty"`
	History []llm.Message `json:"history"`
	Message string        `json:"message"`
}

func decodeURL(r *http.Request) (urlReq, error) {
	var req urlReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		return req, errInvalidPayload
	}
	u, err := tools.NormalizeURL(req.URL)
	if err != nil {
		return req, err
	}
	req.URL = u
	return req, nil
}

// upstreamStatus maps pipeline errors to a response code.
func upstreamStatus(err error) int {
	var se *crawler.StatusError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &se), errors.Is(err, crawler.ErrNonHTML), errors.Is(err, crawler.ErrInvalidURL):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, errInvalidPayload)
		return
	}
	for _, m := range req.History {
		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			writeError(w, http.StatusBadRequest, fmt.Errorf("history role %q not allowed", m.Role))
			return
		}
	}
	bot, err := s.app.Assistant(req.Variant)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()
	reply, err := bot.Chat(ctx, req.History, req.Message)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply, "variant": bot.Variant().Name})
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	req, err := decodeURL(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()
	details, err := s.app.Details.Details(ctx, req.URL)
	if err != nil {
		writeError(w, upstreamStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": req.URL, "details": details})
}

func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request) {
	req, err := decodeURL(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()
	sel, err := s.app.Details.Links(ctx, req.URL)
	if err != nil {
		writeError(w, upstreamStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

func (s *Server) handleSocial(w http.ResponseWriter, r *http.Request) {
	req, err := decodeURL(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()
	links, err := s.app.Social.FromURL(ctx, req.URL)
	if err != nil {
		writeError(w, upstreamStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"url": req.URL, "links": links})
}

func (s *Server) handleBrochure(w http.ResponseWriter, r *http.Request) {
	req, err := decodeURL(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()
	b, err := s.app.Brochures.Create(ctx, req.Company, req.URL)
	if err != nil {
		writeError(w, upstreamStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// handleBrochureUpload takes a multipart CSV or NDJSON file of targets and
// streams one NDJSON result per target, in input order.
func (s *Server) handleBrochureUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("multipart parse error"))
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("file part 'file' required"))
		return
	}
	defer f.Close()

	targets, err := ioformats.Parse(f, filepath.Ext(hdr.Filename))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	concurrency := s.app.Config.Fetch.Concurrency
	if v, err := strconv.Atoi(r.FormValue("concurrency")); err == nil && v > 0 {
		concurrency = v
	}

	results := ioformats.RunBrochures(r.Context(), s.app.Brochures, targets, concurrency, s.log)
	w.Header().Set("Content-Type", "application/x-ndjson")
	if err := ioformats.WriteNDJSON(w, results); err != nil {
		s.log.Warn("write ndjson", "error", err)
	}
}

func (s *Server) handleBrochures(w http.ResponseWriter, r *http.Request) {
	if s.app.Archive == nil {
		writeError(w, http.StatusServiceUnavailable, errNoArchive)
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = n
	}
	list, err := s.app.Archive.ListBrochures(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"brochures": list})
}

func (s *Server) handleBrochureByID(w http.ResponseWriter, r *http.Request) {
	if s.app.Archive == nil {
		writeError(w, http.StatusServiceUnavailable, errNoArchive)
		return
	}
	b, err := s.app.Archive.GetBrochure(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, archive.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
