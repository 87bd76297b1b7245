// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/infochir/catalog/internal/catalog"
	"github.com/infochir/catalog/internal/listing"
	"github.com/infochir/catalog/internal/newsletter"
	"github.com/infochir/catalog/internal/stats"
	"github.com/infochir/catalog/internal/submission"
	"github.com/infochir/catalog/pkg/types"
)

// ListingResponse is the body of a collection listing.
type ListingResponse struct {
	Collection types.Collection                          `json:"collection"`
	Sort       types.SortKey                             `json:"sort"`
	Total      int                                       `json:"total"`
	Categories []string                                  `json:"categories"`
	Records    []types.ListableRecord                    `json:"records,omitempty"`
	Years      []listing.YearGroup[types.ListableRecord] `json:"years,omitempty"`
	Undated    []types.ListableRecord                    `json:"undated,omitempty"`
}

// NewsletterResponse is the body of a newsletter subscription.
type NewsletterResponse struct {
	Success              bool                      `json:"success"`
	Message              string                    `json:"message,omitempty"`
	ExistingSubscription bool                      `json:"existing_subscription,omitempty"`
	Notification         *newsletter.Notifications `json:"notification,omitempty"`
	Error                string                    `json:"error,omitempty"`
}

// SubmissionResponse is the body of a manuscript submission.
type SubmissionResponse struct {
	Success    bool              `json:"success"`
	Submission *types.Submission `json:"submission,omitempty"`
	Error      string            `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	c, err := types.ParseCollection(r.PathValue("collection"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}

	q := r.URL.Query()
	dr, err := listing.ParseDateRange(q.Get("from"), q.Get("to"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	criteria := types.FilterCriteria{
		SearchTerm: q.Get("q"),
		DateRange:  dr,
		Categories: q["category"],
	}
	key := s.listingCfg.DefaultSort
	if v := q.Get("sort"); v != "" || key == "" {
		key = types.ParseSortKey(v)
	}

	rows, err := s.catalog.Rows(r.Context(), c)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if s.counters != nil {
		if rows, err = s.counters.Overlay(rows); err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	res := s.pipeline.Run(listing.Normalize(c, rows), criteria, key)
	resp := ListingResponse{
		Collection: c,
		Sort:       key,
		Total:      len(res.Sorted),
		Categories: res.Categories,
	}
	switch q.Get("view") {
	case "years":
		resp.Years = res.Groups()
		resp.Undated = res.Undated
	default:
		resp.Records = res.Sorted
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	hit, err := s.catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, hit)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("missing q parameter"))
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	hits, err := s.catalog.Search(r.Context(), query, limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if hits == nil {
		hits = []catalog.Hit{}
	}
	s.writeJSON(w, http.StatusOK, hits)
}

type trackResponse struct {
	ID    string     `json:"id"`
	Kind  stats.Kind `json:"kind"`
	Count uint64     `json:"count"`
}

func (s *Server) handleTrack(kind stats.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.counters == nil {
			s.writeError(w, http.StatusNotImplemented, errors.New("counter tracking is disabled"))
			return
		}
		id := r.PathValue("id")
		if _, err := s.catalog.Get(r.Context(), id); err != nil {
			s.writeError(w, statusFor(err), err)
			return
		}
		n, err := s.counters.Track(id, kind)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.writeJSON(w, http.StatusOK, trackResponse{ID: id, Kind: kind, Count: n})
	}
}

func (s *Server) handleNewsletter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeJSON(w, http.StatusMethodNotAllowed, NewsletterResponse{Error: "Method not allowed"})
		return
	}
	if s.newsletter == nil {
		s.writeJSON(w, http.StatusNotImplemented, NewsletterResponse{Error: "newsletter is disabled"})
		return
	}

	var req newsletter.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, NewsletterResponse{Error: "Invalid JSON in request body"})
		return
	}

	res, err := s.newsletter.Subscribe(r.Context(), req)
	switch {
	case errors.Is(err, newsletter.ErrMissingField):
		s.writeJSON(w, http.StatusBadRequest, NewsletterResponse{Error: "Name and email are required"})
		return
	case errors.Is(err, newsletter.ErrInvalidEmail):
		s.writeJSON(w, http.StatusBadRequest, NewsletterResponse{Error: "Invalid email format"})
		return
	case err != nil:
		s.log.Error("newsletter subscription failed", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, NewsletterResponse{Error: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, NewsletterResponse{
		Success:              true,
		Message:              res.Message,
		ExistingSubscription: res.Existing,
		Notification:         &res.Notification,
	})
}

func (s *Server) handleSubmission(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeJSON(w, http.StatusMethodNotAllowed, SubmissionResponse{Error: "Method not allowed"})
		return
	}
	if s.submitter == nil {
		s.writeJSON(w, http.StatusNotImplemented, SubmissionResponse{Error: "submissions are disabled"})
		return
	}

	var req submission.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, SubmissionResponse{Error: "Invalid JSON in request body"})
		return
	}

	sub, err := s.submitter.Submit(r.Context(), req)
	switch {
	case errors.Is(err, submission.ErrInvalid):
		s.writeJSON(w, http.StatusBadRequest, SubmissionResponse{Error: err.Error()})
		return
	case err != nil:
		s.log.Error("submission failed", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, SubmissionResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusCreated, SubmissionResponse{Success: true, Submission: &sub})
}

func statusFor(err error) int {
	if errors.Is(err, catalog.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("writing response", zap.Error(err))
	}
}
