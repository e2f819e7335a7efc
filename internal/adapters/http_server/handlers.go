package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tp_reviews/internal/app"
	"tp_reviews/internal/domain"
)

type Handlers struct{ Q *app.QueryService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/", h.root)
	s.mux.Get("/business/{businessID}/reviews", h.businessReviews)
	s.mux.Get("/user/{reviewerID}/reviews", h.userReviews)
	s.mux.Get("/user/{reviewerID}/account", h.userAccount)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func (h *Handlers) root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Welcome to the Reviews API!"})
}

// writeCSVStream sends headers, then pulls rows from the stream one at a
// time. Once the header is out an error can only truncate the body; the
// cursor is still released inside WriteCSV.
func writeCSVStream(w http.ResponseWriter, name string, st *app.ReviewStream) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_reviews.csv"`, name))
	w.WriteHeader(http.StatusOK)
	if err := st.WriteCSV(w); err != nil {
		log.Error().Err(err).Msg("csv stream aborted")
	}
}

func (h *Handlers) businessReviews(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	st, err := h.Q.BusinessReviewsCSV(r.Context(), businessID)
	if err != nil {
		log.Error().Err(err).Str("business_id", businessID).Msg("business reviews query failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeCSVStream(w, businessID, st)
}

func (h *Handlers) userReviews(w http.ResponseWriter, r *http.Request) {
	reviewerID := chi.URLParam(r, "reviewerID")
	st, err := h.Q.UserReviewsCSV(r.Context(), reviewerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "no reviews found for the given reviewer id")
			return
		}
		log.Error().Err(err).Str("reviewer_id", reviewerID).Msg("user reviews query failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeCSVStream(w, reviewerID, st)
}

func (h *Handlers) userAccount(w http.ResponseWriter, r *http.Request) {
	reviewerID := chi.URLParam(r, "reviewerID")
	acc, err := h.Q.UserAccount(r.Context(), reviewerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "reviewer not found")
			return
		}
		// data-layer detail stays server-side
		log.Error().Err(err).Str("reviewer_id", reviewerID).Msg("account lookup failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(acc); err != nil {
		log.Error().Err(err).Msg("failed to write account body")
	}
}
