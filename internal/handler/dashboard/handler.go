package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	interviewservice "github.com/intervuelab/backend/internal/service/interview"
	"github.com/intervuelab/backend/pkg/utils"
)

// Handler exposes the interviewer-facing archive of completed
// interviews.
type Handler struct {
	store *interviewservice.Store
}

// New creates the dashboard handler.
func New(store *interviewservice.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the candidate archive routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/candidates", h.handleListCandidates)
	r.Get("/candidates/{candidateID}", h.handleGetCandidate)
	r.Delete("/candidates/{candidateID}", h.handleDeleteCandidate)
}

func (h *Handler) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	sortKey := interviewservice.SortKey(r.URL.Query().Get("sort"))
	switch sortKey {
	case interviewservice.SortByScore, interviewservice.SortByName, interviewservice.SortByDate:
	case "":
		sortKey = interviewservice.SortByScore
	default:
		utils.RespondError(w, http.StatusBadRequest, "unknown sort key")
		return
	}

	candidates := h.store.SearchCandidates(r.Context(), query, sortKey)
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"candidates": candidates,
		"count":      len(candidates),
	})
}

func (h *Handler) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	candidate, ok := h.store.Candidate(r.Context(), chi.URLParam(r, "candidateID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "candidate not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, candidate)
}

func (h *Handler) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	h.store.DeleteCandidate(r.Context(), chi.URLParam(r, "candidateID"))
	w.WriteHeader(http.StatusNoContent)
}
