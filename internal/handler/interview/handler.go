package interview

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	model "github.com/intervuelab/backend/internal/model/interview"
	interviewservice "github.com/intervuelab/backend/internal/service/interview"
	"github.com/intervuelab/backend/internal/service/resume"
	"github.com/intervuelab/backend/pkg/utils"
)

// Handler exposes the candidate-facing interview surface: résumé
// intake, the chat loop over REST, SSE and WebSocket, and session
// control.
type Handler struct {
	flow   *interviewservice.Flow
	store  *interviewservice.Store
	broker *interviewservice.Broker

	// intakeFlow is installed on résumé upload; the Flow replaces a
	// non-canonical one wholesale before questioning starts.
	intakeFlow []model.Question
}

// New creates the interview handler.
func New(flow *interviewservice.Flow, store *interviewservice.Store, broker *interviewservice.Broker, intakeFlow []model.Question) *Handler {
	return &Handler{flow: flow, store: store, broker: broker, intakeFlow: intakeFlow}
}

// RegisterRoutes mounts the interview routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/resume", h.handleResumeUpload)
	r.Get("/sessions/current", h.handleCurrentSession)
	r.Get("/sessions/{sessionID}", h.handleGetSession)
	r.Post("/sessions/{sessionID}/messages", h.handleMessage)
	r.Post("/sessions/{sessionID}/questions", h.handleSetQuestions)
	r.Post("/sessions/{sessionID}/pause", h.handlePause)
	r.Post("/sessions/{sessionID}/resume", h.handleResume)
	r.Get("/sessions/{sessionID}/events", h.handleEvents)
	r.Get("/sessions/{sessionID}/ws", h.handleWebSocket)
}

func (h *Handler) handleResumeUpload(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile := resume.ParseContact(payload.Text)
	session, prompt := h.flow.Begin(r.Context(), profile, h.intakeFlow)

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"session": session,
		"prompt":  prompt,
	})
}

func (h *Handler) handleCurrentSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.store.Current(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "no active session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.store.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, ok := h.store.GetSession(r.Context(), sessionID); !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	turn, ok := h.flow.HandleCandidateText(r.Context(), sessionID, payload.Text)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "message text is required")
		return
	}

	utils.RespondJSON(w, http.StatusOK, turn)
}

func (h *Handler) handleSetQuestions(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Questions []model.Question `json:"questions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(payload.Questions) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "questions are required")
		return
	}

	if _, ok := h.store.GetSession(r.Context(), sessionID); !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	h.store.SetQuestionFlow(r.Context(), sessionID, payload.Questions)
	session, _ := h.store.GetSession(r.Context(), sessionID)
	utils.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) handlePause(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, ok := h.store.GetSession(r.Context(), sessionID); !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	h.flow.Pause(r.Context(), sessionID)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "paused"})
}

func (h *Handler) handleResume(w http.ResponseWriter, r *http.Request) {
	prompt, ok := h.flow.Resume(r.Context(), chi.URLParam(r, "sessionID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"prompt": prompt})
}

// handleEvents streams the session's live events over SSE: bot and
// candidate messages, evaluations, countdown ticks and finalization.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, ok := h.store.GetSession(r.Context(), sessionID); !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	events, cancel := h.broker.Subscribe(sessionID)
	defer cancel()

	utils.SendSSEChunk(w, flusher, map[string]string{
		"event":   "status",
		"message": "stream established",
	})

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			utils.SendSSEEvent(w, flusher, string(ev.Type), ev)
		}
	}
}
