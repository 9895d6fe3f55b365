package assist

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/intervuelab/backend/internal/catalog"
	model "github.com/intervuelab/backend/internal/model/interview"
	"github.com/intervuelab/backend/internal/service/ai"
	"github.com/intervuelab/backend/pkg/utils"
)

// Handler exposes the model-assisted question generation and scoring
// endpoints. The service may be nil when no credentials are
// configured; every endpoint degrades to its local fallback.
type Handler struct {
	aiSvc *ai.Service
	log   *zap.Logger
}

// New creates the assist handler. aiSvc may be nil.
func New(aiSvc *ai.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{aiSvc: aiSvc, log: log}
}

// RegisterRoutes mounts the assist routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/ai/questions", h.handleGenerateQuestions)
	r.Post("/ai/judge", h.handleJudgeAnswer)
}

func (h *Handler) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Role == "" {
		payload.Role = "full stack (React/Node)"
	}

	questions := h.generate(r, payload.Role)
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"questions": questions,
	})
}

func (h *Handler) generate(r *http.Request, role string) []model.Question {
	if h.aiSvc == nil {
		return catalog.Bare()
	}

	questions, err := h.aiSvc.GenerateQuestions(r.Context(), role)
	if err != nil || len(questions) == 0 {
		h.log.Warn("question generation failed, using built-in set", zap.Error(err))
		return catalog.Bare()
	}
	return questions
}

func (h *Handler) handleJudgeAnswer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Question == "" {
		utils.RespondError(w, http.StatusBadRequest, "question is required")
		return
	}

	judgement := h.judge(r, payload.Question, payload.Answer)
	utils.RespondJSON(w, http.StatusOK, judgement)
}

func (h *Handler) judge(r *http.Request, question, answer string) ai.Judgement {
	if h.aiSvc == nil {
		return ai.DefaultJudgement()
	}

	judgement, err := h.aiSvc.JudgeAnswer(r.Context(), question, answer)
	if err != nil {
		h.log.Warn("judgement failed, using default", zap.Error(err))
		return ai.DefaultJudgement()
	}
	return judgement
}
