package assist

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	model "github.com/intervuelab/backend/internal/model/interview"
	"github.com/intervuelab/backend/internal/service/ai"
)

func setupRouter() *chi.Mux {
	// No AI service configured; every endpoint must degrade to its
	// local fallback.
	handler := New(nil, nil)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestGenerateQuestionsFallback(t *testing.T) {
	r := setupRouter()

	resp := postJSON(t, r, "/ai/questions", map[string]string{"role": "backend engineer"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var out struct {
		Questions []model.Question `json:"questions"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out.Questions) != 6 {
		t.Fatalf("expected 6 fallback questions, got %d", len(out.Questions))
	}
	for i, q := range out.Questions {
		if q.ExpectedAnswer != "" {
			t.Fatalf("question %d leaked an expected answer", i)
		}
	}
}

func TestGenerateQuestionsInvalidBody(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/ai/questions", bytes.NewReader([]byte("{")))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestJudgeAnswerFallback(t *testing.T) {
	r := setupRouter()

	resp := postJSON(t, r, "/ai/judge", map[string]string{
		"question": "What is a slice?",
		"answer":   "A window over an array.",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var judgement ai.Judgement
	if err := json.Unmarshal(resp.Body.Bytes(), &judgement); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := ai.DefaultJudgement()
	if judgement != want {
		t.Fatalf("expected default judgement %+v, got %+v", want, judgement)
	}
}

func TestJudgeAnswerMissingQuestion(t *testing.T) {
	r := setupRouter()

	resp := postJSON(t, r, "/ai/judge", map[string]string{"answer": "something"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
