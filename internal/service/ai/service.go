package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/intervuelab/backend/internal/config"
	interviewmodel "github.com/intervuelab/backend/internal/model/interview"
)

// Service is the optional remote collaborator: question generation
// for a role description and LLM-based answer judging. The core never
// depends on it; every caller has a documented local fallback.
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
	log       *zap.Logger
}

// NewService creates the collaborator from Ark credentials.
func NewService(ctx context.Context, cfg config.AIConfig, log *zap.Logger) (*Service, error) {
	if log == nil {
		log = zap.NewNop()
	}

	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{chatModel: chatModel, cfg: cfg, chain: runnable, log: log}, nil
}

// GenerateQuestions asks the model for the six-question interview set
// for the given role. Unparseable output degrades through the lenient
// parser; an empty result is an error so the boundary can substitute
// the local catalog.
func (s *Service) GenerateQuestions(ctx context.Context, role string) ([]interviewmodel.Question, error) {
	response, err := s.chain.Invoke(ctx, map[string]any{
		"system": "You write technical interview questions. Respond with JSON only, no prose.",
		"query": fmt.Sprintf(
			"Generate 6 interview questions for a %s role: 2 easy, 2 medium, 2 hard. Return JSON array with {level, q}.",
			role),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to run question generation chain: %w", err)
	}

	questions := ParseQuestionList(response.Content)
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions recovered from model output")
	}

	s.log.Info("generated interview questions",
		zap.String("role", role),
		zap.Int("count", len(questions)))
	return questions, nil
}

// JudgeAnswer asks the model to score one question/answer pair. A
// response that does not parse is an error; the boundary substitutes
// DefaultJudgement.
func (s *Service) JudgeAnswer(ctx context.Context, question, answerText string) (Judgement, error) {
	response, err := s.chain.Invoke(ctx, map[string]any{
		"system": "You are an expert interviewer.",
		"query": fmt.Sprintf(
			"Given the question:\n%s\nAnd the candidate's answer:\n%s\nProvide a score 0-10 and a one-sentence feedback. Return JSON: {\"score\": number, \"feedback\": string}",
			question, answerText),
	})
	if err != nil {
		return Judgement{}, fmt.Errorf("failed to run judging chain: %w", err)
	}

	judgement, err := ParseJudgement(response.Content)
	if err != nil {
		return Judgement{}, err
	}

	s.log.Debug("judged answer", zap.Float64("score", judgement.Score))
	return judgement, nil
}
