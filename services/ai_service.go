package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Musasteel/ProductScannerApp/utils"
)

const (
	defaultAITimeout = 5 * time.Second
	minAITimeout     = 3 * time.Second
	maxAITimeout     = 10 * time.Second
)

// AIService wraps a single OpenAI chat-completions call that asks the model
// for a structured safety verdict. One attempt per call, no retries; the
// orchestrator owns the fallback.
type AIService struct {
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration
	client  *http.Client
}

// NewAIService reads its credential and timeout from the environment at
// construction. The per-call deadline is enforced with a request context so
// the underlying connection is actually aborted on timeout.
func NewAIService() *AIService {
	timeout := defaultAITimeout
	if v := os.Getenv("AI_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			timeout = time.Duration(secs) * time.Second
		}
	}
	if timeout < minAITimeout {
		timeout = minAITimeout
	}
	if timeout > maxAITimeout {
		timeout = maxAITimeout
	}

	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-3.5-turbo"
	}

	return &AIService{
		baseURL: baseURL,
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		model:   model,
		timeout: timeout,
		client:  &http.Client{},
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens"`
	TopP           float64       `json:"top_p"`
	Stream         bool          `json:"stream"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// aiVerdictPayload is the JSON contract the prompt demands from the model.
type aiVerdictPayload struct {
	SafetyScore       string   `json:"safety_score"`
	Warnings          []string `json:"warnings"`
	SafetyExplanation string   `json:"safety_explanation"`
}

func buildAnalysisPrompt(ingredients string, allergies []string) string {
	return fmt.Sprintf(`Analyze these ingredients: "%s"
For a person with these allergies/conditions: "%s"
Provide a safety assessment and explanation.
Respond with JSON only, with fields:
  safety_score: one of "RED", "YELLOW", "GREEN"
  warnings: array of strings
  safety_explanation: string
Be conservative: when uncertain, choose the more severe score.`,
		ingredients, strings.Join(allergies, ", "))
}

// AnalyzeIngredients issues one completion request under the hard timeout and
// maps the structured response into a Verdict. Errors are typed so the
// orchestrator can log what went wrong before falling back.
func (s *AIService) AnalyzeIngredients(ctx context.Context, ingredients string, allergies []string) (*utils.Verdict, error) {
	if s.apiKey == "" {
		return nil, ErrAICredentialMissing
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "user", Content: buildAnalysisPrompt(ingredients, allergies)},
		},
		Temperature: 0.2,
		MaxTokens:   300,
		TopP:        0.9,
		Stream:      false,
	}
	reqBody.ResponseFormat.Type = "json_object"

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrAITimeout, s.timeout)
		}
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrAITimeout, s.timeout)
		}
		return nil, fmt.Errorf("failed to read completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("completion API error %d: %s", resp.StatusCode, string(body))
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIParse, err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrAIParse)
	}

	return parseAIVerdict(cr.Choices[0].Message.Content)
}

// parseAIVerdict decodes the model's message content. The content is usually
// a JSON object but some models return it as a JSON-encoded string; both are
// tolerated.
func parseAIVerdict(content string) (*utils.Verdict, error) {
	var payload aiVerdictPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		var inner string
		if err2 := json.Unmarshal([]byte(content), &inner); err2 != nil {
			return nil, fmt.Errorf("%w: %v", ErrAIParse, err)
		}
		if err2 := json.Unmarshal([]byte(inner), &payload); err2 != nil {
			return nil, fmt.Errorf("%w: %v", ErrAIParse, err2)
		}
	}

	if payload.SafetyScore == "" || payload.SafetyExplanation == "" {
		return nil, fmt.Errorf("%w: missing required fields", ErrAIParse)
	}

	var score utils.Score
	switch strings.ToLower(payload.SafetyScore) {
	case "red":
		score = utils.ScoreRed
	case "yellow":
		score = utils.ScoreYellow
	case "green":
		score = utils.ScoreGreen
	default:
		return nil, fmt.Errorf("%w: unrecognized safety_score %q", ErrAIParse, payload.SafetyScore)
	}

	warnings := payload.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return &utils.Verdict{
		Score:         score,
		Warnings:      warnings,
		SafetyDetails: payload.SafetyExplanation,
	}, nil
}
