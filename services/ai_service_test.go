package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Musasteel/ProductScannerApp/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAIService(baseURL string, timeout time.Duration) *AIService {
	return &AIService{
		baseURL: baseURL,
		apiKey:  "test-key",
		model:   "gpt-3.5-turbo",
		timeout: timeout,
		client:  &http.Client{},
	}
}

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

func TestAnalyzeIngredientsSuccess(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		fmt.Fprint(w, completionBody(`{"safety_score":"YELLOW","warnings":["trace soy"],"safety_explanation":"Possible soy traces."}`))
	}))
	defer srv.Close()

	svc := newTestAIService(srv.URL, 3*time.Second)
	v, err := svc.AnalyzeIngredients(context.Background(), "sugar, soy lecithin", []string{"soy"})

	require.NoError(t, err)
	assert.Equal(t, utils.ScoreYellow, v.Score)
	assert.Equal(t, []string{"trace soy"}, v.Warnings)
	assert.Equal(t, "Possible soy traces.", v.SafetyDetails)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "json_object", gotReq.ResponseFormat.Type)
	assert.False(t, gotReq.Stream)
	require.Len(t, gotReq.Messages, 1)
	assert.Contains(t, gotReq.Messages[0].Content, "soy lecithin")
	assert.Contains(t, gotReq.Messages[0].Content, "soy")
}

func TestAnalyzeIngredientsStringWrappedContent(t *testing.T) {
	// Some models double-encode: content is a JSON string holding the object.
	inner := `{"safety_score":"red","warnings":["Contains peanut"],"safety_explanation":"Declared allergen present."}`
	quoted, _ := json.Marshal(inner)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionBody(string(quoted)))
	}))
	defer srv.Close()

	svc := newTestAIService(srv.URL, 3*time.Second)
	v, err := svc.AnalyzeIngredients(context.Background(), "peanuts", []string{"peanut"})

	require.NoError(t, err)
	assert.Equal(t, utils.ScoreRed, v.Score)
	assert.Equal(t, []string{"Contains peanut"}, v.Warnings)
}

func TestAnalyzeIngredientsUnrecognizedScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionBody(`{"safety_score":"ORANGE","warnings":[],"safety_explanation":"??"}`))
	}))
	defer srv.Close()

	svc := newTestAIService(srv.URL, 3*time.Second)
	_, err := svc.AnalyzeIngredients(context.Background(), "water", []string{"peanut"})
	assert.True(t, errors.Is(err, ErrAIParse))
}

func TestAnalyzeIngredientsMissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionBody(`{"warnings":["something"]}`))
	}))
	defer srv.Close()

	svc := newTestAIService(srv.URL, 3*time.Second)
	_, err := svc.AnalyzeIngredients(context.Background(), "water", []string{"peanut"})
	assert.True(t, errors.Is(err, ErrAIParse))
}

func TestAnalyzeIngredientsMissingCredential(t *testing.T) {
	svc := &AIService{timeout: 3 * time.Second, client: &http.Client{}}
	_, err := svc.AnalyzeIngredients(context.Background(), "water", []string{"peanut"})
	assert.True(t, errors.Is(err, ErrAICredentialMissing))
}

func TestAnalyzeIngredientsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
			return
		}
		fmt.Fprint(w, completionBody(`{"safety_score":"GREEN","warnings":[],"safety_explanation":"late"}`))
	}))
	defer srv.Close()

	svc := newTestAIService(srv.URL, 150*time.Millisecond)

	start := time.Now()
	_, err := svc.AnalyzeIngredients(context.Background(), "water", []string{"peanut"})
	elapsed := time.Since(start)

	assert.True(t, errors.Is(err, ErrAITimeout), "got %v", err)
	assert.Less(t, elapsed, time.Second, "the transport must be aborted at the deadline")
}

func TestAnalyzeIngredientsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := newTestAIService(srv.URL, 3*time.Second)
	_, err := svc.AnalyzeIngredients(context.Background(), "water", []string{"peanut"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrAITimeout))
}

func TestParseAIVerdictNilWarnings(t *testing.T) {
	v, err := parseAIVerdict(`{"safety_score":"GREEN","safety_explanation":"fine"}`)
	require.NoError(t, err)
	assert.NotNil(t, v.Warnings)
	assert.Empty(t, v.Warnings)
}

func TestNewAIServiceClampsTimeout(t *testing.T) {
	t.Setenv("AI_TIMEOUT_SECONDS", "1")
	svc := NewAIService()
	assert.Equal(t, minAITimeout, svc.timeout)

	t.Setenv("AI_TIMEOUT_SECONDS", "60")
	svc = NewAIService()
	assert.Equal(t, maxAITimeout, svc.timeout)

	t.Setenv("AI_TIMEOUT_SECONDS", "")
	svc = NewAIService()
	assert.Equal(t, defaultAITimeout, svc.timeout)
}
