package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Musasteel/ProductScannerApp/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyzer struct {
	verdict *utils.Verdict
	err     error
	delay   time.Duration
	calls   int
}

func (s *stubAnalyzer) AnalyzeIngredients(ctx context.Context, ingredients string, allergies []string) (*utils.Verdict, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ErrAITimeout
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.verdict, nil
}

func TestAnalyzeNoIngredientsSkipsAI(t *testing.T) {
	stub := &stubAnalyzer{verdict: &utils.Verdict{Score: utils.ScoreGreen}}
	svc := NewAnalysisService(stub)

	v := svc.Analyze(context.Background(), "", []string{"peanut"})

	assert.Equal(t, utils.ScoreYellow, v.Score)
	assert.Equal(t, []string{utils.NoIngredientsSentinel}, v.Warnings)
	assert.Zero(t, stub.calls, "AI client must not be invoked without ingredients")
}

func TestAnalyzeEmptyAllergiesSkipsAI(t *testing.T) {
	stub := &stubAnalyzer{verdict: &utils.Verdict{Score: utils.ScoreGreen}}
	svc := NewAnalysisService(stub)

	ingredients := "Wheat flour, sugar, salt"
	v := svc.Analyze(context.Background(), ingredients, []string{})

	// Common-allergen rules still apply with no declared allergies.
	assert.Equal(t, utils.AnalyzeBasic(ingredients, nil), v)
	assert.Zero(t, stub.calls, "AI client must not be invoked for an empty allergy list")
}

func TestAnalyzeAIFailureFallsBackToBasic(t *testing.T) {
	stub := &stubAnalyzer{err: errors.New("upstream exploded")}
	svc := NewAnalysisService(stub)

	ingredients := "Milk, peanuts, may contain traces of tree nuts"
	allergies := []string{"peanut"}
	v := svc.Analyze(context.Background(), ingredients, allergies)

	require.Equal(t, 1, stub.calls)
	assert.Equal(t, utils.AnalyzeBasic(ingredients, allergies), v)
	assert.Equal(t, utils.ScoreRed, v.Score)
	assert.Contains(t, v.Warnings, "Contains peanut")
}

func TestAnalyzeAISuccessSupersedesBasic(t *testing.T) {
	stub := &stubAnalyzer{verdict: &utils.Verdict{
		Score:         utils.ScoreYellow,
		Warnings:      []string{"trace soy"},
		SafetyDetails: "Soy lecithin may be present in trace amounts.",
	}}
	svc := NewAnalysisService(stub)

	v := svc.Analyze(context.Background(), "sugar, soy lecithin", []string{"soy"})

	require.Equal(t, 1, stub.calls)
	assert.Equal(t, utils.ScoreYellow, v.Score)
	assert.Equal(t, []string{"trace soy"}, v.Warnings)
	assert.Equal(t, "Soy lecithin may be present in trace amounts.", v.SafetyDetails)
}

func TestAnalyzeSlowAIDoesNotBlockPastDeadline(t *testing.T) {
	stub := &stubAnalyzer{
		verdict: &utils.Verdict{Score: utils.ScoreGreen},
		delay:   5 * time.Second,
	}
	svc := NewAnalysisService(stub)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	ingredients := "Milk, peanuts, may contain traces of tree nuts"
	allergies := []string{"peanut"}

	start := time.Now()
	v := svc.Analyze(ctx, ingredients, allergies)
	elapsed := time.Since(start)

	assert.Less(t, elapsed, time.Second, "analysis must not wait for the late AI response")
	assert.Equal(t, utils.AnalyzeBasic(ingredients, allergies), v)
}

func TestAnalyzeNilAIClientStillReturnsVerdict(t *testing.T) {
	svc := NewAnalysisService(nil)
	v := svc.Analyze(context.Background(), "water, peanuts", []string{"peanut"})
	assert.Equal(t, utils.ScoreRed, v.Score)
}
