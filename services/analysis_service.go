package services

import (
	"context"
	"log"

	"github.com/Musasteel/ProductScannerApp/utils"
)

// aiAnalyzer is what the orchestrator needs from the AI client. Tests stub it;
// production wires *AIService.
type aiAnalyzer interface {
	AnalyzeIngredients(ctx context.Context, ingredients string, allergies []string) (*utils.Verdict, error)
}

// AnalysisService composes the rule-based analyzer with the best-effort AI
// client. Analyze never fails: the caller always gets a verdict.
type AnalysisService struct {
	ai aiAnalyzer
}

func NewAnalysisService(ai aiAnalyzer) *AnalysisService {
	return &AnalysisService{ai: ai}
}

// Analyze returns the AI verdict when the AI call succeeds in time, otherwise
// the rule-based verdict.
//
// The AI client is skipped entirely when there is nothing for it to add:
// missing ingredients (terminal rule verdict) or an empty allergy list. With
// no declared allergies the rule-based common-allergen check still runs —
// common allergens are safety-relevant regardless of the profile.
func (s *AnalysisService) Analyze(ctx context.Context, ingredients string, allergies []string) utils.Verdict {
	basic := utils.AnalyzeBasic(ingredients, allergies)

	if ingredients == "" || ingredients == utils.NoIngredientsSentinel {
		return basic
	}
	if len(allergies) == 0 {
		return basic
	}
	if s.ai == nil {
		return basic
	}

	verdict, err := s.ai.AnalyzeIngredients(ctx, ingredients, allergies)
	if err != nil {
		log.Printf("AI analysis failed, using basic analysis: %v", err)
		return basic
	}
	return *verdict
}
