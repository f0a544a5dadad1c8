package utils

import (
	"strings"
)

// Score is the traffic-light safety rating. Severity orders green < yellow < red.
type Score string

const (
	ScoreGreen  Score = "green"
	ScoreYellow Score = "yellow"
	ScoreRed    Score = "red"
)

// Verdict is what the analysis pipeline returns to callers.
type Verdict struct {
	Score         Score    `json:"score"`
	Warnings      []string `json:"warnings"`
	SafetyDetails string   `json:"safetyDetails"`
}

// NoIngredientsSentinel is what the product lookup substitutes when Open Food
// Facts has no ingredients_text for a product.
const NoIngredientsSentinel = "No ingredients information available"

// commonAllergens are checked in this fixed order.
var commonAllergens = []string{
	"milk", "dairy", "egg", "nuts", "peanut", "soy", "wheat",
	"gluten", "fish", "shellfish", "sesame",
}

// AnalyzeBasic runs the deterministic rule-based safety check. It is pure and
// never fails; callers get a usable Verdict for any input.
//
// Matching is deliberately permissive substring matching: an allergy of "nut"
// flags "nutmeg". That is a known false-positive tradeoff favoring caution
// over precision, not a bug to fix.
func AnalyzeBasic(ingredients string, allergies []string) Verdict {
	if ingredients == "" || ingredients == NoIngredientsSentinel {
		return Verdict{
			Score:         ScoreYellow,
			Warnings:      []string{NoIngredientsSentinel},
			SafetyDetails: "Unable to analyze safety without ingredients information",
		}
	}

	tokens := tokenizeIngredients(ingredients)
	warnings := []string{}
	score := ScoreGreen

	// User allergies first. Every allergy is checked; a hit never
	// short-circuits the rest.
	for _, allergy := range allergies {
		needle := strings.ToLower(strings.TrimSpace(allergy))
		if needle == "" {
			continue
		}
		if anyTokenContains(tokens, needle) {
			warnings = append(warnings, "Contains "+allergy)
			score = ScoreRed
		}
	}

	// Common allergens, skipping ones an existing warning already mentions.
	for _, allergen := range commonAllergens {
		if !anyTokenContains(tokens, allergen) {
			continue
		}
		if warningsMention(warnings, allergen) {
			continue
		}
		warnings = append(warnings, "Contains common allergen: "+allergen)
		if score != ScoreRed {
			score = ScoreYellow
		}
	}

	// Cross-contamination statements.
	if strings.Contains(strings.ToLower(ingredients), "may contain") {
		warnings = append(warnings, "Product has cross-contamination warnings")
		if score != ScoreRed {
			score = ScoreYellow
		}
	}

	details := "Basic analysis complete. "
	if len(warnings) > 0 {
		details += "Please review warnings."
	} else {
		details += "No major allergens detected."
		warnings = []string{"No immediate allergen concerns detected"}
	}

	return Verdict{Score: score, Warnings: warnings, SafetyDetails: details}
}

// tokenizeIngredients lowercases and splits on the delimiters ingredient
// lists actually use. Empty tokens are harmless downstream.
func tokenizeIngredients(ingredients string) []string {
	lower := strings.ToLower(ingredients)
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return r == ',' || r == ';' || r == '(' || r == ')'
	})
	for i, t := range tokens {
		tokens[i] = strings.TrimSpace(t)
	}
	return tokens
}

func anyTokenContains(tokens []string, needle string) bool {
	for _, t := range tokens {
		if strings.Contains(t, needle) {
			return true
		}
	}
	return false
}

func warningsMention(warnings []string, allergen string) bool {
	for _, w := range warnings {
		if strings.Contains(strings.ToLower(w), allergen) {
			return true
		}
	}
	return false
}
