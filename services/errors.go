package services

import "errors"

// Lookup errors propagate to the HTTP layer; AI errors never do — the
// analysis orchestrator absorbs them and falls back to the rule-based verdict.
var (
	ErrProductNotFound     = errors.New("product not found")
	ErrAITimeout           = errors.New("ai analysis timed out")
	ErrAIParse             = errors.New("ai response could not be parsed")
	ErrAICredentialMissing = errors.New("OPENAI_API_KEY not set")
)
