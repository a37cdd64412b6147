package qa

import "time"

// Check kinds, in the fixed join order used by Verify.
const (
	KindMath        = "math_accuracy"
	KindReading     = "reading_accuracy"
	KindSafety      = "safety"
	KindConsistency = "consistency"
	KindFallback    = "fallback_used"
	KindUnverified  = "could_not_verify"
)

// Error is a content problem that blocks the script.
type Error struct {
	Kind        string `json:"kind"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion,omitempty"`
}

// Warning is a non-blocking finding.
type Warning struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// Result is one verification pass over one script.
type Result struct {
	Passed    bool      `json:"passed"`
	Errors    []Error   `json:"errors,omitempty"`
	Warnings  []Warning `json:"warnings,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

func newResult(errors []Error, warnings []Warning) *Result {
	return &Result{
		Passed:    len(errors) == 0,
		Errors:    errors,
		Warnings:  warnings,
		CheckedAt: time.Now().UTC(),
	}
}
