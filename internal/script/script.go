package script

import "strings"

// PauseMarker is inserted wherever the narration should hold for learner
// interaction. Voice synthesis converts it to an audible pause; the visual
// renderer splits scenes on it.
const PauseMarker = "[PAUSE]"

// PracticeSegment is one guided-practice block of the lesson.
type PracticeSegment struct {
	Setup        string         `json:"setup"`
	PausePrompt  string         `json:"pause_prompt"`
	Items        []PracticeItem `json:"items"`
	Resume       string         `json:"resume"`
	AnswerReveal string         `json:"answer_reveal"`
}

// LessonScript is the generated teaching artifact. It is produced in full
// by the generator, replaced wholesale (never patched) on regeneration, and
// immutable once QA-passed.
type LessonScript struct {
	Title             string          `json:"title"`
	Introduction      string          `json:"introduction"`
	CoreExplanation   string          `json:"core_explanation"`
	PracticeOne       PracticeSegment `json:"practice_one"`
	DeeperExplanation string          `json:"deeper_explanation"`
	PracticeTwo       PracticeSegment `json:"practice_two"`
	MiniChallenge     string          `json:"mini_challenge"`
	Closing           string          `json:"closing"`
	ParentSummary     string          `json:"parent_summary"`
	FullNarration     string          `json:"full_narration"`
	WordCount         int             `json:"word_count"`
	EstimatedSeconds  float64         `json:"estimated_seconds"`
}

// PracticeSegments returns the segments in lesson order.
func (s *LessonScript) PracticeSegments() []PracticeSegment {
	return []PracticeSegment{s.PracticeOne, s.PracticeTwo}
}

// AllItems returns every practice item across both segments in order.
func (s *LessonScript) AllItems() []PracticeItem {
	items := make([]PracticeItem, 0, len(s.PracticeOne.Items)+len(s.PracticeTwo.Items))
	items = append(items, s.PracticeOne.Items...)
	items = append(items, s.PracticeTwo.Items...)
	return items
}

// AssembleNarration concatenates the sections in the fixed pedagogical
// order, inserting a pause marker at every point the narration should hold.
// The result is a deterministic function of the section contents.
func (s *LessonScript) AssembleNarration() string {
	segment := func(seg PracticeSegment) []string {
		return []string{seg.Setup, seg.PausePrompt, PauseMarker, seg.Resume, seg.AnswerReveal}
	}
	parts := []string{s.Introduction, s.CoreExplanation}
	parts = append(parts, segment(s.PracticeOne)...)
	parts = append(parts, s.DeeperExplanation)
	parts = append(parts, segment(s.PracticeTwo)...)
	parts = append(parts, s.MiniChallenge, s.Closing)

	var kept []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, "\n\n")
}

// CountWords counts narration words, excluding pause markers.
func CountWords(narration string) int {
	count := 0
	for _, field := range strings.Fields(narration) {
		if field == PauseMarker {
			continue
		}
		count++
	}
	return count
}

// finalize recomputes the derived fields after parsing or editing sections.
func (s *LessonScript) finalize(wordsPerMinute float64) {
	s.FullNarration = s.AssembleNarration()
	s.WordCount = CountWords(s.FullNarration)
	if wordsPerMinute > 0 {
		s.EstimatedSeconds = float64(s.WordCount) / wordsPerMinute * 60
	}
}
