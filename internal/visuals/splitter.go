package visuals

import (
	"strings"

	"lessonforge/internal/script"
)

// maxSegmentWords bounds how much prose a single scene displays before the
// sentence-boundary fallback splits it further.
const maxSegmentWords = 60

// splitProse splits a narration field into displayable segments: first on
// pause markers, then over-long segments at sentence boundaries.
func splitProse(text string) []string {
	var segments []string
	for _, chunk := range strings.Split(text, script.PauseMarker) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		if len(strings.Fields(chunk)) <= maxSegmentWords {
			segments = append(segments, chunk)
			continue
		}
		segments = append(segments, splitSentences(chunk)...)
	}
	return segments
}

// splitSentences groups sentences into segments no longer than
// maxSegmentWords, keeping sentence boundaries intact.
func splitSentences(text string) []string {
	sentences := sentenceList(text)
	var segments []string
	var current []string
	currentWords := 0
	for _, sentence := range sentences {
		words := len(strings.Fields(sentence))
		if currentWords > 0 && currentWords+words > maxSegmentWords {
			segments = append(segments, strings.Join(current, " "))
			current = nil
			currentWords = 0
		}
		current = append(current, sentence)
		currentWords += words
	}
	if len(current) > 0 {
		segments = append(segments, strings.Join(current, " "))
	}
	return segments
}

func sentenceList(text string) []string {
	var sentences []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			sentence := strings.TrimSpace(b.String())
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			b.Reset()
		}
	}
	if tail := strings.TrimSpace(b.String()); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}
