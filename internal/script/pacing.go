package script

import "strings"

// wordsPerMinute is the narration pacing per grade. Younger listeners get
// slower, simpler speech; the target word count scales accordingly.
var wordsPerMinute = map[string]float64{
	"K": 100,
	"1": 110,
	"2": 120,
	"3": 130,
	"4": 140,
	"5": 145,
	"6": 150,
}

const defaultWordsPerMinute = 130

// WordsPerMinute returns the narration pacing for a grade.
func WordsPerMinute(grade string) float64 {
	grade = strings.TrimSpace(grade)
	if strings.EqualFold(grade, "kindergarten") {
		grade = "K"
	}
	grade = strings.ToUpper(grade)
	if wpm, ok := wordsPerMinute[grade]; ok {
		return wpm
	}
	return defaultWordsPerMinute
}

// TargetWordCount derives the word budget for a lesson of the given length.
func TargetWordCount(grade string, targetMinutes int) int {
	if targetMinutes <= 0 {
		targetMinutes = 10
	}
	return int(WordsPerMinute(grade) * float64(targetMinutes))
}
