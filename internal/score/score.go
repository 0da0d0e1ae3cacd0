// Package score grades a submitted answer map against a parsed exam's answer
// key. Grading is deterministic: each question type has a fixed comparison
// rule over the key's normalized answer format.
package score

import (
	"sort"
	"strings"

	"github.com/examdoc/examdoc/internal/model"
)

// QuestionScore is the grading outcome for one question.
type QuestionScore struct {
	Number    int    `json:"number"`
	Graded    bool   `json:"graded"`
	Correct   bool   `json:"correct"`
	Expected  string `json:"expected,omitempty"`
	Submitted string `json:"submitted,omitempty"`
	// LetterMatches counts matching statement letters for true/false
	// questions; zero for other types.
	LetterMatches int `json:"letter_matches,omitempty"`
}

// Result aggregates grading over a whole exam. Questions without an answer
// key entry, and questions the student left unanswered, are ungraded.
type Result struct {
	Total   int             `json:"total"`
	Graded  int             `json:"graded"`
	Correct int             `json:"correct"`
	Score   float64         `json:"score"`
	Details []QuestionScore `json:"details"`
}

// Grade grades submitted answers, keyed by encoded question number.
func Grade(exam *model.ExamData, answers map[int]string) *Result {
	res := &Result{Total: len(exam.Questions)}

	for _, q := range exam.Questions {
		qs := QuestionScore{Number: q.Number, Expected: q.CorrectAnswer}
		submitted, answered := answers[q.Number]
		qs.Submitted = strings.TrimSpace(submitted)

		if q.CorrectAnswer == "" || !answered || qs.Submitted == "" {
			res.Details = append(res.Details, qs)
			continue
		}

		qs.Graded = true
		res.Graded++

		switch q.Type {
		case model.TypeSingleChoice:
			qs.Correct = strings.ToUpper(qs.Submitted) == q.CorrectAnswer
		case model.TypeTrueFalse:
			expected := letterSet(q.CorrectAnswer)
			got := letterSet(qs.Submitted)
			qs.Correct = strings.Join(got, ",") == strings.Join(expected, ",")
			qs.LetterMatches = countMatches(expected, got)
		default:
			qs.Correct = strings.EqualFold(qs.Submitted, strings.TrimSpace(q.CorrectAnswer))
		}

		if qs.Correct {
			res.Correct++
		}
		res.Details = append(res.Details, qs)
	}

	if res.Graded > 0 {
		res.Score = float64(res.Correct) / float64(res.Graded) * 10
	}
	return res
}

// letterSet normalizes a comma-joined letter list: trimmed, lowercased,
// deduplicated, sorted.
func letterSet(s string) []string {
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		letter := strings.ToLower(strings.TrimSpace(part))
		if letter != "" {
			seen[letter] = true
		}
	}
	letters := make([]string, 0, len(seen))
	for l := range seen {
		letters = append(letters, l)
	}
	sort.Strings(letters)
	return letters
}

func countMatches(expected, got []string) int {
	inExpected := make(map[string]bool, len(expected))
	for _, l := range expected {
		inExpected[l] = true
	}
	n := 0
	for _, l := range got {
		if inExpected[l] {
			n++
		}
	}
	return n
}
