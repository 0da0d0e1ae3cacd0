package parser

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// choiceOptionRe matches a single-choice option "A. text" / "B) text".
	choiceOptionRe = regexp.MustCompile(`^\s*([A-D])\s*[.)]\s*(.*)$`)

	// chooseAnswerRe matches the explicit single-choice answer marker
	// "Chọn B" / "Chon B".
	chooseAnswerRe = regexp.MustCompile(`(?i)^\s*ch(?:ọ|o)n\s+([A-Da-d])\b`)

	// statementRe matches a true/false statement "a) text" / "b. text".
	statementRe = regexp.MustCompile(`^\s*([a-d])\s*[.)]\s*(.*)$`)

	// shortAnswerRe matches the short-answer key line "Đáp án: 12,5",
	// optionally preceded by an asterisk. The remainder of the line is the
	// answer, verbatim. A stem sentence that happens to start this way is an
	// accepted false positive: the source format has no way to escape it.
	shortAnswerRe = regexp.MustCompile(`(?i)^\s*\*?\s*(?:đ|d)(?:á|a)p\s*(?:á|a)n\s*[:.]\s*(.*)$`)
)

// inferChoiceAnswer takes the first recorded underlined letter. Contradictory
// marking (several underlined letters) deliberately resolves to the first in
// encounter order; authors rely on that.
func inferChoiceAnswer(q *parsedQuestion) string {
	if len(q.underlined) == 0 {
		return ""
	}
	return strings.ToUpper(q.underlined[0])
}

// inferStatementAnswer builds the set of underlined statement letters: sorted
// alphabetically, comma-joined. An empty set leaves the question ungraded.
func inferStatementAnswer(q *parsedQuestion) string {
	set := make(map[string]bool)
	for _, letter := range q.underlined {
		l := strings.ToLower(letter)
		if l >= "a" && l <= "d" {
			set[l] = true
		}
	}
	if len(set) == 0 {
		return ""
	}
	letters := make([]string, 0, len(set))
	for l := range set {
		letters = append(letters, l)
	}
	sort.Strings(letters)
	return strings.Join(letters, ",")
}

// dialects returns the three section dialects in section order.
func dialects() [3]dialect {
	return [3]dialect{
		{
			section:        1,
			optionRe:       choiceOptionRe,
			answerRe:       chooseAnswerRe,
			answerFrom:     func(m []string) string { return strings.ToUpper(m[1]) },
			inferAnswer:    inferChoiceAnswer,
			trackUnderline: true,
		},
		{
			section:        2,
			optionRe:       statementRe,
			inferAnswer:    inferStatementAnswer,
			trackUnderline: true,
		},
		{
			section:  3,
			answerRe: shortAnswerRe,
			answerFrom: func(m []string) string {
				return strings.TrimSpace(m[1])
			},
		},
	}
}
