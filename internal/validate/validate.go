// Package validate checks a parsed exam for structural problems. The parser
// itself never rejects a document; callers that need a quality gate run this
// pass over its output.
package validate

import (
	"context"

	appi18n "github.com/examdoc/examdoc/internal/i18n"
	"github.com/examdoc/examdoc/internal/model"
)

// Check builds a validation report for the exam: one error per question with
// empty stem text, plus aggregate counts by section and by answer presence.
func Check(ctx context.Context, exam *model.ExamData) *model.ValidationReport {
	report := &model.ValidationReport{
		Errors:        []string{},
		QuestionCount: len(exam.Questions),
		SectionCounts: make(map[int]int),
	}

	for _, q := range exam.Questions {
		report.SectionCounts[q.Section]++
		if q.CorrectAnswer != "" {
			report.WithAnswer++
		} else {
			report.WithoutAnswer++
		}
		if q.Stem == "" {
			report.Errors = append(report.Errors,
				appi18n.Td(ctx, "ValidationEmptyStem", map[string]any{"Number": q.Number}))
		}
	}

	report.Valid = len(report.Errors) == 0
	return report
}
