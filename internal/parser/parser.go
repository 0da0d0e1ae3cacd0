// Package parser reconstructs a structured exam from a word-processing
// document: three pedagogically distinct sections of questions with stems,
// options, inferred or explicit answers, worked solutions, and embedded
// diagrams. Authoring is inconsistent by nature, so every stage is a
// best-effort heuristic with a fallback branch; the parser degrades to
// low-quality output rather than refusing to produce a result.
package parser

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/examdoc/examdoc/internal/docx"
	appi18n "github.com/examdoc/examdoc/internal/i18n"
	"github.com/examdoc/examdoc/internal/model"
)

// DefaultTimeLimit is the exam duration in minutes when the caller does not
// supply one; the documents themselves never encode it.
const DefaultTimeLimit = 90

// Options carries caller-supplied metadata the document cannot provide.
type Options struct {
	Title     string // overrides the container's document title
	TimeLimit int    // minutes; 0 means DefaultTimeLimit
}

// Parse converts a packaged document into a complete ExamData. It fails only
// when the container cannot be opened or the main document part is absent;
// everything else degrades with a warning.
func Parse(ctx context.Context, data []byte, opts Options) (*model.ExamData, error) {
	arch, err := docx.OpenArchive(data)
	if err != nil {
		return nil, err
	}

	paras, err := arch.Paragraphs()
	if err != nil {
		return nil, err
	}
	assets := arch.MediaAssets()

	spans := detectSections(paras)

	var parsed [3][]*parsedQuestion
	for i, d := range dialects() {
		span := spans[i]
		parsed[i] = d.run(paras[span.Start:span.End])
	}

	exam := assemble(ctx, parsed, assets)

	exam.Title = opts.Title
	if exam.Title == "" {
		exam.Title = arch.Title()
	}
	if exam.Title == "" {
		exam.Title = appi18n.T(ctx, "DefaultExamTitle")
	}
	exam.TimeLimit = opts.TimeLimit
	if exam.TimeLimit <= 0 {
		exam.TimeLimit = DefaultTimeLimit
	}

	sum := sha256.Sum256(data)
	exam.SourceHash = hex.EncodeToString(sum[:])

	slog.Info("parsed exam",
		"title", exam.Title,
		"questions", len(exam.Questions),
		"sections", len(exam.Sections),
		"images", len(exam.Images),
		"answers", len(exam.AnswerKey),
	)
	return exam, nil
}
