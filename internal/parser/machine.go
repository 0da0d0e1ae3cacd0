package parser

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/examdoc/examdoc/internal/docx"
)

// Markers shared by all three section dialects. Each covers the diacritic
// and diacritic-less spellings seen in the wild.
var (
	// questionRe matches a localized "Câu N." question start and captures the
	// authored number plus any trailing text on the same line.
	questionRe = regexp.MustCompile(`(?i)^\s*c(?:â|a)u\s*(\d+)\s*[.:)]?\s*(.*)$`)

	// solutionRe matches a localized "Lời giải" / "Hướng dẫn giải" marker and
	// captures trailing text.
	solutionRe = regexp.MustCompile(`(?i)^\s*(?:l(?:ờ|ơ|o)i\s+gi(?:ả|a)i|h(?:ư|u)(?:ớ|ơ|o)ng\s+d(?:ẫ|â|a)n(?:\s+gi(?:ả|a)i)?)\s*[.:]*\s*(.*)$`)

	// figureRe matches a localized "Hình N" figure caption.
	figureRe = regexp.MustCompile(`(?i)^\s*h(?:ì|i)nh\s*\d+`)

	// singleLetterRe resolves an underlined segment to a bare option letter.
	singleLetterRe = regexp.MustCompile(`^\s*([A-Da-d])\s*[.)]?\s*$`)
)

type state int

const (
	seekingQuestion state = iota
	collectingStem
	collectingOptions
	collectingSolution
)

// option is a (letter, text) pair in authoring order.
type option struct {
	letter string
	text   string
}

// parsedQuestion is the mutable accumulator owned by a single state machine
// run. It is converted into an immutable model.Question by the assembler and
// discarded.
type parsedQuestion struct {
	number     int
	stem       string
	stemParts  []string
	options    []option
	answer     string
	solution   []string
	imageIDs   []string
	underlined []string // letters recorded as underlined, in encounter order
}

// flushStem joins the buffered stem fragments into the stem field, once.
// Later fragments never overwrite an already-set stem.
func (q *parsedQuestion) flushStem() {
	if q.stem == "" && len(q.stemParts) > 0 {
		q.stem = strings.Join(q.stemParts, " ")
	}
	q.stemParts = nil
}

func (q *parsedQuestion) addImages(ids []string) {
	for _, id := range ids {
		found := false
		for _, have := range q.imageIDs {
			if have == id {
				found = true
				break
			}
		}
		if !found {
			q.imageIDs = append(q.imageIDs, id)
		}
	}
}

// noteLetter records a letter as underlined. Re-recording is harmless: the
// single-choice inference takes the first entry, the true/false inference
// builds a set.
func (q *parsedQuestion) noteLetter(letter string) {
	q.underlined = append(q.underlined, letter)
}

// noteSegments records every underlined text segment that resolves to a bare
// option letter.
func (q *parsedQuestion) noteSegments(segments []string) {
	for _, seg := range segments {
		if m := singleLetterRe.FindStringSubmatch(seg); m != nil {
			q.noteLetter(m[1])
		}
	}
}

// dialect parameterizes the shared state machine for one section type. The
// three sections differ only in their option pattern, their explicit-answer
// marker, and how a missing answer is inferred; everything else (question and
// solution markers, figure handling, multiline continuations) is common.
type dialect struct {
	section        int
	optionRe       *regexp.Regexp                 // nil: no option/statement lines
	answerRe       *regexp.Regexp                 // nil: no explicit-answer marker
	answerFrom     func(m []string) string        // builds the answer from an answerRe match
	inferAnswer    func(q *parsedQuestion) string // fallback when no explicit marker fired
	trackUnderline bool
}

// run converts one section's paragraph sub-range into parsed questions.
func (d dialect) run(paras []docx.Paragraph) []*parsedQuestion {
	var out []*parsedQuestion
	var cur *parsedQuestion
	st := seekingQuestion

	flush := func() {
		if cur == nil {
			return
		}
		cur.flushStem()
		if strings.TrimSpace(cur.stem) == "" {
			// Tolerates stray numbered fragments: informational, not an error.
			slog.Debug("discarding question with empty stem",
				"section", d.section, "number", cur.number)
			cur = nil
			return
		}
		if cur.answer == "" && d.inferAnswer != nil {
			cur.answer = d.inferAnswer(cur)
		}
		out = append(out, cur)
		cur = nil
	}

	for _, p := range paras {
		if m := questionRe.FindStringSubmatch(p.Text); m != nil {
			flush()
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			cur = &parsedQuestion{number: n}
			cur.addImages(p.ImageIDs)
			if rest := strings.TrimSpace(m[2]); rest != "" {
				cur.stemParts = append(cur.stemParts, rest)
			}
			st = collectingStem
			continue
		}

		if cur == nil {
			// Narrative before the first question marker (section headers,
			// instructions) carries no question content.
			continue
		}

		cur.addImages(p.ImageIDs)
		if d.trackUnderline {
			cur.noteSegments(p.Underlined)
		}

		// Figure captions attach their images and contribute no text.
		if figureRe.MatchString(p.Text) {
			continue
		}

		if m := solutionRe.FindStringSubmatch(p.Text); m != nil {
			cur.flushStem()
			st = collectingSolution
			if rest := strings.TrimSpace(m[1]); rest != "" {
				cur.solution = append(cur.solution, rest)
			}
			continue
		}

		// An explicit answer marker overrides any inference and is never
		// treated as content.
		if d.answerRe != nil {
			if m := d.answerRe.FindStringSubmatch(p.Text); m != nil {
				cur.answer = d.answerFrom(m)
				continue
			}
		}

		switch st {
		case collectingStem:
			if d.optionRe != nil {
				if m := d.optionRe.FindStringSubmatch(p.Text); m != nil {
					cur.flushStem()
					st = collectingOptions
					d.appendOption(cur, m, p)
					continue
				}
			}
			if p.Text != "" {
				cur.stemParts = append(cur.stemParts, p.Text)
			}

		case collectingOptions:
			if m := d.optionRe.FindStringSubmatch(p.Text); m != nil {
				d.appendOption(cur, m, p)
				continue
			}
			if p.Text == "" {
				continue
			}
			// Multiline continuation of the most recently opened option.
			last := &cur.options[len(cur.options)-1]
			last.text = joinFragments(last.text, p.Text)
			if d.trackUnderline && p.HasUnderline {
				cur.noteLetter(last.letter)
			}

		case collectingSolution:
			if p.Text != "" {
				cur.solution = append(cur.solution, p.Text)
			}
		}
	}

	flush()
	return out
}

func (d dialect) appendOption(q *parsedQuestion, m []string, p docx.Paragraph) {
	q.options = append(q.options, option{
		letter: m[1],
		text:   strings.TrimSpace(m[2]),
	})
	if d.trackUnderline && p.HasUnderline {
		q.noteLetter(m[1])
	}
}

func joinFragments(a, b string) string {
	if a == "" {
		return b
	}
	return a + " " + b
}
