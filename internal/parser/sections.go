package parser

import (
	"regexp"

	"github.com/examdoc/examdoc/internal/docx"
)

// sectionPatterns holds the ordered heuristic alternatives that mark the
// start of each of the three sections. Header spellings vary wildly between
// documents: diacritic and diacritic-less forms, Roman or Arabic numerals,
// and headers that only name the question style. First match wins within a
// section's list.
var sectionPatterns = [3][]*regexp.Regexp{
	{
		regexp.MustCompile(`(?i)^\s*ph(?:ầ|â|a)n\s*(?:i|1)\b`),
		regexp.MustCompile(`(?i)c(?:â|a)u\s+tr(?:ắ|ă|a)c\s+nghi(?:ệ|ê|e)m\s+nhi(?:ề|ê|e)u\s+ph(?:ư|u)(?:ơ|o)ng\s+(?:á|a)n`),
	},
	{
		regexp.MustCompile(`(?i)^\s*ph(?:ầ|â|a)n\s*(?:ii|2)\b`),
		regexp.MustCompile(`(?i)tr(?:ắ|ă|a)c\s+nghi(?:ệ|ê|e)m\s+(?:đ|d)(?:ú|u)ng\s*[/\-]?\s*sai`),
		regexp.MustCompile(`(?i)\b(?:đ|d)(?:ú|u)ng\s*/\s*sai\b`),
	},
	{
		regexp.MustCompile(`(?i)^\s*ph(?:ầ|â|a)n\s*(?:iii|3)\b`),
		regexp.MustCompile(`(?i)tr(?:ả|a)\s+l(?:ờ|ơ|o)i\s+ng(?:ắ|ă|a)n`),
	},
}

// sectionSpan is a half-open paragraph range [Start, End) belonging to one
// section.
type sectionSpan struct {
	Start, End int
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// detectSections scans the paragraph stream once and fixes the start of each
// section. Sections 2 and 3 only lock in after the preceding section's start
// (a "Phần II" lookalike inside section 1 prose cannot hijack the split when
// the real header came first, and ordering is preserved when it exists).
// Missing headers fall back to the defaults: section 1 starts at the top of
// the document, sections 2 and 3 collapse to empty ranges at the end. A
// document without any headers is therefore treated as 100% section 1.
func detectSections(paras []docx.Paragraph) [3]sectionSpan {
	first := func(sec, from int) int {
		for i := from; i < len(paras); i++ {
			if matchAny(sectionPatterns[sec], paras[i].Text) {
				return i
			}
		}
		return -1
	}

	i1 := first(0, 0)
	after1 := 0
	if i1 >= 0 {
		after1 = i1 + 1
	}
	i2 := first(1, after1)
	after2 := after1
	if i2 >= 0 {
		after2 = i2 + 1
	}
	i3 := first(2, after2)

	end := len(paras)
	var spans [3]sectionSpan

	start1 := 0
	if i1 >= 0 {
		start1 = i1
	}
	end1 := end
	if i2 >= 0 {
		end1 = i2
	} else if i3 >= 0 {
		end1 = i3
	}
	spans[0] = sectionSpan{Start: start1, End: end1}

	if i2 >= 0 {
		end2 := end
		if i3 >= 0 {
			end2 = i3
		}
		spans[1] = sectionSpan{Start: i2, End: end2}
	} else {
		spans[1] = sectionSpan{Start: end, End: end}
	}

	if i3 >= 0 {
		spans[2] = sectionSpan{Start: i3, End: end}
	} else {
		spans[2] = sectionSpan{Start: end, End: end}
	}

	return spans
}
