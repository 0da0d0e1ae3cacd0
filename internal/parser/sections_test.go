package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/examdoc/examdoc/internal/docx"
)

func textParas(texts ...string) []docx.Paragraph {
	paras := make([]docx.Paragraph, len(texts))
	for i, txt := range texts {
		paras[i] = docx.Paragraph{Text: txt}
	}
	return paras
}

func TestDetectSections_AllHeaders(t *testing.T) {
	paras := textParas(
		"Đề thi thử môn Toán",
		"PHẦN I. Câu trắc nghiệm nhiều phương án lựa chọn",
		"Câu 1. ...",
		"Phần II. Câu trắc nghiệm đúng sai",
		"Câu 1. ...",
		"PHẦN III. Câu trắc nghiệm trả lời ngắn",
		"Câu 1. ...",
	)
	spans := detectSections(paras)

	assert.Equal(t, sectionSpan{Start: 1, End: 3}, spans[0])
	assert.Equal(t, sectionSpan{Start: 3, End: 5}, spans[1])
	assert.Equal(t, sectionSpan{Start: 5, End: 7}, spans[2])
}

func TestDetectSections_DiacriticlessHeaders(t *testing.T) {
	paras := textParas(
		"PHAN 1. Trac nghiem",
		"Câu 1. ...",
		"PHAN 2. Dung sai",
		"Câu 1. ...",
	)
	spans := detectSections(paras)

	assert.Equal(t, 0, spans[0].Start)
	assert.Equal(t, 2, spans[1].Start)
	assert.Equal(t, sectionSpan{Start: 4, End: 4}, spans[2], "missing section 3 is empty at the end")
}

func TestDetectSections_NoHeaders(t *testing.T) {
	paras := textParas("Câu 1. one", "Câu 2. two")
	spans := detectSections(paras)

	assert.Equal(t, sectionSpan{Start: 0, End: 2}, spans[0], "headerless document is 100% section 1")
	assert.Equal(t, sectionSpan{Start: 2, End: 2}, spans[1])
	assert.Equal(t, sectionSpan{Start: 2, End: 2}, spans[2])
}

func TestDetectSections_KeywordHeaders(t *testing.T) {
	paras := textParas(
		"Câu trắc nghiệm nhiều phương án lựa chọn",
		"Câu 1. ...",
		"Trắc nghiệm đúng sai",
		"Câu 1. ...",
		"Trả lời ngắn",
		"Câu 1. ...",
	)
	spans := detectSections(paras)

	assert.Equal(t, 0, spans[0].Start)
	assert.Equal(t, 2, spans[1].Start)
	assert.Equal(t, 4, spans[2].Start)
}

func TestDetectSections_LaterSectionWithoutEarlier(t *testing.T) {
	paras := textParas(
		"Câu 1. plain question",
		"Phần III. Câu trắc nghiệm trả lời ngắn",
		"Câu 1. short one",
	)
	spans := detectSections(paras)

	assert.Equal(t, sectionSpan{Start: 0, End: 1}, spans[0])
	assert.Equal(t, sectionSpan{Start: 3, End: 3}, spans[1], "section 2 stays empty")
	assert.Equal(t, sectionSpan{Start: 1, End: 3}, spans[2])
}
