package parser

import (
	"context"
	"sort"
	"strings"

	appi18n "github.com/examdoc/examdoc/internal/i18n"
	"github.com/examdoc/examdoc/internal/model"
)

var sectionTypes = [3]model.QuestionType{
	model.TypeSingleChoice,
	model.TypeTrueFalse,
	model.TypeShortAnswer,
}

var sectionNameKeys = [3]string{"Section1Name", "Section2Name", "Section3Name"}
var sectionDescKeys = [3]string{"Section1Desc", "Section2Desc", "Section3Desc"}

// assemble renumbers the parsed questions globally, resolves their image
// references, and builds the final exam structure with its answer key.
// Each section is sorted by authored number (not document order) so that
// out-of-order authoring still yields an ordered exam; numbering them as
// section*100 + authored number keeps numbers unique across sections.
func assemble(ctx context.Context, parsed [3][]*parsedQuestion, assets []*model.ImageAsset) *model.ExamData {
	exam := &model.ExamData{
		AnswerKey: make(map[int]string),
		Images:    assets,
	}

	index := 0
	for sec := 0; sec < 3; sec++ {
		qs := parsed[sec]
		if len(qs) == 0 {
			continue
		}
		sort.SliceStable(qs, func(i, j int) bool { return qs[i].number < qs[j].number })

		section := model.Section{
			Index:       sec + 1,
			Name:        appi18n.T(ctx, sectionNameKeys[sec]),
			Description: appi18n.T(ctx, sectionDescKeys[sec]),
			Type:        sectionTypes[sec],
		}

		for _, pq := range qs {
			q := &model.Question{
				Number:         (sec+1)*100 + pq.number,
				AuthoredNumber: pq.number,
				Index:          index,
				Section:        sec + 1,
				SectionLabel:   section.Name,
				Type:           sectionTypes[sec],
				Stem:           Sanitize(pq.stem),
				CorrectAnswer:  pq.answer,
				Solution:       Sanitize(strings.Join(pq.solution, "\n")),
				Images:         resolveImages(pq.imageIDs, assets),
			}
			for _, opt := range pq.options {
				q.Options = append(q.Options, model.Option{
					Letter: opt.letter,
					Text:   Sanitize(opt.text),
				})
			}
			if q.CorrectAnswer != "" {
				exam.AnswerKey[q.Number] = q.CorrectAnswer
			}
			section.Questions = append(section.Questions, q)
			exam.Questions = append(exam.Questions, q)
			index++
		}

		exam.Sections = append(exam.Sections, section)
	}

	return exam
}

// resolveImages maps relationship ids to extracted assets. Direct id match
// first; when a container omits or scrambles ids for some embed forms, a
// substring match between the reference and the asset filename recovers it.
func resolveImages(refs []string, assets []*model.ImageAsset) []*model.ImageAsset {
	var out []*model.ImageAsset
	for _, ref := range refs {
		if img := resolveImage(ref, assets); img != nil {
			out = append(out, img)
		}
	}
	return out
}

func resolveImage(ref string, assets []*model.ImageAsset) *model.ImageAsset {
	for _, a := range assets {
		if a.RelID != "" && a.RelID == ref {
			return a
		}
	}
	for _, a := range assets {
		base := strings.TrimSuffix(a.Filename, pathExt(a.Filename))
		if strings.Contains(a.Filename, ref) || strings.Contains(ref, base) {
			return a
		}
	}
	return nil
}

func pathExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
