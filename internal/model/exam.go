package model

// QuestionType identifies the grading convention of a question.
type QuestionType string

const (
	// TypeSingleChoice is a four-option question with one correct letter A-D.
	TypeSingleChoice QuestionType = "single_choice"
	// TypeTrueFalse is a four-statement question graded per statement a-d.
	TypeTrueFalse QuestionType = "true_false"
	// TypeShortAnswer is a free-form question with a short expected answer.
	TypeShortAnswer QuestionType = "short_answer"
)

// ImageAsset is an image extracted from the document container.
// The payload is served and stored separately and never travels in JSON.
type ImageAsset struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	RelID       string `json:"rel_id,omitempty"`
	Payload     []byte `json:"-"`
}

// Option is a single answer option or true/false statement.
type Option struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// Question is a fully assembled exam question. Number encodes the section:
// section*100 + the number as authored, so numbers stay unique across
// sections even though authors restart numbering in each one.
type Question struct {
	Number         int           `json:"number"`
	AuthoredNumber int           `json:"authored_number"`
	Index          int           `json:"index"`
	Section        int           `json:"section"`
	SectionLabel   string        `json:"section_label"`
	Type           QuestionType  `json:"type"`
	Stem           string        `json:"stem"`
	Options        []Option      `json:"options,omitempty"`
	CorrectAnswer  string        `json:"correct_answer,omitempty"`
	Solution       string        `json:"solution,omitempty"`
	Images         []*ImageAsset `json:"images,omitempty"`
}

// Section is one of the three fixed exam divisions.
type Section struct {
	Index       int          `json:"index"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Type        QuestionType `json:"type"`
	Questions   []*Question  `json:"questions"`
}

// ExamData is the complete result of parsing one document. Questions holds
// the same objects referenced from Sections, flattened in exam order.
// AnswerKey maps encoded question numbers to correct answers and only
// contains entries for questions where an answer was found or inferred.
type ExamData struct {
	ID         string         `json:"id,omitempty"`
	Title      string         `json:"title"`
	TimeLimit  int            `json:"time_limit"`
	SourceHash string         `json:"source_hash,omitempty"`
	Sections   []Section      `json:"sections"`
	Questions  []*Question    `json:"questions"`
	AnswerKey  map[int]string `json:"answer_key"`
	Images     []*ImageAsset  `json:"images,omitempty"`
}

// QuestionCount returns the total number of questions.
func (e *ExamData) QuestionCount() int {
	return len(e.Questions)
}

// ImageByID returns the image asset with the given ID, or nil.
func (e *ExamData) ImageByID(id string) *ImageAsset {
	for _, img := range e.Images {
		if img.ID == id {
			return img
		}
	}
	return nil
}
