package model

// ValidationReport is the result of checking a parsed exam for structural
// problems. The parser itself never refuses to produce output; callers that
// care about quality run validation as a separate pass.
type ValidationReport struct {
	Valid         bool        `json:"valid"`
	Errors        []string    `json:"errors"`
	QuestionCount int         `json:"question_count"`
	SectionCounts map[int]int `json:"section_counts"`
	WithAnswer    int         `json:"with_answer"`
	WithoutAnswer int         `json:"without_answer"`
}

// ExamSummary is a stored exam's listing entry, without questions or images.
type ExamSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	TimeLimit     int    `json:"time_limit"`
	QuestionCount int    `json:"question_count"`
	CreatedAt     string `json:"created_at"`
}
