package content

import "github.com/p-n-ai/trade-courses/internal/assessment"

// Section is one page of a course, loaded from YAML.
type Section struct {
	ID     string `yaml:"id" json:"id"`
	Title  string `yaml:"title" json:"title"`
	Course string `yaml:"course" json:"course"` // e.g. electrical-installation, building-services
	Level  string `yaml:"level" json:"level,omitempty"`
	Order  int    `yaml:"order" json:"order"`
}

// Bank holds the assessments authored for one section (*.assessments.yaml).
type Bank struct {
	SectionID     string           `yaml:"section_id"`
	PassThreshold int              `yaml:"pass_threshold,omitempty"`
	InlineChecks  []InlineCheckDef `yaml:"inline_checks,omitempty"`
	Quizzes       []QuizDef        `yaml:"quizzes,omitempty"`
}

// QuizDef is an authored end-of-section quiz.
type QuizDef struct {
	ID            string                `yaml:"id"`
	Title         string                `yaml:"title,omitempty"`
	PassThreshold int                   `yaml:"pass_threshold,omitempty"`
	Questions     []assessment.Question `yaml:"questions"`
}

// InlineCheckDef is an authored single-question check.
type InlineCheckDef struct {
	ID       string              `yaml:"id"`
	Title    string              `yaml:"title,omitempty"`
	Question assessment.Question `yaml:"question"`
}

// WidgetDescriptor tells a page which widgets it hosts. It never includes
// answer keys or explanations.
type WidgetDescriptor struct {
	ID            string                    `json:"id"`
	Kind          assessment.WidgetKind     `json:"kind"`
	Title         string                    `json:"title,omitempty"`
	PassThreshold int                       `json:"pass_threshold,omitempty"`
	Questions     []assessment.QuestionView `json:"questions"`
}
