// Package lesson defines the persisted lesson document: its typed records,
// a lenient JSON codec that preserves unknown fields, and shape validation.
package lesson

import "encoding/json"

// BlockType tags a content block.
type BlockType string

const (
	BlockExplanation  BlockType = "explanation"
	BlockCodeExercise BlockType = "code_exercise"
	BlockRealWorld    BlockType = "real_world"
	BlockMemoryAid    BlockType = "memory_aid"
	BlockQuiz         BlockType = "quiz"
	BlockReflection   BlockType = "reflection"
	BlockMindsetCoach BlockType = "mindset_coach"
)

// SectionOrder is the fixed block sequence of a rebuilt lesson.
var SectionOrder = []BlockType{
	BlockExplanation,
	BlockExplanation,
	BlockCodeExercise,
	BlockRealWorld,
	BlockMemoryAid,
	BlockQuiz,
	BlockReflection,
	BlockMindsetCoach,
}

// Valid reports whether b is a known block type.
func (b BlockType) Valid() bool {
	switch b {
	case BlockExplanation, BlockCodeExercise, BlockRealWorld, BlockMemoryAid,
		BlockQuiz, BlockReflection, BlockMindsetCoach:
		return true
	}
	return false
}

// Shape limits of a persisted lesson.
const (
	MinConcepts        = 4
	MinObjectives      = 4
	MaxObjectives      = 6
	MaxQuestions       = 3
	OptionsPerQuestion = 4

	MinDifficulty     = 1
	MaxDifficulty     = 3
	DefaultDifficulty = 2

	MinEstimatedTime     = 30
	MaxEstimatedTime     = 60
	DefaultEstimatedTime = 45
)

// QuestionTypeMultipleChoice is the only question type the assembler emits.
const QuestionTypeMultipleChoice = "multiple_choice"

type BlockContent struct {
	Text string `json:"text"`
}

type ContentBlock struct {
	Type    BlockType    `json:"type"`
	Content BlockContent `json:"content"`
}

// Question is one post-assessment multiple-choice item.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Difficulty    int      `json:"difficulty"`
	Type          string   `json:"type"`
}

// Lesson is a lesson document. Fields not modelled here are kept in extra
// and written back unchanged.
type Lesson struct {
	LessonID           string
	Domain             string
	Title              string
	Difficulty         int
	EstimatedTime      int
	Prerequisites      []string
	Concepts           []string
	LearningObjectives []string
	ContentBlocks      []ContentBlock
	PostAssessment     []Question

	extra map[string][]byte

	// prerequisites as read, written back verbatim while Prerequisites
	// still matches prereqText
	prereqRaw  []json.RawMessage
	prereqText []string

	// decode problems in sections that a rebuild replaces wholesale
	blocksErr     error
	assessmentErr error
}

// Normalize coerces difficulty into [MinDifficulty, MaxDifficulty] and
// estimated time into [MinEstimatedTime, MaxEstimatedTime]. Zero values
// take the defaults. Prerequisites are never nil after Normalize.
func (l *Lesson) Normalize() {
	switch {
	case l.Difficulty == 0:
		l.Difficulty = DefaultDifficulty
	case l.Difficulty < MinDifficulty:
		l.Difficulty = MinDifficulty
	case l.Difficulty > MaxDifficulty:
		l.Difficulty = MaxDifficulty
	}

	switch {
	case l.EstimatedTime == 0:
		l.EstimatedTime = DefaultEstimatedTime
	case l.EstimatedTime < MinEstimatedTime:
		l.EstimatedTime = MinEstimatedTime
	case l.EstimatedTime > MaxEstimatedTime:
		l.EstimatedTime = MaxEstimatedTime
	}

	if l.Prerequisites == nil {
		l.Prerequisites = []string{}
	}
}

// ReplaceBlocks swaps in a freshly built block list and clears any decode
// error recorded for the old one.
func (l *Lesson) ReplaceBlocks(blocks []ContentBlock) {
	l.ContentBlocks = blocks
	l.blocksErr = nil
}

// ReplaceAssessment swaps in a freshly synthesized question list.
func (l *Lesson) ReplaceAssessment(questions []Question) {
	l.PostAssessment = questions
	l.assessmentErr = nil
}

// Extra returns the raw JSON of an unmodelled top-level field.
func (l *Lesson) Extra(key string) ([]byte, bool) {
	v, ok := l.extra[key]
	return v, ok
}
