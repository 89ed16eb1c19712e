package assembler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/lessonsmith/internal/lesson"
	"github.com/alexanderramin/lessonsmith/internal/phrase"
	"github.com/alexanderramin/lessonsmith/internal/wordcount"
)

func defaultAssembler(t *testing.T) (*Assembler, *phrase.Library) {
	t.Helper()
	lib, err := phrase.Default()
	require.NoError(t, err)
	a, err := New(lib, DefaultPolicy())
	require.NoError(t, err)
	return a, lib
}

func tinyLibrary(t *testing.T) *phrase.Library {
	t.Helper()
	item := func(name string) phrase.Item { return phrase.Item{Name: name, Detail: "helps"} }
	lib, err := phrase.New(map[string]phrase.Entry{
		"tiny": {
			Tools:             []phrase.Item{item("grep"), item("find")},
			Telemetry:         []phrase.Item{item("syslog")},
			Attacks:           []phrase.Item{item("a1"), item("a2")},
			Incidents:         []phrase.Item{item("i1")},
			Pitfalls:          []string{"P1", "P2", "P3"},
			Troubleshooting:   []string{"Retry."},
			MemoryHooks:       []string{"Hook."},
			ReflectionPrompts: []string{"Why?"},
			Encouragement:     []string{"Go on."},
			NextSteps:         []string{"Do it."},
			Commands:          []string{"ls"},
			CaseStudies:       []string{"Case."},
		},
	})
	require.NoError(t, err)
	return lib
}

func newLesson(domain string, concepts ...string) *lesson.Lesson {
	return &lesson.Lesson{
		LessonID: "lesson_" + domain + "_1",
		Domain:   domain,
		Title:    "Test Lesson",
		Concepts: concepts,
	}
}

func assertBands(t *testing.T, l *lesson.Lesson, p Policy) {
	t.Helper()
	require.Len(t, l.ContentBlocks, len(lesson.SectionOrder))
	total := 0
	for i, b := range l.ContentBlocks {
		assert.Equal(t, lesson.SectionOrder[i], b.Type, "block %d", i)
		n := wordcount.Count(b.Content.Text)
		if b.Type == lesson.BlockExplanation {
			assert.GreaterOrEqual(t, n, p.ExplanationMin, "explanation block %d", i)
			assert.LessOrEqual(t, n, p.ExplanationMax, "explanation block %d", i)
		}
		total += n
	}
	assert.GreaterOrEqual(t, total, p.DocumentMin)
	assert.LessOrEqual(t, total, p.DocumentMax)
}

func TestRebuild_EveryDomainStaysWithinBands(t *testing.T) {
	a, lib := defaultAssembler(t)
	conceptSets := map[string][]string{
		"none": nil,
		"four": {"Initial access", "Execution", "Persistence", "Exfiltration"},
		"many": func() []string {
			var cs []string
			for i := 0; i < 25; i++ {
				cs = append(cs, fmt.Sprintf("Detailed concept number %d with a long descriptive name", i))
			}
			return cs
		}(),
	}

	for _, domain := range lib.Domains() {
		for name, concepts := range conceptSets {
			t.Run(domain+"/"+name, func(t *testing.T) {
				l := newLesson(domain, concepts...)
				require.NoError(t, a.Rebuild(l))
				assertBands(t, l, a.Policy())
				assert.Empty(t, lesson.Validate(l))
			})
		}
	}
}

func TestRebuild_TinyLibraryPadsLastSection(t *testing.T) {
	a, err := New(tinyLibrary(t), DefaultPolicy())
	require.NoError(t, err)

	l := newLesson("tiny")
	require.NoError(t, a.Rebuild(l))
	assertBands(t, l, a.Policy())
	assert.Equal(t, []string{"a1", "a2", "grep", "find"}, l.Concepts)
	assert.Empty(t, lesson.Validate(l))

	last := l.ContentBlocks[len(l.ContentBlocks)-1].Content.Text
	assert.Contains(t, last, "Sustained Practice 1:")
	for _, b := range l.ContentBlocks[:len(l.ContentBlocks)-1] {
		assert.NotContains(t, b.Content.Text, "Sustained Practice")
	}
}

func TestRebuild_BackfillsConceptsFromLibrary(t *testing.T) {
	a, lib := defaultAssembler(t)
	l := newLesson("dfir")
	require.NoError(t, a.Rebuild(l))

	entry, err := lib.Get("dfir")
	require.NoError(t, err)
	allowed := append(phrase.Names(entry.Attacks), phrase.Names(entry.Tools)...)

	assert.GreaterOrEqual(t, len(l.Concepts), lesson.MinConcepts)
	for _, c := range l.Concepts {
		assert.Contains(t, allowed, c)
	}
	assert.Equal(t, entry.Attacks[0].Name, l.Concepts[0], "attacks are drawn first")
}

func TestBackfillConcepts_FallsBackToToolsWithoutDuplicates(t *testing.T) {
	lib := tinyLibrary(t)
	entry, err := lib.Get("tiny")
	require.NoError(t, err)

	got := backfillConcepts([]string{" a1 ", "", "Custom"}, entry, 4)
	assert.Equal(t, []string{"a1", "Custom", "a2", "grep"}, got)
}

func TestRebuild_KeepsExistingConceptsAndObjectives(t *testing.T) {
	a, _ := defaultAssembler(t)
	l := newLesson("cloud_security", "IAM roles", "Bucket policies", "CloudTrail", "Key rotation", "Guardrails")
	l.LearningObjectives = []string{"Audit an IAM policy."}
	require.NoError(t, a.Rebuild(l))

	assert.Equal(t, []string{"IAM roles", "Bucket policies", "CloudTrail", "Key rotation", "Guardrails"}, l.Concepts)
	assert.Equal(t, "Audit an IAM policy.", l.LearningObjectives[0])
	assert.GreaterOrEqual(t, len(l.LearningObjectives), lesson.MinObjectives)
	assert.LessOrEqual(t, len(l.LearningObjectives), lesson.MaxObjectives)
}

func TestRebuild_NormalizesMetadata(t *testing.T) {
	a, _ := defaultAssembler(t)
	l := newLesson("red_team")
	l.Difficulty = 7
	l.EstimatedTime = 5
	require.NoError(t, a.Rebuild(l))

	assert.Equal(t, 3, l.Difficulty)
	assert.Equal(t, 30, l.EstimatedTime)
	assert.NotNil(t, l.Prerequisites)
	for _, q := range l.PostAssessment {
		assert.Equal(t, 3, q.Difficulty)
	}
}

func TestRebuild_UnknownDomainLeavesLessonUntouched(t *testing.T) {
	a, _ := defaultAssembler(t)
	l := newLesson("quantum_security")
	before := *l

	err := a.Rebuild(l)
	require.ErrorIs(t, err, phrase.ErrUnknownDomain)
	assert.Contains(t, err.Error(), "quantum_security")
	if diff := cmp.Diff(&before, l, cmpopts.IgnoreUnexported(lesson.Lesson{})); diff != "" {
		t.Errorf("lesson changed (-before +after):\n%s", diff)
	}
}

func TestRebuild_IsDeterministic(t *testing.T) {
	a, _ := defaultAssembler(t)
	first := newLesson("threat_hunting", "Beaconing")
	second := newLesson("threat_hunting", "Beaconing")
	require.NoError(t, a.Rebuild(first))
	require.NoError(t, a.Rebuild(second))

	if diff := cmp.Diff(first, second, cmpopts.IgnoreUnexported(lesson.Lesson{})); diff != "" {
		t.Errorf("rebuilds differ:\n%s", diff)
	}

	again := *first
	require.NoError(t, a.Rebuild(&again))
	if diff := cmp.Diff(first, &again, cmpopts.IgnoreUnexported(lesson.Lesson{})); diff != "" {
		t.Errorf("rebuilding a rebuilt lesson changed it:\n%s", diff)
	}
}

func TestAssessment_ShuffledAnswersTrackCorrectOption(t *testing.T) {
	a, _ := defaultAssembler(t)
	offsets := map[int]bool{}
	for i := 0; i < 20; i++ {
		l := newLesson("windows_forensics")
		l.LessonID = fmt.Sprintf("lesson_windows_forensics_%d", i)
		require.NoError(t, a.Rebuild(l))
		require.Len(t, l.PostAssessment, 3)

		for _, q := range l.PostAssessment {
			require.Len(t, q.Options, lesson.OptionsPerQuestion)
			assert.True(t, strings.HasPrefix(q.Options[q.CorrectAnswer], "Use "), q.Options[q.CorrectAnswer])
			assert.Equal(t, lesson.QuestionTypeMultipleChoice, q.Type)
			offsets[q.CorrectAnswer] = true
		}
	}
	assert.Greater(t, len(offsets), 1, "correct answers should not all share one position")
}

func TestAssessment_UnshuffledAnswerIsFirst(t *testing.T) {
	lib, err := phrase.Default()
	require.NoError(t, err)
	p := DefaultPolicy()
	p.ShuffleAnswers = false
	a, err := New(lib, p)
	require.NoError(t, err)

	l := newLesson("dfir")
	require.NoError(t, a.Rebuild(l))
	for i, q := range l.PostAssessment {
		assert.Equal(t, 0, q.CorrectAnswer)
		assert.Contains(t, q.Options[0], l.Concepts[i])
		distractors := map[string]bool{}
		for _, o := range q.Options[1:] {
			distractors[o] = true
		}
		assert.Len(t, distractors, 3, "distractors are distinct")
	}
}

func TestRotate(t *testing.T) {
	out, idx := rotate([]string{"a", "b", "c", "d"}, 2)
	assert.Equal(t, []string{"c", "d", "a", "b"}, out)
	assert.Equal(t, 2, idx)
	assert.Equal(t, "a", out[idx])
}

func TestEnforceDocument_TrimRespectsFloor(t *testing.T) {
	lib := tinyLibrary(t)
	entry, err := lib.Get("tiny")
	require.NoError(t, err)

	p := DefaultPolicy()
	p.DocumentMin = 1
	p.DocumentMax = 10
	a := &Assembler{lib: lib, policy: p}

	first := &section{blockType: lesson.BlockExplanation, paragraphs: []string{"one two three four five"}}
	last := &section{blockType: lesson.BlockMindsetCoach, paragraphs: []string{"a b", "c d", "e f", "g h", "i j"}}
	a.enforceDocument([]*section{first, last}, entry)

	assert.Equal(t, []string{"one two three four five"}, first.paragraphs, "earlier sections are never touched")
	assert.Equal(t, []string{"a b", "c d"}, last.paragraphs[:2])
	assert.Len(t, last.paragraphs, 3, "trimming stops at the floor")
}

func TestExplanationBand_DropsTrailingThenClamps(t *testing.T) {
	lib := tinyLibrary(t)
	entry, err := lib.Get("tiny")
	require.NoError(t, err)
	p := DefaultPolicy()
	p.ExplanationMin = 5
	p.ExplanationMax = 8
	a := &Assembler{lib: lib, policy: p}

	got := a.explanationBand([]string{"one two three", "four five six", "seven eight nine"}, entry, 0)
	assert.Equal(t, []string{"one two three", "four five six"}, got)

	got = a.explanationBand([]string{"w w w w w w w w w w w w"}, entry, 0)
	assert.Equal(t, 8, wordcount.CountAll(got))
}

func TestPolicyValidate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())

	p := DefaultPolicy()
	p.ExplanationMin = 2000
	p.TrailingFloor = 0
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explanation band")
	assert.Contains(t, err.Error(), "trailing_floor")

	_, err = New(nil, DefaultPolicy())
	assert.Error(t, err)
}

func TestComputeStats(t *testing.T) {
	a, _ := defaultAssembler(t)
	l := newLesson("dfir")
	require.NoError(t, a.Rebuild(l))

	st := ComputeStats(l)
	require.Len(t, st.Sections, 8)
	sum := 0
	for _, s := range st.Sections {
		sum += s.Words
	}
	assert.Equal(t, sum, st.Total)
	assert.Equal(t, 3, st.Questions)
	assert.True(t, st.WithinBands(a.Policy()))
}

func TestLowerFirst(t *testing.T) {
	assert.Equal(t, "trusting a timestamp", lowerFirst("Trusting a timestamp"))
	assert.Equal(t, "MFT gaps", lowerFirst("MFT gaps"))
	assert.Equal(t, "", lowerFirst(""))
}
