package assembler

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alexanderramin/lessonsmith/internal/lesson"
	"github.com/alexanderramin/lessonsmith/internal/phrase"
	"github.com/alexanderramin/lessonsmith/internal/wordcount"
)

type section struct {
	blockType  lesson.BlockType
	paragraphs []string
}

func (s *section) words() int {
	return wordcount.CountAll(s.paragraphs)
}

// builder produces the raw paragraphs of one section before any bound is
// applied.
type builder func(l *lesson.Lesson, e *phrase.Entry) []string

// buildSections returns the eight sections in lesson.SectionOrder. The two
// explanation sections are held to the explanation band; every other
// section is capped at SupportingMax and sees at most SupportingConcepts
// concepts.
func (a *Assembler) buildSections(l *lesson.Lesson, e *phrase.Entry) []*section {
	builders := []builder{
		foundations,
		investigation,
		codeExercise,
		realWorld,
		memoryAid,
		quizPrompts,
		reflection,
		mindsetCoach,
	}

	supporting := *l
	supporting.Concepts = l.Concepts[:min(len(l.Concepts), a.policy.SupportingConcepts)]

	sections := make([]*section, len(builders))
	for i, build := range builders {
		bt := lesson.SectionOrder[i]
		var paras []string
		if bt == lesson.BlockExplanation {
			paras = a.explanationBand(build(l, e), e, i)
		} else {
			paras = wordcount.Paragraphs(wordcount.Clamp(wordcount.Join(build(&supporting, e)), a.policy.SupportingMax))
		}
		sections[i] = &section{blockType: bt, paragraphs: paras}
	}
	return sections
}

// explanationBand pads paras up to ExplanationMin, drops trailing
// paragraphs (never the first) down to ExplanationMax, pads again if the
// drop undershot, and finally clamps. seed offsets the padding cycle so the
// two explanation sections do not repeat each other.
func (a *Assembler) explanationBand(paras []string, e *phrase.Entry, seed int) []string {
	pad := func(paras []string) []string {
		total := wordcount.CountAll(paras)
		for n := 1; total < a.policy.ExplanationMin; n++ {
			p := practiceParagraph(e, seed+len(paras), n)
			paras = append(paras, p)
			total += wordcount.Count(p)
		}
		return paras
	}

	paras = pad(paras)
	for len(paras) > 1 && wordcount.CountAll(paras) > a.policy.ExplanationMax {
		paras = paras[:len(paras)-1]
	}
	paras = pad(paras)
	return wordcount.Paragraphs(wordcount.Clamp(wordcount.Join(paras), a.policy.ExplanationMax))
}

// practiceParagraph alternates between a next step and a reflection
// prompt.
func practiceParagraph(e *phrase.Entry, index, n int) string {
	if index%2 == 0 {
		return fmt.Sprintf("Practice %d. %s Keep a short log of the commands you ran and what each one showed, then compare it with a peer's log.",
			n, phrase.Cycle(e.NextSteps, index/2))
	}
	return fmt.Sprintf("Reflection %d. %s Write two or three sentences in your own words before moving on, because explaining a finding is the fastest way to expose a gap in it.",
		n, phrase.Cycle(e.ReflectionPrompts, index/2))
}

func foundations(l *lesson.Lesson, e *phrase.Entry) []string {
	domain := domainLabel(l.Domain)
	paras := []string{fmt.Sprintf(
		"%s is a core skill in %s work. This lesson builds a working model of %s, showing how defenders use tools such as %s and evidence such as %s to reason about what happened, how it happened and what to do next.",
		l.Title, domain, listPhrase(l.Concepts), phrase.Cycle(e.Tools, 0).Name, phrase.Cycle(e.Telemetry, 0).Name,
	)}

	for i, c := range l.Concepts {
		attack := phrase.Cycle(e.Attacks, i)
		tool := phrase.Cycle(e.Tools, i)
		tel := phrase.Cycle(e.Telemetry, i)
		paras = append(paras, fmt.Sprintf(
			"Concept %d: %s. In %s, %s matters because attackers keep coming back to techniques like %s, which involves %s. A defender who understands the technique knows where its traces land. %s %s, and %s %s. Reading both together turns a vague suspicion into a testable hypothesis. A common mistake here is %s, so state your assumption before you open the evidence and check it against a second source.",
			i+1, c, domain, c, attack.Name, attack.Detail,
			tool.Name, tool.Detail, tel.Name, tel.Detail,
			lowerFirst(phrase.Cycle(e.Pitfalls, i)),
		))
	}

	paras = append(paras,
		fmt.Sprintf("Keep this in mind as you continue: %s", phrase.Cycle(e.MemoryHooks, 0)),
		"Before moving to the next section, list each concept above in one sentence and name the single piece of evidence you would collect first for it.",
	)
	return paras
}

func investigation(l *lesson.Lesson, e *phrase.Entry) []string {
	paras := []string{fmt.Sprintf(
		"Knowing the concepts is only half the job. This section walks through how an analyst actually investigates %s, including what to do when the evidence does not line up.",
		listPhrase(l.Concepts),
	)}

	for i, c := range l.Concepts {
		tel := phrase.Cycle(e.Telemetry, i+1)
		tool := phrase.Cycle(e.Tools, i+1)
		paras = append(paras, fmt.Sprintf(
			"Investigating %s. Start from %s because it %s. Load what you collect into %s, which %s, and look for the sequence of events rather than any single entry. %s If the picture still does not make sense, step back and check whether you have fallen into the trap of %s. Record every query and filter you use so another analyst can repeat the investigation and reach the same result.",
			c, tel.Name, tel.Detail, tool.Name, tool.Detail,
			phrase.Cycle(e.Troubleshooting, i),
			lowerFirst(phrase.Cycle(e.Pitfalls, i+1)),
		))
	}

	paras = append(paras,
		"A good investigation ends with a short written conclusion: what happened, how confident you are and which evidence supports each claim. If you cannot point to evidence for a statement, label it as a hypothesis.",
	)
	return paras
}

func codeExercise(l *lesson.Lesson, e *phrase.Entry) []string {
	paras := []string{
		"Hands-on exercise. Run the following steps in an isolated lab environment and never against production systems or original evidence.",
	}
	for i, c := range l.Concepts {
		paras = append(paras, fmt.Sprintf(
			"Step %d, %s: run `%s` and save the output. Identify which lines relate to %s and note anything you would escalate.",
			i+1, c, phrase.Cycle(e.Commands, i), c,
		))
	}
	paras = append(paras,
		fmt.Sprintf("If a step fails: %s", phrase.Cycle(e.Troubleshooting, len(l.Concepts))),
		"When you finish, write a three line summary of what the output proved and what it could not prove.",
	)
	return paras
}

func realWorld(l *lesson.Lesson, e *phrase.Entry) []string {
	paras := []string{"Real-world cases show how these concepts play out when the stakes are real."}
	for i, c := range l.Concepts {
		inc := phrase.Cycle(e.Incidents, i)
		paras = append(paras, fmt.Sprintf(
			"%s: %s. Looking at it through the lens of %s, %s",
			inc.Name, inc.Detail, c, phrase.Cycle(e.CaseStudies, i),
		))
	}
	paras = append(paras, "For each case, ask which decision made the biggest difference and whether your team would have made it in time.")
	return paras
}

func memoryAid(l *lesson.Lesson, e *phrase.Entry) []string {
	paras := []string{"Use these memory aids to recall the essentials under pressure."}
	for i, c := range l.Concepts {
		paras = append(paras, fmt.Sprintf(
			"For %s, remember: %s Link it to %s so the cue and the evidence come to mind together.",
			c, phrase.Cycle(e.MemoryHooks, i), phrase.Cycle(e.Telemetry, i).Name,
		))
	}
	paras = append(paras, "Say each hook out loud once and try to recall it tomorrow without looking.")
	return paras
}

func quizPrompts(l *lesson.Lesson, e *phrase.Entry) []string {
	paras := []string{"Quick check. Answer each prompt before reading the post-assessment."}
	for i, c := range l.Concepts {
		paras = append(paras, fmt.Sprintf(
			"Question %d: Which evidence would best confirm %s, and why would %s help more than %s?",
			i+1, c, phrase.Cycle(e.Telemetry, i).Name, phrase.Cycle(e.Telemetry, i+1).Name,
		))
	}
	paras = append(paras, "If any answer took you more than a minute, revisit the explanation sections for that concept.")
	return paras
}

func reflection(l *lesson.Lesson, e *phrase.Entry) []string {
	paras := []string{"Take a few minutes to reflect on what you learned."}
	for i, c := range l.Concepts {
		paras = append(paras, fmt.Sprintf(
			"Thinking about %s: %s",
			c, phrase.Cycle(e.ReflectionPrompts, i),
		))
	}
	paras = append(paras, "Write your answers down. Reflection that stays in your head fades quickly.")
	return paras
}

func mindsetCoach(l *lesson.Lesson, e *phrase.Entry) []string {
	paras := []string{phrase.Cycle(e.Encouragement, 0)}
	for i := range l.Concepts {
		paras = append(paras, fmt.Sprintf("Next step: %s", phrase.Cycle(e.NextSteps, i)))
	}
	paras = append(paras, phrase.Cycle(e.Encouragement, 1))
	return paras
}

func domainLabel(domain string) string {
	return strings.ReplaceAll(domain, "_", " ")
}

// listPhrase renders up to three items as an English list and summarizes
// the rest.
func listPhrase(items []string) string {
	switch n := len(items); {
	case n == 0:
		return "the topic"
	case n == 1:
		return items[0]
	case n == 2:
		return items[0] + " and " + items[1]
	case n == 3:
		return items[0] + ", " + items[1] + " and " + items[2]
	default:
		return fmt.Sprintf("%s, %s, %s and %d related ideas", items[0], items[1], items[2], n-3)
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsUpper(r) {
		return s
	}
	// keep acronyms such as "MFT" intact
	if next, _ := utf8.DecodeRuneInString(s[size:]); unicode.IsUpper(next) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
