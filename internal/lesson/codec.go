package lesson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Top-level keys in the order they are written.
var fieldOrder = []string{
	"lesson_id",
	"domain",
	"title",
	"difficulty",
	"estimated_time",
	"prerequisites",
	"concepts",
	"learning_objectives",
	"content_blocks",
	"post_assessment",
}

var difficultyWords = map[string]int{
	"beginner":     1,
	"easy":         1,
	"intermediate": 2,
	"medium":       2,
	"advanced":     3,
	"hard":         3,
}

// Decode parses a lesson document. Scalar fields are read leniently;
// content_blocks and post_assessment that do not match their record shape
// are dropped and reported by Validate, since a rebuild replaces both.
func Decode(data []byte) (*Lesson, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing lesson: %w", err)
	}

	l := &Lesson{extra: make(map[string][]byte)}
	for key, val := range raw {
		var err error
		switch key {
		case "lesson_id":
			l.LessonID, err = flexString(val)
		case "domain":
			l.Domain, err = flexString(val)
		case "title":
			l.Title, err = flexString(val)
		case "difficulty":
			l.Difficulty = flexInt(val, difficultyWords)
		case "estimated_time":
			l.EstimatedTime = flexInt(val, nil)
		case "prerequisites":
			l.Prerequisites, l.prereqRaw = flexStringList(val)
			l.prereqText = slices.Clone(l.Prerequisites)
		case "concepts":
			l.Concepts, err = stringList(val)
		case "learning_objectives":
			l.LearningObjectives, err = stringList(val)
		case "content_blocks":
			if uerr := json.Unmarshal(val, &l.ContentBlocks); uerr != nil {
				l.ContentBlocks = nil
				l.blocksErr = uerr
			}
		case "post_assessment":
			if uerr := json.Unmarshal(val, &l.PostAssessment); uerr != nil {
				l.PostAssessment = nil
				l.assessmentErr = uerr
			}
		default:
			l.extra[key] = []byte(val)
		}
		if err != nil {
			return nil, fmt.Errorf("parsing lesson field %s: %w", key, err)
		}
	}
	return l, nil
}

// Encode renders l as indented JSON with modelled fields first, in
// fieldOrder, followed by preserved fields sorted by key.
func Encode(l *Lesson) ([]byte, error) {
	values := map[string]any{
		"lesson_id":           l.LessonID,
		"domain":              l.Domain,
		"title":               l.Title,
		"difficulty":          l.Difficulty,
		"estimated_time":      l.EstimatedTime,
		"prerequisites":       l.prerequisitesValue(),
		"concepts":            nonNil(l.Concepts),
		"learning_objectives": nonNil(l.LearningObjectives),
		"content_blocks":      nonNil(l.ContentBlocks),
		"post_assessment":     nonNil(l.PostAssessment),
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	writeField := func(key string, val []byte) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}

	for _, key := range fieldOrder {
		val, err := marshalNoEscape(values[key])
		if err != nil {
			return nil, fmt.Errorf("encoding lesson field %s: %w", key, err)
		}
		writeField(key, val)
	}

	extraKeys := make([]string, 0, len(l.extra))
	for k := range l.extra {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		writeField(k, l.extra[k])
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("formatting lesson: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func flexString(raw json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("expected string, got %s", string(raw))
	}
}

// flexInt reads a number, a numeric string, or one of words. Anything else
// is 0 and left to Normalize.
func flexInt(raw json.RawMessage, words map[string]int) int {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return int(math.Round(t))
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		if n, ok := words[s]; ok {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(math.Round(f))
		}
	}
	return 0
}

// flexStringList reads a JSON list, rendering non-string elements as their
// JSON text, and also returns the raw elements. A value that is not a list
// yields an empty list and no raw elements.
func flexStringList(raw json.RawMessage) ([]string, []json.RawMessage) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}, nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		var s string
		if err := json.Unmarshal(it, &s); err == nil {
			out = append(out, s)
			continue
		}
		out = append(out, string(bytes.TrimSpace(it)))
	}
	return out, items
}

// prerequisitesValue keeps numeric prerequisite ids numeric on save unless
// the list was changed after decoding.
func (l *Lesson) prerequisitesValue() any {
	if l.prereqRaw != nil && slices.Equal(l.Prerequisites, l.prereqText) {
		return l.prereqRaw
	}
	return nonNil(l.Prerequisites)
}

func stringList(raw json.RawMessage) ([]string, error) {
	if string(bytes.TrimSpace(raw)) == "null" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
