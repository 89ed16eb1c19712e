package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Idea is a lesson idea to append. Lesson number and order index are
// assigned by Append.
type Idea struct {
	Domain        string   `yaml:"domain"`
	Difficulty    int      `yaml:"difficulty"`
	Title         string   `yaml:"title"`
	Module        string   `yaml:"module"`
	Topics        []string `yaml:"topics"`
	Prerequisites []int    `yaml:"prerequisites"`
	Status        string   `yaml:"status"`
	Tags          []string `yaml:"tags"`
	Notes         string   `yaml:"notes"`
}

func (i Idea) Validate() []error {
	var errs []error
	if strings.TrimSpace(i.Domain) == "" {
		errs = append(errs, fmt.Errorf("domain is required"))
	}
	if strings.TrimSpace(i.Title) == "" {
		errs = append(errs, fmt.Errorf("title is required"))
	}
	if i.Difficulty < 0 || i.Difficulty > 3 {
		errs = append(errs, fmt.Errorf("difficulty %d must be between 1 and 3, or omitted", i.Difficulty))
	}
	return errs
}

func (i Idea) row(lessonNumber, orderIndex int) (Row, error) {
	topics, err := json.Marshal(nonNil(i.Topics))
	if err != nil {
		return Row{}, fmt.Errorf("encoding topics: %w", err)
	}
	prereqs, err := json.Marshal(nonNil(i.Prerequisites))
	if err != nil {
		return Row{}, fmt.Errorf("encoding prerequisites: %w", err)
	}
	status := i.Status
	if status == "" {
		status = DefaultStatus
	}
	difficulty := ""
	if i.Difficulty > 0 {
		difficulty = strconv.Itoa(i.Difficulty)
	}
	return Row{
		LessonNumber:  strconv.Itoa(lessonNumber),
		OrderIndex:    strconv.Itoa(orderIndex),
		Domain:        i.Domain,
		Difficulty:    difficulty,
		Title:         i.Title,
		Module:        i.Module,
		Topics:        string(topics),
		Prerequisites: string(prereqs),
		Status:        status,
		Tags:          strings.Join(i.Tags, ","),
		Notes:         i.Notes,
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type ideasFile struct {
	Ideas []Idea `yaml:"ideas"`
}

// LoadIdeas reads a YAML batch of ideas. The file is either a bare list or
// a mapping with an "ideas" key.
func LoadIdeas(path string) ([]Idea, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ideas file: %w", err)
	}
	return ParseIdeas(data)
}

// ParseIdeas decodes a YAML batch of ideas.
func ParseIdeas(data []byte) ([]Idea, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parsing ideas: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, fmt.Errorf("parsing ideas: document is empty")
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var ideas []Idea
		if err := root.Decode(&ideas); err != nil {
			return nil, fmt.Errorf("parsing ideas: %w", err)
		}
		return ideas, nil
	case yaml.MappingNode:
		var f ideasFile
		if err := root.Decode(&f); err != nil {
			return nil, fmt.Errorf("parsing ideas: %w", err)
		}
		return f.Ideas, nil
	default:
		return nil, fmt.Errorf("parsing ideas: expected a list or an ideas mapping")
	}
}
