package assembler

import (
	"errors"
	"fmt"
)

// Policy holds the length and shape targets of a rebuilt lesson.
type Policy struct {
	ExplanationMin int `yaml:"explanation_min"`
	ExplanationMax int `yaml:"explanation_max"`
	DocumentMin    int `yaml:"document_min"`
	DocumentMax    int `yaml:"document_max"`

	// SupportingMax caps every non-explanation section. With the default
	// values the eight sections can never exceed DocumentMax on their own.
	SupportingMax      int `yaml:"supporting_max"`
	SupportingConcepts int `yaml:"supporting_concepts"`

	MinConcepts    int  `yaml:"min_concepts"`
	MinObjectives  int  `yaml:"min_objectives"`
	MaxObjectives  int  `yaml:"max_objectives"`
	Questions      int  `yaml:"questions"`
	TrailingFloor  int  `yaml:"trailing_floor"`
	ShuffleAnswers bool `yaml:"shuffle_answers"`
}

// DefaultPolicy returns the reference targets.
func DefaultPolicy() Policy {
	return Policy{
		ExplanationMin:     820,
		ExplanationMax:     1200,
		DocumentMin:        4000,
		DocumentMax:        5500,
		SupportingMax:      450,
		SupportingConcepts: 6,
		MinConcepts:        4,
		MinObjectives:      4,
		MaxObjectives:      6,
		Questions:          3,
		TrailingFloor:      3,
		ShuffleAnswers:     true,
	}
}

// Validate reports every inconsistent bound in p.
func (p Policy) Validate() error {
	var errs []error
	if p.ExplanationMin <= 0 || p.ExplanationMax < p.ExplanationMin {
		errs = append(errs, fmt.Errorf("explanation band [%d, %d] is invalid", p.ExplanationMin, p.ExplanationMax))
	}
	if p.DocumentMin <= 0 || p.DocumentMax < p.DocumentMin {
		errs = append(errs, fmt.Errorf("document band [%d, %d] is invalid", p.DocumentMin, p.DocumentMax))
	}
	if p.SupportingMax <= 0 {
		errs = append(errs, fmt.Errorf("supporting_max must be positive"))
	}
	if p.SupportingConcepts <= 0 {
		errs = append(errs, fmt.Errorf("supporting_concepts must be positive"))
	}
	if p.MinConcepts < 1 {
		errs = append(errs, fmt.Errorf("min_concepts must be at least 1"))
	}
	if p.MinObjectives <= 0 || p.MaxObjectives < p.MinObjectives {
		errs = append(errs, fmt.Errorf("objective range [%d, %d] is invalid", p.MinObjectives, p.MaxObjectives))
	}
	if p.Questions < 0 {
		errs = append(errs, fmt.Errorf("questions must not be negative"))
	}
	if p.TrailingFloor < 1 {
		errs = append(errs, fmt.Errorf("trailing_floor must be at least 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid assembly policy: %w", errors.Join(errs...))
	}
	return nil
}
