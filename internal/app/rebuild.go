package app

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/lessonsmith/internal/assembler"
)

// MissingDomainPolicy decides what a rebuild does with a lesson whose
// domain has no phrase library entry. It doubles as a pflag.Value.
type MissingDomainPolicy string

const (
	MissingDomainSkip   MissingDomainPolicy = "skip"
	MissingDomainStrict MissingDomainPolicy = "strict"
)

var _ pflag.Value = (*MissingDomainPolicy)(nil)

func (p *MissingDomainPolicy) String() string { return string(*p) }

func (p *MissingDomainPolicy) Set(s string) error {
	switch MissingDomainPolicy(s) {
	case MissingDomainSkip, MissingDomainStrict:
		*p = MissingDomainPolicy(s)
		return nil
	}
	return fmt.Errorf("must be %q or %q", MissingDomainSkip, MissingDomainStrict)
}

func (p *MissingDomainPolicy) Type() string { return "skip|strict" }

// TargetSource records where a rebuild found its lesson files.
type TargetSource string

const (
	SourceArgs TargetSource = "args"
	SourceList TargetSource = "list"
	SourceGlob TargetSource = "glob"
)

type RebuildRequest struct {
	// Paths are explicit targets, relative to the content root. Empty means
	// the list file, or the glob when there is no list file.
	Paths         []string
	MissingDomain MissingDomainPolicy
	Jobs          int
	DryRun        bool
}

func NewRebuildRequest() RebuildRequest {
	return RebuildRequest{
		MissingDomain: MissingDomainSkip,
		Jobs:          1,
	}
}

type RebuiltLesson struct {
	Path    string
	Stats   assembler.Stats
	InBands bool
}

type SkippedLesson struct {
	Path   string
	Domain string
	Reason string
}

// RebuildResponse lists outcomes in target order regardless of Jobs.
type RebuildResponse struct {
	Source    TargetSource
	Targets   int
	Generated []RebuiltLesson
	Skipped   []SkippedLesson
	DryRun    bool
}
