package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/lessonsmith/internal/app"
	"github.com/alexanderramin/lessonsmith/internal/assembler"
	"github.com/alexanderramin/lessonsmith/internal/catalog"
	"github.com/alexanderramin/lessonsmith/internal/lesson"
	"github.com/alexanderramin/lessonsmith/internal/phrase"
	"github.com/alexanderramin/lessonsmith/internal/repository"
)

type scaffoldService struct {
	catalog  CatalogService
	asm      *assembler.Assembler
	layout   ContentLayout
	observer UseCaseObserver
}

func NewScaffoldService(catalog CatalogService, asm *assembler.Assembler, layout ContentLayout, observers ...UseCaseObserver) ScaffoldService {
	return &scaffoldService{catalog: catalog, asm: asm, layout: layout, observer: useCaseObserverOrNoop(observers)}
}

// LessonFileName is the file a scaffolded lesson is written to, inside the
// directory of the content glob.
func LessonFileName(lessonNumber int) string {
	return fmt.Sprintf("lesson_%d_RICH.json", lessonNumber)
}

// LessonID is the id given to a scaffolded lesson.
func LessonID(domain string, lessonNumber int) string {
	return fmt.Sprintf("lesson_%s_%d", domain, lessonNumber)
}

// Scaffold turns a catalog row into a new lesson file and assembles it.
func (s *scaffoldService) Scaffold(ctx context.Context, req app.ScaffoldRequest) (resp *app.ScaffoldResponse, err error) {
	fields := map[string]any{"lesson_number": req.LessonNumber, "dry_run": req.DryRun}
	done := observe(ctx, s.observer, "scaffold-lesson", fields)
	defer func() { done(err) }()

	c, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	row, ok := c.Find(req.LessonNumber)
	if !ok {
		return nil, fmt.Errorf("lesson %d in catalog: %w", req.LessonNumber, repository.ErrNotFound)
	}

	l, err := lessonFromRow(c, row, req.LessonNumber)
	if err != nil {
		return nil, err
	}
	fields["lesson_id"] = l.LessonID

	path := s.layout.resolve(filepath.Join(filepath.Dir(s.layout.Glob), LessonFileName(req.LessonNumber)))
	if _, statErr := os.Stat(path); statErr == nil && !req.Force {
		return nil, fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	rebuilt, err := assemble(s.asm, l, path)
	if err != nil {
		if errors.Is(err, phrase.ErrUnknownDomain) {
			return nil, &ConfigurationError{Domain: l.Domain, Path: path}
		}
		return nil, err
	}

	if !req.DryRun {
		if err := lesson.Save(path, l); err != nil {
			return nil, fmt.Errorf("saving %s: %w", path, err)
		}
	}
	return &app.ScaffoldResponse{Path: path, LessonID: l.LessonID, Rebuilt: *rebuilt}, nil
}

// lessonFromRow builds the unassembled lesson for row. Numeric
// prerequisites that name catalog rows become those lessons' ids.
func lessonFromRow(c *catalog.Catalog, row catalog.Row, lessonNumber int) (*lesson.Lesson, error) {
	domain := strings.TrimSpace(row.Domain)
	if domain == "" {
		return nil, invalidf("lesson %d has no domain", lessonNumber)
	}
	if strings.TrimSpace(row.Title) == "" {
		return nil, invalidf("lesson %d has no title", lessonNumber)
	}
	difficulty, err := row.Level()
	if err != nil {
		return nil, invalidf("lesson %d: %v", lessonNumber, err)
	}
	prereqs, err := row.PrerequisiteList()
	if err != nil {
		return nil, invalidf("lesson %d: %v", lessonNumber, err)
	}

	for i, p := range prereqs {
		n, convErr := strconv.Atoi(p)
		if convErr != nil {
			continue
		}
		if dep, ok := c.Find(n); ok && strings.TrimSpace(dep.Domain) != "" {
			prereqs[i] = LessonID(strings.TrimSpace(dep.Domain), n)
		}
	}

	return &lesson.Lesson{
		LessonID:      LessonID(domain, lessonNumber),
		Domain:        domain,
		Title:         strings.TrimSpace(row.Title),
		Difficulty:    difficulty,
		Prerequisites: prereqs,
		Concepts:      row.TopicList(),
	}, nil
}
