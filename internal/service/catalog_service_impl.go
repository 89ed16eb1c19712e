package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexanderramin/lessonsmith/internal/catalog"
	"github.com/alexanderramin/lessonsmith/internal/repository"
)

type catalogService struct {
	path     string
	observer UseCaseObserver

	// serializes read-append-rewrite cycles within the process
	mu sync.Mutex
}

func NewCatalogService(path string, observers ...UseCaseObserver) CatalogService {
	return &catalogService{path: path, observer: useCaseObserverOrNoop(observers)}
}

func (s *catalogService) Load(ctx context.Context) (*catalog.Catalog, error) {
	return catalog.Load(s.path)
}

func (s *catalogService) Add(ctx context.Context, ideas []catalog.Idea, dryRun bool) (rows []catalog.Row, err error) {
	fields := map[string]any{"ideas": len(ideas), "dry_run": dryRun}
	done := observe(ctx, s.observer, "add-lesson-ideas", fields)
	defer func() { done(err) }()

	if len(ideas) == 0 {
		return nil, invalidf("no lesson ideas given")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := catalog.Load(s.path)
	if err != nil {
		return nil, err
	}
	rows, err = c.Append(ideas)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(rows) > 0 {
		fields["first_lesson_number"] = rows[0].LessonNumber
	}
	if dryRun {
		return rows, nil
	}
	if err := c.Save(s.path); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *catalogService) Validate(ctx context.Context) ([]error, error) {
	c, err := catalog.Load(s.path)
	if err != nil {
		return nil, err
	}
	return c.Validate(), nil
}

func (s *catalogService) Find(ctx context.Context, lessonNumber int) (catalog.Row, error) {
	c, err := catalog.Load(s.path)
	if err != nil {
		return catalog.Row{}, err
	}
	row, ok := c.Find(lessonNumber)
	if !ok {
		return catalog.Row{}, fmt.Errorf("lesson %d in %s: %w", lessonNumber, s.path, repository.ErrNotFound)
	}
	return row, nil
}
