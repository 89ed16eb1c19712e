package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/lessonsmith/internal/app"
	"github.com/alexanderramin/lessonsmith/internal/assembler"
	"github.com/alexanderramin/lessonsmith/internal/lesson"
	"github.com/alexanderramin/lessonsmith/internal/logging"
	"github.com/alexanderramin/lessonsmith/internal/phrase"
)

// ContentLayout locates lesson files. ListFile and Glob are relative to
// Root.
type ContentLayout struct {
	Root     string
	ListFile string
	Glob     string
}

func (c ContentLayout) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

type rebuildService struct {
	asm      *assembler.Assembler
	layout   ContentLayout
	log      *logging.Logger
	observer UseCaseObserver
}

func NewRebuildService(asm *assembler.Assembler, layout ContentLayout, log *logging.Logger, observers ...UseCaseObserver) RebuildService {
	if log == nil {
		log = logging.NewNop()
	}
	return &rebuildService{
		asm:      asm,
		layout:   layout,
		log:      log.With("component", "rebuild"),
		observer: useCaseObserverOrNoop(observers),
	}
}

// fileOutcome is the result of one target; exactly one of rebuilt and
// skipped is set.
type fileOutcome struct {
	rebuilt *app.RebuiltLesson
	skipped *app.SkippedLesson
}

// Rebuild regenerates every target lesson in place. Files are independent;
// req.Jobs bounds how many are processed at once. The first failure stops
// the batch, and lessons already written stay written.
func (s *rebuildService) Rebuild(ctx context.Context, req app.RebuildRequest) (resp *app.RebuildResponse, err error) {
	fields := map[string]any{"dry_run": req.DryRun, "missing_domain": string(req.MissingDomain)}
	done := observe(ctx, s.observer, "rebuild-lessons", fields)
	defer func() { done(err) }()

	if req.MissingDomain == "" {
		req.MissingDomain = app.MissingDomainSkip
	}
	if req.Jobs < 1 {
		req.Jobs = 1
	}

	targets, source, err := s.resolveTargets(req.Paths)
	if err != nil {
		return nil, err
	}
	fields["source"] = string(source)
	fields["targets"] = len(targets)
	s.log.Debug("resolved rebuild targets", "source", string(source), "count", len(targets))

	outcomes := make([]fileOutcome, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(req.Jobs)
	for i, path := range targets {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := s.rebuildFile(path, req)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp = &app.RebuildResponse{Source: source, Targets: len(targets), DryRun: req.DryRun}
	for _, out := range outcomes {
		switch {
		case out.rebuilt != nil:
			resp.Generated = append(resp.Generated, *out.rebuilt)
		case out.skipped != nil:
			resp.Skipped = append(resp.Skipped, *out.skipped)
		}
	}
	fields["generated"] = len(resp.Generated)
	fields["skipped"] = len(resp.Skipped)
	return resp, nil
}

func (s *rebuildService) rebuildFile(path string, req app.RebuildRequest) (fileOutcome, error) {
	l, err := lesson.Load(path)
	if err != nil {
		return fileOutcome{}, fmt.Errorf("loading lesson: %w", err)
	}

	rebuilt, err := assemble(s.asm, l, path)
	if err != nil {
		if !errors.Is(err, phrase.ErrUnknownDomain) {
			return fileOutcome{}, err
		}
		if req.MissingDomain == app.MissingDomainStrict {
			return fileOutcome{}, &ConfigurationError{Domain: l.Domain, Path: path}
		}
		s.log.Warn("skipping lesson with unknown domain", "path", path, "domain", l.Domain)
		return fileOutcome{skipped: &app.SkippedLesson{
			Path:   path,
			Domain: l.Domain,
			Reason: fmt.Sprintf("no phrase library entry for domain %q", l.Domain),
		}}, nil
	}
	if !rebuilt.InBands {
		s.log.Warn("rebuilt lesson outside word-count bands", "path", path, "words", rebuilt.Stats.Total)
	}

	if !req.DryRun {
		if err := lesson.Save(path, l); err != nil {
			return fileOutcome{}, fmt.Errorf("saving %s: %w", path, err)
		}
	}
	s.log.Info("lesson rebuilt", "path", path, "lesson_id", l.LessonID, "words", rebuilt.Stats.Total, "dry_run", req.DryRun)
	return fileOutcome{rebuilt: rebuilt}, nil
}

// assemble rebuilds l in memory and checks the result. Errors wrapping
// phrase.ErrUnknownDomain are returned unchanged.
func assemble(asm *assembler.Assembler, l *lesson.Lesson, path string) (*app.RebuiltLesson, error) {
	if err := asm.Rebuild(l); err != nil {
		if errors.Is(err, phrase.ErrUnknownDomain) {
			return nil, err
		}
		return nil, fmt.Errorf("rebuilding %s: %w", path, err)
	}
	if errs := lesson.Validate(l); len(errs) > 0 {
		return nil, lesson.JoinErrors("rebuilt lesson "+path+" is invalid", errs)
	}
	stats := assembler.ComputeStats(l)
	return &app.RebuiltLesson{Path: path, Stats: stats, InBands: stats.WithinBands(asm.Policy())}, nil
}

// resolveTargets picks explicit paths, else the list file, else the glob.
func (s *rebuildService) resolveTargets(paths []string) ([]string, app.TargetSource, error) {
	if len(paths) > 0 {
		out := make([]string, len(paths))
		for i, p := range paths {
			out[i] = s.layout.resolve(p)
		}
		return out, app.SourceArgs, nil
	}

	if s.layout.ListFile != "" {
		listPath := s.layout.resolve(s.layout.ListFile)
		entries, err := readTargetList(listPath)
		switch {
		case err == nil:
			out := make([]string, len(entries))
			for i, p := range entries {
				out[i] = s.layout.resolve(p)
			}
			return out, app.SourceList, nil
		case !errors.Is(err, os.ErrNotExist):
			return nil, "", err
		}
	}

	matches, err := filepath.Glob(s.layout.resolve(s.layout.Glob))
	if err != nil {
		return nil, "", fmt.Errorf("bad lesson glob %q: %w", s.layout.Glob, err)
	}
	sort.Strings(matches)
	return matches, app.SourceGlob, nil
}

// readTargetList reads one relative path per line. Blank lines and lines
// starting with # are ignored.
func readTargetList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return out, nil
}
