package app

import (
	"context"

	"github.com/alexanderramin/lessonsmith/internal/lesson"
)

type RebuildLessonsUseCase interface {
	Rebuild(ctx context.Context, req RebuildRequest) (*RebuildResponse, error)
}

type ScaffoldLessonUseCase interface {
	Scaffold(ctx context.Context, req ScaffoldRequest) (*ScaffoldResponse, error)
}

type SyncAssessmentUseCase interface {
	SyncLesson(ctx context.Context, l *lesson.Lesson) (*SyncResult, error)
}
