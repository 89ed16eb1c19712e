package app

type ScaffoldRequest struct {
	LessonNumber int
	// Force overwrites an existing lesson file.
	Force  bool
	DryRun bool
}

type ScaffoldResponse struct {
	Path     string
	LessonID string
	Rebuilt  RebuiltLesson
}
