package app

type SyncResult struct {
	LessonID  string
	Questions int
	Replaced  int
}
