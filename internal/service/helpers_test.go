package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/lessonsmith/internal/assembler"
	"github.com/alexanderramin/lessonsmith/internal/phrase"
)

func testAssembler(t *testing.T) *assembler.Assembler {
	t.Helper()
	lib, err := phrase.Default()
	require.NoError(t, err)
	asm, err := assembler.New(lib, assembler.DefaultPolicy())
	require.NoError(t, err)
	return asm
}

func testLayout(root string) ContentLayout {
	return ContentLayout{
		Root:     root,
		ListFile: "new_lessons.txt",
		Glob:     "content/lesson_*_RICH.json",
	}
}
