package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFileKindFromExt(t *testing.T) {
	cases := map[string]string{
		"lesson-1.MP4":   FileKindVideo,
		"notes.pdf":      FileKindPDF,
		"slides.pptx":    FileKindSlides,
		"summary.docx":   FileKindDocument,
		"cover.jpeg":     FileKindImage,
		"bundle.zip":     FileKindArchive,
		"podcast.mp3":    FileKindAudio,
		"unknown.xyz":    FileKindOther,
		"no-extension":   FileKindOther,
	}
	for name, want := range cases {
		assert.Equal(t, want, DetectFileKindFromExt(name), name)
	}
}

func TestIsDocumentKind(t *testing.T) {
	assert.True(t, IsDocumentKind(FileKindPDF))
	assert.True(t, IsDocumentKind(FileKindSlides))
	assert.False(t, IsDocumentKind(FileKindVideo))
}

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, RoleTeacher, NormalizeRole(" teacher "))
	assert.Equal(t, RoleAdmin, NormalizeRole("ADMIN"))
	assert.Equal(t, "", NormalizeRole("owner"))
	assert.True(t, IsTeacherOrAdmin(RoleAdmin))
	assert.False(t, IsTeacherOrAdmin(RoleUser))
}
