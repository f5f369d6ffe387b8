package dto

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameFromURL(t *testing.T) {
	cases := map[string]string{
		"https://cdn.example.com/a/b/modul%201.pdf?x=1": "modul 1.pdf",
		"https://cdn.example.com/slides.pptx":           "slides.pptx",
		"https://cdn.example.com/":                      "cdn.example.com",
	}
	for in, want := range cases {
		assert.Equal(t, want, NameFromURL(in), in)
	}
}

func TestUpdateChapterToUpdates(t *testing.T) {
	var req UpdateChapterRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"chapter_title": "  Bab 2  ",
		"chapter_description": null,
		"chapter_document_url": "https://cdn.example.com/docs/bab2.pdf"
	}`), &req))

	u, err := req.ToUpdates()
	require.NoError(t, err)
	assert.Equal(t, "Bab 2", u["chapter_title"])
	assert.Contains(t, u, "chapter_description")
	assert.Nil(t, u["chapter_description"])
	assert.Equal(t, "bab2.pdf", u["chapter_document_name"])
	assert.NotContains(t, u, "chapter_video_url")
}

func TestUpdateChapterClearsVideo(t *testing.T) {
	var req UpdateChapterRequest
	require.NoError(t, json.Unmarshal([]byte(`{"chapter_video_url": ""}`), &req))

	u, err := req.ToUpdates()
	require.NoError(t, err)
	assert.Contains(t, u, "chapter_video_url")
	assert.Nil(t, u["chapter_video_url"])
}

func TestUpdateChapterRejectsBadURL(t *testing.T) {
	var req UpdateChapterRequest
	require.NoError(t, json.Unmarshal([]byte(`{"chapter_video_url": "ftp://x/y.mp4"}`), &req))
	_, err := req.ToUpdates()
	assert.Error(t, err)

	req = UpdateChapterRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"chapter_title": "a"}`), &req))
	_, err = req.ToUpdates()
	assert.Error(t, err)
}

func TestCreateChapterToModel(t *testing.T) {
	doc := " https://cdn.example.com/modul.pdf "
	req := CreateChapterRequest{ChapterTitle: " Pengenalan ", ChapterDocumentURL: &doc, ChapterIsFree: true}
	req.Normalize()

	courseID := uuid.New()
	m := req.ToModel(courseID, 4)
	assert.Equal(t, "Pengenalan", m.ChapterTitle)
	assert.Equal(t, 4, m.ChapterPosition)
	assert.True(t, m.ChapterIsFree)
	require.NotNil(t, m.ChapterDocumentName)
	assert.Equal(t, "modul.pdf", *m.ChapterDocumentName)
	assert.True(t, m.HasContent())
	assert.False(t, m.ChapterIsPublished)
}
