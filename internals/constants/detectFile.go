package constants

import (
	"path/filepath"
	"strings"
)

// Jenis file untuk lampiran chapter / dokumen.
const (
	FileKindVideo    = "video"
	FileKindAudio    = "audio"
	FileKindDocument = "document"
	FileKindPDF      = "pdf"
	FileKindSlides   = "slides"
	FileKindImage    = "image"
	FileKindArchive  = "archive"
	FileKindOther    = "other"
)

func DetectFileKindFromExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".mp4", ".webm", ".mov", ".mkv", ".m4v":
		return FileKindVideo
	case ".mp3", ".wav", ".m4a", ".ogg":
		return FileKindAudio
	case ".doc", ".docx", ".txt", ".rtf", ".odt":
		return FileKindDocument
	case ".pdf":
		return FileKindPDF
	case ".ppt", ".pptx", ".odp":
		return FileKindSlides
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return FileKindImage
	case ".zip", ".rar", ".7z":
		return FileKindArchive
	default:
		return FileKindOther
	}
}

// IsDocumentKind: dipakai untuk slot "document" di chapter (pdf/doc/ppt).
func IsDocumentKind(kind string) bool {
	switch kind {
	case FileKindDocument, FileKindPDF, FileKindSlides:
		return true
	}
	return false
}
