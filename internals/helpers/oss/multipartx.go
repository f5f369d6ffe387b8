package helper

import (
	"mime/multipart"
	"strings"
)

// Kandidat nama field untuk upload banyak lampiran sekaligus.
var defaultAttachmentFields = []string{
	"files[]", "files", "file",
	"attachments[]", "attachments",
}

// CollectUploadFiles mengumpulkan semua file dari form multipart sesuai urutan field kandidat.
// File dengan nama+ukuran sama hanya diambil sekali.
func CollectUploadFiles(form *multipart.Form, fields ...string) []*multipart.FileHeader {
	if form == nil || form.File == nil {
		return nil
	}
	if len(fields) == 0 {
		fields = defaultAttachmentFields
	}

	type sig struct {
		name string
		size int64
	}
	seen := map[sig]bool{}
	var out []*multipart.FileHeader
	for _, key := range fields {
		for _, fh := range form.File[key] {
			if fh == nil || strings.TrimSpace(fh.Filename) == "" {
				continue
			}
			s := sig{fh.Filename, fh.Size}
			if seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, fh)
		}
	}
	return out
}
