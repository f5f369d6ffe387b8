package helper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"elearning_backend/internals/configs"
	"elearning_backend/internals/constants"
)

/*
BlobService adalah facade upload/hapus yang seragam untuk controller.
Controller course/chapter hanya bicara ke interface ini, sehingga test bisa
memakai MockBlobService tanpa OSS sungguhan.
*/
type BlobService interface {
	// UploadImage re-encode ke WebP; thumb=true juga membuat thumbnail kartu.
	UploadImage(ctx context.Context, dir string, fh *multipart.FileHeader, thumb bool) (Uploaded, error)
	// UploadFile upload apa adanya (video, pdf, slide, ...).
	UploadFile(ctx context.Context, dir string, fh *multipart.FileHeader, maxBytes int64) (Uploaded, error)
	MoveToSpam(ctx context.Context, publicURL string) (string, error)
	DeleteByPublicURL(ctx context.Context, publicURL string) error
}

type Uploaded struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Key          string `json:"key"`
	ContentType  string `json:"content_type"`
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	Size         int64  `json:"size"`
}

/* =======================================================================
   Batas ukuran (bytes)
======================================================================= */

func MaxImageBytes() int64    { return int64(configs.GetEnvInt("UPLOAD_MAX_IMAGE_MB", 5)) << 20 }
func MaxDocumentBytes() int64 { return int64(configs.GetEnvInt("UPLOAD_MAX_DOCUMENT_MB", 25)) << 20 }
func MaxVideoBytes() int64    { return int64(configs.GetEnvInt("UPLOAD_MAX_VIDEO_MB", 500)) << 20 }

/* =======================================================================
   Direktori object per entitas
======================================================================= */

func CourseImageDir(courseID uuid.UUID) string {
	return "courses/" + courseID.String() + "/images"
}

// ChapterFileDir: slot = video | document | attachments
func ChapterFileDir(courseID, chapterID uuid.UUID, slot string) string {
	return "courses/" + courseID.String() + "/chapters/" + chapterID.String() + "/" + slugify(slot)
}

/* =======================================================================
   Implementasi OSS
======================================================================= */

type OSSBlobService struct {
	svc   *OSSService
	webp  WebPOptions
	thumb ThumbSize
}

func NewOSSBlobServiceFromEnv(prefix string) (*OSSBlobService, error) {
	s, err := NewOSSServiceFromEnv(prefix)
	if err != nil {
		return nil, err
	}
	return &OSSBlobService{svc: s, webp: WebPOptionsFromEnv(), thumb: ThumbSizeFromEnv()}, nil
}

// NewBlobServiceFromEnv: kalau ENV OSS tidak lengkap, upload dimatikan (503) tapi server tetap jalan.
func NewBlobServiceFromEnv() BlobService {
	b, err := NewOSSBlobServiceFromEnv(configs.GetEnv("ALI_OSS_PREFIX", "elearning"))
	if err != nil {
		log.Printf("[WARN] OSS tidak aktif, upload dimatikan: %v", err)
		return disabledBlob{}
	}
	return b
}

func (b *OSSBlobService) UploadImage(ctx context.Context, dir string, fh *multipart.FileHeader, thumb bool) (Uploaded, error) {
	all, err := readFormFile(fh, MaxImageBytes())
	if err != nil {
		return Uploaded{}, err
	}

	data, err := ConvertToWebP(all, fh.Filename, b.webp)
	if err != nil {
		if errors.Is(err, ErrUnsupportedImage) {
			return Uploaded{}, fiber.NewError(fiber.StatusUnsupportedMediaType, "Unsupported image format (pakai jpg/png/webp)")
		}
		return Uploaded{}, fiber.NewError(fiber.StatusBadRequest, "Gagal memproses gambar")
	}

	name := strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename)) + ".webp"
	key := b.svc.ObjectKey(dir, name)
	if err := b.svc.Put(ctx, key, bytes.NewReader(data), "image/webp"); err != nil {
		log.Printf("[ERROR] OSS put image key=%s: %v", key, err)
		return Uploaded{}, fiber.NewError(fiber.StatusBadGateway, "Gagal upload ke OSS")
	}

	out := Uploaded{
		URL:         b.svc.PublicURL(key),
		Key:         key,
		ContentType: "image/webp",
		Name:        fh.Filename,
		Kind:        constants.FileKindImage,
		Size:        int64(len(data)),
	}

	if thumb {
		td, err := MakeThumbnail(all, fh.Filename, b.thumb)
		if err != nil {
			log.Printf("[WARN] thumbnail gagal dibuat: %v", err)
			return out, nil
		}
		tkey := b.svc.ObjectKey(dir+"/thumbs", name)
		if err := b.svc.Put(ctx, tkey, bytes.NewReader(td), "image/webp"); err != nil {
			log.Printf("[WARN] OSS put thumbnail key=%s: %v", tkey, err)
			return out, nil
		}
		out.ThumbnailURL = b.svc.PublicURL(tkey)
	}
	return out, nil
}

func (b *OSSBlobService) UploadFile(ctx context.Context, dir string, fh *multipart.FileHeader, maxBytes int64) (Uploaded, error) {
	if fh == nil {
		return Uploaded{}, fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan")
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return Uploaded{}, fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("Ukuran file maksimal %dMB", maxBytes>>20))
	}
	src, err := fh.Open()
	if err != nil {
		return Uploaded{}, fiber.NewError(fiber.StatusBadRequest, "File tidak bisa dibaca")
	}
	defer src.Close()

	head := make([]byte, 512)
	n, _ := io.ReadFull(src, head)
	ct := sniffContentType(head[:n], fh.Filename)
	reader := io.MultiReader(bytes.NewReader(head[:n]), src)

	key := b.svc.ObjectKey(dir, fh.Filename)
	if err := b.svc.Put(ctx, key, reader, ct); err != nil {
		log.Printf("[ERROR] OSS put file key=%s: %v", key, err)
		return Uploaded{}, fiber.NewError(fiber.StatusBadGateway, "Gagal upload ke OSS")
	}
	return Uploaded{
		URL:         b.svc.PublicURL(key),
		Key:         key,
		ContentType: ct,
		Name:        fh.Filename,
		Kind:        constants.DetectFileKindFromExt(fh.Filename),
		Size:        fh.Size,
	}, nil
}

func (b *OSSBlobService) MoveToSpam(ctx context.Context, publicURL string) (string, error) {
	if strings.TrimSpace(publicURL) == "" {
		return "", nil
	}
	spamURL, err := b.svc.MoveToSpam(ctx, publicURL)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadGateway, fmt.Sprintf("Gagal memindahkan ke spam: %v", err))
	}
	return spamURL, nil
}

func (b *OSSBlobService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	if strings.TrimSpace(publicURL) == "" {
		return nil
	}
	if err := b.svc.DeleteByPublicURL(ctx, publicURL); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, fmt.Sprintf("Gagal hapus object: %v", err))
	}
	return nil
}

func readFormFile(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	if fh == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan")
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("Ukuran gambar maksimal %dMB", maxBytes>>20))
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "File tidak bisa dibaca")
	}
	defer src.Close()
	return io.ReadAll(src)
}

/* =======================================================================
   Disabled (ENV OSS kosong)
======================================================================= */

type disabledBlob struct{}

var errUploadDisabled = fiber.NewError(fiber.StatusServiceUnavailable, "Upload file belum dikonfigurasi")

func (disabledBlob) UploadImage(context.Context, string, *multipart.FileHeader, bool) (Uploaded, error) {
	return Uploaded{}, errUploadDisabled
}
func (disabledBlob) UploadFile(context.Context, string, *multipart.FileHeader, int64) (Uploaded, error) {
	return Uploaded{}, errUploadDisabled
}
func (disabledBlob) MoveToSpam(context.Context, string) (string, error) { return "", nil }
func (disabledBlob) DeleteByPublicURL(context.Context, string) error  { return nil }

/* =======================================================================
   Helper kecil untuk controller
======================================================================= */

// IsMultipart menilai request multipart/form-data
func IsMultipart(c *fiber.Ctx) bool {
	ct := strings.ToLower(strings.TrimSpace(c.Get(fiber.HeaderContentType)))
	return strings.HasPrefix(ct, "multipart/form-data")
}

// GetFormFile mencari file dari beberapa kemungkinan nama field.
// (nil, nil) kalau tidak ada file supaya controller bisa fallback ke URL.
func GetFormFile(c *fiber.Ctx, fieldNames ...string) (*multipart.FileHeader, error) {
	if !IsMultipart(c) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Gunakan multipart/form-data")
	}
	if len(fieldNames) == 0 {
		fieldNames = []string{"file", "image", "video", "document"}
	}
	for _, fn := range fieldNames {
		if fh, err := c.FormFile(fn); err == nil && fh != nil {
			return fh, nil
		}
	}
	return nil, nil
}

/* =======================================================================
   Mock untuk unit test
======================================================================= */

type MockBlobService struct {
	UploadImageFn       func(ctx context.Context, dir string, fh *multipart.FileHeader, thumb bool) (Uploaded, error)
	UploadFileFn        func(ctx context.Context, dir string, fh *multipart.FileHeader, maxBytes int64) (Uploaded, error)
	MoveToSpamFn        func(ctx context.Context, publicURL string) (string, error)
	DeleteByPublicURLFn func(ctx context.Context, publicURL string) error
}

func (m *MockBlobService) UploadImage(ctx context.Context, dir string, fh *multipart.FileHeader, thumb bool) (Uploaded, error) {
	if m.UploadImageFn == nil {
		return Uploaded{}, errors.New("not implemented")
	}
	return m.UploadImageFn(ctx, dir, fh, thumb)
}

func (m *MockBlobService) UploadFile(ctx context.Context, dir string, fh *multipart.FileHeader, maxBytes int64) (Uploaded, error) {
	if m.UploadFileFn == nil {
		return Uploaded{}, errors.New("not implemented")
	}
	return m.UploadFileFn(ctx, dir, fh, maxBytes)
}

func (m *MockBlobService) MoveToSpam(ctx context.Context, publicURL string) (string, error) {
	if m.MoveToSpamFn == nil {
		return "", nil
	}
	return m.MoveToSpamFn(ctx, publicURL)
}

func (m *MockBlobService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	if m.DeleteByPublicURLFn == nil {
		return nil
	}
	return m.DeleteByPublicURLFn(ctx, publicURL)
}
