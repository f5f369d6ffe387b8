package helper

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x % 255), uint8(y % 255), 120, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestBuildObjectKey(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	key := buildObjectKey("elearning", "/courses/abc/images/", "Foto Sampul_Utama.PNG", now)

	assert.True(t, strings.HasPrefix(key, "elearning/courses/abc/images/foto-sampul-utama_20250304_050607_"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	bare := buildObjectKey("", "", "???.pdf", now)
	assert.True(t, strings.HasPrefix(bare, "file_20250304_050607_"), bare)
}

func TestPublicURLRoundTrip(t *testing.T) {
	s := &OSSService{Endpoint: "https://oss-ap-southeast-5.aliyuncs.com", BucketName: "lms"}
	u := s.PublicURL("elearning/courses/x/a.webp")
	assert.Equal(t, "https://lms.oss-ap-southeast-5.aliyuncs.com/elearning/courses/x/a.webp", u)

	key, err := s.KeyFromPublicURL(u)
	require.NoError(t, err)
	assert.Equal(t, "elearning/courses/x/a.webp", key)

	cdn := &OSSService{PublicBase: "https://cdn.example.com/assets"}
	key, err = cdn.KeyFromPublicURL("https://cdn.example.com/assets/elearning/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "elearning/a.pdf", key)

	_, err = s.KeyFromPublicURL("  ")
	assert.Error(t, err)
}

func TestSpamKey(t *testing.T) {
	now := time.Date(2025, 1, 2, 13, 14, 15, 0, time.UTC)
	assert.Equal(t, "spam/2025/01/02/131415__a.webp", SpamKey("elearning/courses/x/a.webp", now))
}

func TestConvertToWebPDownscales(t *testing.T) {
	src := samplePNG(t, 400, 200)
	out, err := ConvertToWebP(src, "cover.png", WebPOptions{MaxW: 100, MaxH: 100, Quality: 70})
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestConvertToWebPRejectsNonImage(t *testing.T) {
	_, err := ConvertToWebP([]byte("%PDF-1.4 not an image"), "doc.pdf", WebPOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestMakeThumbnailExactSize(t *testing.T) {
	out, err := MakeThumbnail(samplePNG(t, 300, 300), "cover.png", ThumbSize{W: 160, H: 90})
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 160, cfg.Width)
	assert.Equal(t, 90, cfg.Height)
}

func TestChunkKeys(t *testing.T) {
	keys := make([]string, 2500)
	chunks := chunkKeys(keys, 1000)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[2], 500)
	assert.Empty(t, chunkKeys(nil, 1000))
}

func TestCollectUploadFilesDedup(t *testing.T) {
	fh := func(name string, size int64) *multipart.FileHeader {
		return &multipart.FileHeader{Filename: name, Size: size, Header: textproto.MIMEHeader{}}
	}
	form := &multipart.Form{File: map[string][]*multipart.FileHeader{
		"files[]":     {fh("a.pdf", 10), fh("b.pdf", 20)},
		"attachments": {fh("a.pdf", 10), fh("c.zip", 5)},
	}}
	got := CollectUploadFiles(form)
	require.Len(t, got, 3)
	assert.Equal(t, "a.pdf", got[0].Filename)
	assert.Equal(t, "c.zip", got[2].Filename)
}

func TestDirs(t *testing.T) {
	c := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	ch := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	assert.Equal(t, "courses/"+c.String()+"/images", CourseImageDir(c))
	assert.Equal(t, "courses/"+c.String()+"/chapters/"+ch.String()+"/video", ChapterFileDir(c, ch, "Video"))
}

func TestSniffContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", sniffContentType(nil, "x.pdf"))
	assert.Equal(t, "video/mp4", sniffContentType(nil, "x.MP4"))
	assert.Equal(t, "application/octet-stream", sniffContentType(nil, "noext"))
	assert.Equal(t, "image/png", sniffContentType(samplePNG(t, 2, 2)[:64], "noext"))
}
