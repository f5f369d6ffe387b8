package helper

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"elearning_backend/internals/configs"
)

var ErrUnsupportedImage = errors.New("format gambar tidak didukung")

/* =======================================================================
   Konfigurasi WebP (ENV-driven)
======================================================================= */

type WebPOptions struct {
	MaxW        int     // batas lebar (keep aspect)
	MaxH        int     // batas tinggi
	TargetKB    int     // 0 = encode sekali pakai Quality
	Quality     float32 // default quality
	MinQ        float32 // batas bawah binary search
	MaxQ        float32 // batas atas binary search
	ToleranceKB int
}

func WebPOptionsFromEnv() WebPOptions {
	return WebPOptions{
		MaxW:        configs.GetEnvInt("IMAGE_WEBP_MAX_W", 1600),
		MaxH:        configs.GetEnvInt("IMAGE_WEBP_MAX_H", 1600),
		TargetKB:    configs.GetEnvInt("IMAGE_WEBP_TARGET_KB", 0),
		Quality:     float32(configs.GetEnvInt("IMAGE_WEBP_QUALITY", 80)),
		MinQ:        45,
		MaxQ:        85,
		ToleranceKB: 8,
	}
}

// Ukuran thumbnail kartu course (crop tengah).
type ThumbSize struct{ W, H int }

func ThumbSizeFromEnv() ThumbSize {
	return ThumbSize{
		W: configs.GetEnvInt("COURSE_THUMB_W", 480),
		H: configs.GetEnvInt("COURSE_THUMB_H", 270),
	}
}

/* =======================================================================
   Decode (jpeg/png/webp) dengan sniff MIME, fallback ekstensi
======================================================================= */

func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	kind := http.DetectContentType(head)
	if !strings.HasPrefix(kind, "image/") {
		kind = strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	}

	r := bytes.NewReader(all)
	switch {
	case strings.Contains(kind, "jpeg"), kind == "jpg":
		return jpeg.Decode(r)
	case strings.Contains(kind, "png"):
		return png.Decode(r)
	case strings.Contains(kind, "webp"):
		return webp.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, kind)
	}
}

/* =======================================================================
   Resize (keep aspect, CatmullRom)
======================================================================= */

func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return src
	}
	scale := 1.0
	if maxW > 0 {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

/* =======================================================================
   Encode WebP
   - TargetKB > 0 → binary search quality sampai <= target+tol
   - TargetKB = 0 → encode sekali
======================================================================= */

func encodeWebP(img image.Image, q float32) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Quality: q}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeToWebP(img image.Image, opt WebPOptions) ([]byte, error) {
	if opt.TargetKB <= 0 {
		q := opt.Quality
		if q <= 0 {
			q = 80
		}
		return encodeWebP(img, q)
	}

	limit := (opt.TargetKB + max(opt.ToleranceKB, 0)) * 1024
	low, high := opt.MinQ, opt.MaxQ
	if low <= 0 || high <= 0 || low > high {
		low, high = 45, 85
	}

	var best []byte
	for i := 0; i < 7; i++ {
		q := (low + high) / 2
		data, err := encodeWebP(img, q)
		if err != nil {
			return nil, err
		}
		if len(data) <= limit {
			best = data
			low = q // masih muat, coba kualitas lebih tinggi
		} else {
			high = q
		}
	}
	if best == nil {
		return encodeWebP(img, opt.MinQ)
	}
	return best, nil
}

// ConvertToWebP: decode → resize → encode.
func ConvertToWebP(all []byte, filename string, opt WebPOptions) ([]byte, error) {
	img, err := decodeImage(all, filename)
	if err != nil {
		return nil, err
	}
	return encodeToWebP(downscaleIfNeeded(img, opt.MaxW, opt.MaxH), opt)
}

// MakeThumbnail: crop tengah ke ukuran pasti lalu encode WebP.
func MakeThumbnail(all []byte, filename string, size ThumbSize) ([]byte, error) {
	img, err := decodeImage(all, filename)
	if err != nil {
		return nil, err
	}
	if size.W <= 0 || size.H <= 0 {
		size = ThumbSize{W: 480, H: 270}
	}
	thumb := imaging.Fill(img, size.W, size.H, imaging.Center, imaging.Lanczos)
	return encodeWebP(thumb, 75)
}
