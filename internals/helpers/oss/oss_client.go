// internals/helpers/oss/oss_client.go
package helper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"schooladmin_backend/internals/configs"
)

var ErrOSSNotConfigured = errors.New("object storage is not configured")

const maxUploadSize = int64(5 * 1024 * 1024)

type WebPOptions struct {
	MaxW    int
	MaxH    int
	Quality float32
}

func defaultWebPOptionsFromEnv() WebPOptions {
	return WebPOptions{
		MaxW:    configs.GetEnvInt("IMAGE_WEBP_MAX_W", 1600),
		MaxH:    configs.GetEnvInt("IMAGE_WEBP_MAX_H", 1600),
		Quality: float32(configs.GetEnvInt("IMAGE_WEBP_QUALITY", 80)),
	}
}

// ImageStore puts images into an Alibaba OSS bucket as WebP.
type ImageStore struct {
	bucket     *oss.Bucket
	publicBase string
	opts       WebPOptions
}

func normalizeEndpoint(ep string) string {
	ep = strings.TrimSpace(ep)
	ep = strings.TrimPrefix(ep, "https://")
	ep = strings.TrimPrefix(ep, "http://")
	return strings.TrimSuffix(ep, "/")
}

// NewImageStoreFromEnv returns ErrOSSNotConfigured when ALI_OSS_* is incomplete.
func NewImageStoreFromEnv() (*ImageStore, error) {
	endpoint := normalizeEndpoint(configs.GetEnv("ALI_OSS_ENDPOINT"))
	ak := configs.GetEnv("ALI_OSS_ACCESS_KEY")
	sk := configs.GetEnv("ALI_OSS_SECRET_KEY")
	bucketName := configs.GetEnv("ALI_OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, ErrOSSNotConfigured
	}

	cli, err := oss.New("https://"+endpoint, ak, sk)
	if err != nil {
		return nil, fmt.Errorf("oss init: %w", err)
	}
	b, err := cli.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("oss bucket: %w", err)
	}

	base := configs.GetEnv("ALI_OSS_PUBLIC_BASE", fmt.Sprintf("https://%s.%s", bucketName, endpoint))
	return &ImageStore{
		bucket:     b,
		publicBase: strings.TrimSuffix(base, "/"),
		opts:       defaultWebPOptionsFromEnv(),
	}, nil
}

// UploadImageAsWebP stores fh under dir/ and returns its public URL.
func (s *ImageStore) UploadImageAsWebP(ctx context.Context, fh *multipart.FileHeader, dir string) (string, error) {
	if s == nil || s.bucket == nil {
		return "", ErrOSSNotConfigured
	}
	if fh.Size > maxUploadSize {
		return "", fmt.Errorf("file too large (max %d MB)", maxUploadSize/(1024*1024))
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return "", err
	}
	img, err := decodeImage(raw, fh.Filename)
	if err != nil {
		return "", err
	}
	img = downscaleIfNeeded(img, s.opts.MaxW, s.opts.MaxH)

	out, err := encodeToWebP(img, s.opts.Quality)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s_%s.webp",
		strings.Trim(dir, "/"), time.Now().UTC().Format("20060102"), uuid.NewString())

	if err := s.bucket.PutObject(key, bytes.NewReader(out),
		oss.ContentType("image/webp"),
		oss.WithContext(ctx),
	); err != nil {
		return "", fmt.Errorf("oss put: %w", err)
	}
	return s.publicBase + "/" + key, nil
}

func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	switch {
	case strings.Contains(ct, "jpeg"):
		return jpeg.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "png"):
		return png.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "webp"):
		return webp.Decode(bytes.NewReader(all))
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return jpeg.Decode(bytes.NewReader(all))
	case ".png":
		return png.Decode(bytes.NewReader(all))
	case ".webp":
		return webp.Decode(bytes.NewReader(all))
	default:
		return nil, fmt.Errorf("unsupported image format: %s", ct)
	}
}

// downscaleIfNeeded keeps aspect ratio (CatmullRom).
func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return src
	}
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
	nw := int(math.Max(1, math.Round(float64(w)*scale)))
	nh := int(math.Max(1, math.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func encodeToWebP(img image.Image, q float32) ([]byte, error) {
	if q <= 0 {
		q = 80
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Quality: q}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
