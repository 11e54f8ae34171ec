// Package storage uploads appointment reference images to S3-compatible
// object storage. Every image is normalized to WebP and downscaled before
// upload so gallery pages stay light.
package storage

import (
	"bytes"
	"context"
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

	"github.com/aws/aws-sdk-go-v2/aws"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/InkLinkStudio/studio-crm/internal/config"
	"github.com/InkLinkStudio/studio-crm/internal/httperr"
)

const (
	maxUploadBytes = 10 << 20
	maxDimension   = 1600
	webpQuality    = 80
	uploadTimeout  = 30 * time.Second
)

// ======================================================
// UPLOADER
// ======================================================

type Uploader struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// New builds the uploader from static credentials. Returns nil when the
// bucket is not configured; callers treat a nil uploader as "feature off".
func New(cfg *config.Config) *Uploader {
	if cfg.S3Bucket == "" || cfg.S3AccessKey == "" {
		return nil
	}

	opts := s3.Options{
		Region: cfg.S3Region,
		Credentials: aws.NewCredentialsCache(
			awscreds.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		),
	}
	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
	}

	publicURL := strings.TrimRight(cfg.S3PublicURL, "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}

	return &Uploader{
		client:    s3.New(opts),
		bucket:    cfg.S3Bucket,
		publicURL: publicURL,
	}
}

// UploadImage converts the uploaded file to WebP, downscales it to at most
// 1600px on the longest side and stores it under prefix/. Returns the
// public URL of the stored object.
func (u *Uploader) UploadImage(
	ctx context.Context,
	fh *multipart.FileHeader,
	prefix string,
) (string, error) {

	if fh.Size > maxUploadBytes {
		return "", httperr.ErrBusiness("image_too_large")
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	raw, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return "", err
	}
	if len(raw) > maxUploadBytes {
		return "", httperr.ErrBusiness("image_too_large")
	}

	img, err := decodeImage(raw, fh.Filename)
	if err != nil {
		return "", httperr.ErrBusiness("unsupported_image_format")
	}

	img = downscale(img, maxDimension, maxDimension)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s.webp", strings.Trim(prefix, "/"), uuid.NewString())

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s", u.publicURL, key), nil
}

// DeleteImage removes a previously uploaded object by its public URL.
// Foreign URLs are ignored.
func (u *Uploader) DeleteImage(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, u.publicURL+"/") {
		return nil
	}
	key := strings.TrimPrefix(url, u.publicURL+"/")

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	return err
}

// ======================================================
// IMAGE PIPELINE
// ======================================================

// decodeImage sniffs the content type first and falls back to the file
// extension. jpeg, png and webp are accepted.
func decodeImage(raw []byte, filename string) (image.Image, error) {
	head := raw
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	switch {
	case strings.Contains(ct, "jpeg"):
		return jpeg.Decode(bytes.NewReader(raw))
	case strings.Contains(ct, "png"):
		return png.Decode(bytes.NewReader(raw))
	case strings.Contains(ct, "webp"):
		return webp.Decode(bytes.NewReader(raw))
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return jpeg.Decode(bytes.NewReader(raw))
	case ".png":
		return png.Decode(bytes.NewReader(raw))
	case ".webp":
		return webp.Decode(bytes.NewReader(raw))
	}

	return nil, fmt.Errorf("unsupported image format: %s", ct)
}

// downscale keeps aspect ratio and never enlarges.
func downscale(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return src
	}

	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
