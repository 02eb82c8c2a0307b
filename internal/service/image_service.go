package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"net/http"
	"strings"

	"tribune/internal/models"
	"tribune/internal/repository"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// DefaultImageMaxUploadSizeMB bounds raw upload size before decoding.
	DefaultImageMaxUploadSizeMB = 10
	// ImageMaxDimension is the longest edge kept after downscaling.
	ImageMaxDimension = 1080
	// WebPQuality is the lossy quality used for stored images.
	WebPQuality = 80
)

// UploadImageInput carries an uploaded file ready for processing.
type UploadImageInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
}

// ImageService normalizes uploaded images into WebP and stores them
// deduplicated by content hash.
type ImageService struct {
	repo               repository.ImageRepository
	maxUploadSizeBytes int64
}

// NewImageService creates a new ImageService. maxUploadSizeMB of zero or less
// falls back to the default limit.
func NewImageService(repo repository.ImageRepository, maxUploadSizeMB int) *ImageService {
	if maxUploadSizeMB <= 0 {
		maxUploadSizeMB = DefaultImageMaxUploadSizeMB
	}
	return &ImageService{
		repo:               repo,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Upload validates, downscales and re-encodes an uploaded image, returning
// the stored record. Re-uploading identical content returns the existing
// record instead of storing a duplicate.
func (s *ImageService) Upload(ctx context.Context, in UploadImageInput) (*models.Image, error) {
	if in.UserID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	if detected := http.DetectContentType(in.Content); !isAllowedImageMIME(detected) {
		return nil, models.NewValidationError("Invalid image type")
	}
	if provided := normalizeContentType(in.ContentType); provided != "" && !strings.HasPrefix(provided, "image/") {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	hash := hashImageContent(in.Content)
	if existing, err := s.repo.GetByHash(ctx, hash); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	scaled := resizeToFit(decoded, ImageMaxDimension, ImageMaxDimension)
	encoded, err := encodeWebP(scaled, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	b := scaled.Bounds()
	record := &models.Image{
		Name:        uuid.NewString() + ".webp",
		Hash:        hash,
		ContentType: "image/webp",
		Width:       b.Dx(),
		Height:      b.Dy(),
		Data:        encoded,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// GetByName resolves a stored image by its generated name.
func (s *ImageService) GetByName(ctx context.Context, name string) (*models.Image, error) {
	if strings.TrimSpace(name) == "" {
		return nil, models.NewValidationError("Invalid image name")
	}
	return s.repo.GetByName(ctx, name)
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || (w <= maxWidth && h <= maxHeight) {
		return src
	}

	scale := float64(maxWidth) / float64(w)
	if s := float64(maxHeight) / float64(h); s < scale {
		scale = s
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func hashImageContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
