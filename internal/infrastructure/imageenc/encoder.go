// Package imageenc turns uploaded product photos into data URLs.
package imageenc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/mrops-br/storefront-api/internal/domain"
)

// Encoder decodes an uploaded image, shrinks it to fit MaxDimension and
// re-encodes it as a base64 data URL. PNG stays PNG to keep transparency,
// everything else becomes JPEG. MaxPixels bounds the decoded size, which a
// small compressed file can otherwise inflate far past MaxBytes.
type Encoder struct {
	MaxBytes     int
	MaxDimension int
	MaxPixels    int
	Quality      int
	logger       *slog.Logger
}

// NewEncoder creates an encoder with the given limits
func NewEncoder(maxBytes, maxDimension, maxPixels, quality int, logger *slog.Logger) *Encoder {
	return &Encoder{
		MaxBytes:     maxBytes,
		MaxDimension: maxDimension,
		MaxPixels:    maxPixels,
		Quality:      quality,
		logger:       logger,
	}
}

// Encode converts raw image bytes into a data URL
func (e *Encoder) Encode(data []byte) (string, error) {
	if e.MaxBytes > 0 && len(data) > e.MaxBytes {
		return "", fmt.Errorf("%w: %d bytes (max %d)", domain.ErrImageTooLarge, len(data), e.MaxBytes)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); e.MaxPixels > 0 && pixels > int64(e.MaxPixels) {
		return "", fmt.Errorf("%w: %dx%d pixels (max %d)", domain.ErrImageTooLarge, cfg.Width, cfg.Height, e.MaxPixels)
	}

	// phone photos carry their rotation in EXIF
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if e.MaxDimension > 0 && (bounds.Dx() > e.MaxDimension || bounds.Dy() > e.MaxDimension) {
		img = imaging.Fit(img, e.MaxDimension, e.MaxDimension, imaging.Lanczos)
		e.logger.Debug("Image resized",
			slog.Int("from_width", bounds.Dx()),
			slog.Int("from_height", bounds.Dy()),
			slog.Int("to_width", img.Bounds().Dx()),
			slog.Int("to_height", img.Bounds().Dy()),
		)
	}

	outFormat, mime := imaging.JPEG, "image/jpeg"
	if format == "png" {
		outFormat, mime = imaging.PNG, "image/png"
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, outFormat, imaging.JPEGQuality(e.Quality)); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
