package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"path"
	"time"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/koligo/koligo/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/nicolasparada/go-errs"
	_ "golang.org/x/image/webp"
)

const (
	maxImageBytes      = 10 << 20
	maxImageResolution = 1600
)

var (
	errImageTooLarge          = errs.InvalidArgumentError("image must be at most 10MB")
	errUnsupportedImageFormat = errs.InvalidArgumentError("unsupported image format, use jpeg, png, gif or webp")
)

// processImage decodes an uploaded image, fits it inside
// maxImageResolution on both sides and re-encodes it as jpeg
// under a random name.
func processImage(upload types.Upload) (types.Attachment, error) {
	var out types.Attachment

	if len(upload.Data) > maxImageBytes {
		return out, errImageTooLarge
	}

	switch http.DetectContentType(upload.Data) {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
	default:
		return out, errUnsupportedImageFormat
	}

	img, err := imaging.Decode(bytes.NewReader(upload.Data), imaging.AutoOrientation(true))
	if errors.Is(err, image.ErrFormat) {
		return out, errUnsupportedImageFormat
	}

	if err != nil {
		return out, fmt.Errorf("decode image: %w", err)
	}

	img = imaging.Fit(img, maxImageResolution, maxImageResolution, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return out, fmt.Errorf("encode image: %w", err)
	}

	name, err := gonanoid.New()
	if err != nil {
		return out, fmt.Errorf("generate image name: %w", err)
	}

	now := time.Now()
	bounds := img.Bounds()

	out.Path = path.Join(fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day()), name+".jpg")
	out.ContentType = "image/jpeg"
	out.FileSize = uint64(buf.Len())
	out.Width = uint32(bounds.Dx())
	out.Height = uint32(bounds.Dy())
	out.SetReader(bytes.NewReader(buf.Bytes()))

	return out, nil
}
