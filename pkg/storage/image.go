package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Register PNG decoder

	"golang.org/x/image/draw"
)

// MaxPhotoBytes caps uploaded profile photos before decoding.
const MaxPhotoBytes = 5 << 20

var (
	ErrUnsupportedImage = errors.New("only JPEG and PNG images are allowed")
	ErrImageTooLarge    = errors.New("image exceeds 5 MB")
)

// Magic byte signatures for accepted photo formats
var magicBytes = map[string][]byte{
	"image/jpeg": {0xFF, 0xD8, 0xFF},
	"image/png":  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
}

// DetectImageType returns the MIME type of data based on its leading bytes.
// The client-supplied content type is never trusted.
func DetectImageType(data []byte) (string, error) {
	if len(data) > MaxPhotoBytes {
		return "", ErrImageTooLarge
	}
	for mime, sig := range magicBytes {
		if bytes.HasPrefix(data, sig) {
			return mime, nil
		}
	}
	return "", ErrUnsupportedImage
}

// CompressImage scales the image down so neither side exceeds maxDimension,
// keeping the aspect ratio, and re-encodes it as JPEG.
func CompressImage(data []byte, maxDimension int, quality int) ([]byte, error) {
	if _, err := DetectImageType(data); err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	bounds := img.Bounds()
	newWidth, newHeight := fitWithin(bounds.Dx(), bounds.Dy(), maxDimension)

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func fitWithin(width, height, maxDimension int) (int, int) {
	if maxDimension <= 0 || (width <= maxDimension && height <= maxDimension) {
		return width, height
	}
	if width > height {
		return maxDimension, max(1, height*maxDimension/width)
	}
	return max(1, width*maxDimension/height), maxDimension
}
