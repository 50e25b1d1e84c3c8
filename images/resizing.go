package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
	"github.com/nfnt/resize"
	"gocv.io/x/gocv"
)

// ImageFormat represents supported raster formats.
type ImageFormat string

const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG ImageFormat = "jpeg"
	// FormatPNG is the PNG image format.
	FormatPNG ImageFormat = "png"
	// FormatWebP is the WebP image format.
	FormatWebP ImageFormat = "webp"
)

// DecodeImage decodes raw image bytes of the given format into a Go-native
// image.Image.
//
// Arguments:
//   - b: The encoded image bytes.
//   - format: One of FormatJPEG, FormatPNG, FormatWebP.
//
// Returns:
//   - image.Image: The decoded image.
//   - error: An error if the data is empty, the format is unsupported, or
//     decoding fails.
func DecodeImage(b []byte, format ImageFormat) (image.Image, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("empty image data")
	}

	switch format {
	case FormatJPEG:
		img, err := jpeg.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("failed to decode JPEG: %w", err)
		}
		return img, nil
	case FormatPNG:
		img, err := png.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("failed to decode PNG: %w", err)
		}
		return img, nil
	case FormatWebP:
		img, err := webp.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("failed to decode WebP: %w", err)
		}
		return img, nil
	default:
		return nil, fmt.Errorf("unsupported image format: %q", format)
	}
}

// ResizeToInput resizes an image to the model's fixed input resolution
// using bilinear resampling.
func ResizeToInput(img image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions: width=%d, height=%d", width, height)
	}
	return resize.Resize(uint(width), uint(height), img, resize.Bilinear), nil
}

// ToMat converts a Go-native image into a gocv.Mat suitable for drawing.
// The returned Mat is owned by the caller and must be closed.
func ToMat(img image.Image) (gocv.Mat, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to convert image to Mat: %w", err)
	}
	return mat, nil
}

// DecodeToMat decodes encoded image bytes straight into a gocv.Mat via
// OpenCV, preserving the decoder's BGR channel order.
func DecodeToMat(b []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(b, gocv.IMReadColor)
	if err != nil || mat.Empty() {
		// IMDecode hands back a Mat even on failure; close it so the
		// error path does not leak a native allocation.
		mat.Close()
		return gocv.Mat{}, fmt.Errorf("failed to decode image")
	}
	return mat, nil
}
