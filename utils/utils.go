package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// JPEGQuality is used for every rendered image
const JPEGQuality = 95

// DecodeImage decodes any of the registered formats (JPEG, PNG, GIF, WebP, BMP, TIFF)
func DecodeImage(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty image")
	}
	return image.Decode(bytes.NewReader(data))
}

// ToNRGBA returns a copy of img as NRGBA with its origin at (0, 0)
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	result := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(result, result.Bounds(), img, b.Min, draw.Src)
	return result
}

// DropAlpha makes every pixel opaque, keeping the straight color values
func DropAlpha(img *image.NRGBA) *image.NRGBA {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

// EncodeJPEG flattens img (dropping alpha) and encodes it
func EncodeJPEG(img image.Image) ([]byte, error) {
	buf := bytes.Buffer{}
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Thumb describes a thumbnail written by CreateThumb
type Thumb struct {
	Size         int64
	Width        int
	Height       int
	SourceWidth  int
	SourceHeight int
}

// CreateThumb fits the image into a size x size box, keeping the aspect ratio.
// Images already inside the box are re-encoded at their own size.
func CreateThumb(size uint, reader io.Reader, writer io.Writer) (result Thumb, err error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return result, err
	}
	img, _, err := DecodeImage(data)
	if err != nil {
		return result, err
	}
	thumb := resize.Thumbnail(size, size, img, resize.Lanczos3)
	encoded, err := EncodeJPEG(thumb)
	if err != nil {
		return result, err
	}
	result.Width, result.Height = thumb.Bounds().Dx(), thumb.Bounds().Dy()
	result.SourceWidth, result.SourceHeight = img.Bounds().Dx(), img.Bounds().Dy()
	result.Size, err = io.Copy(writer, bytes.NewReader(encoded))
	return result, err
}
