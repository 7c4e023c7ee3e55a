package masks

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"sort"
	"strings"

	"github.com/nfnt/resize"
)

// Channel selects which part of a mask pixel is read as intensity
type Channel int

const (
	// Luminance is 0.299R + 0.587G + 0.114B of the straight (non-premultiplied) color
	Luminance Channel = iota
	// Alpha reads the alpha channel
	Alpha
	// Auto reads alpha for images that carry an alpha channel and luminance otherwise
	Auto
)

// Intensity is a single channel map, resized to the target image
type Intensity struct {
	Width  int
	Height int
	Pix    []uint8
}

// At returns the intensity at (x, y), 0 outside the map
func (m *Intensity) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0
	}
	return m.Pix[y*m.Width+x]
}

// Load decodes a mask, resizes it to width x height and extracts one channel
func Load(data []byte, width, height int, channel Channel) (*Intensity, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid mask target size %dx%d", width, height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode mask: %w", err)
	}
	if channel == Auto {
		channel = Luminance
		if HasAlpha(img) {
			channel = Alpha
		}
	}
	size := img.Bounds().Size()
	if size.X != width || size.Y != height {
		img = resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
	}
	bounds := img.Bounds()
	result := &Intensity{Width: width, Height: height, Pix: make([]uint8, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			if channel == Alpha {
				result.Pix[y*width+x] = c.A
			} else {
				result.Pix[y*width+x] = luminance(c)
			}
		}
	}
	return result, nil
}

// HasAlpha reports whether the decoded image kept an alpha channel (PNG with
// color type RGBA or a palette with transparent entries).
func HasAlpha(img image.Image) bool {
	switch i := img.(type) {
	case *image.NRGBA, *image.NRGBA64:
		return true
	case *image.Paletted:
		return !i.Opaque()
	}
	return false
}

func luminance(c color.NRGBA) uint8 {
	l := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	if l > 255 {
		l = 255
	}
	return uint8(l + 0.5)
}

// Matcher picks the mask of a concern out of a provider mask set
type Matcher interface {
	Match(concern string, masks map[string][]byte) (name string, data []byte, ok bool)
}

// SubstringMatcher matches the first mask name (in sorted order) containing the
// concern name, ignoring case.
type SubstringMatcher struct{}

func (SubstringMatcher) Match(concern string, masks map[string][]byte) (string, []byte, bool) {
	needle := strings.ToLower(concern)
	if needle == "" {
		return "", nil, false
	}
	for _, name := range SortedNames(masks) {
		if strings.Contains(strings.ToLower(name), needle) {
			return name, masks[name], true
		}
	}
	return "", nil, false
}

// SortedNames returns the mask names in lexical order
func SortedNames(masks map[string][]byte) []string {
	names := make([]string, 0, len(masks))
	for name := range masks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
