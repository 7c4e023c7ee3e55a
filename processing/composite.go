package processing

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"strings"

	"skinviz/faces"
	"skinviz/logger"
	"skinviz/masks"
	"skinviz/severity"
	"skinviz/utils"

	"github.com/disintegration/imaging"
)

// Composite layers, bottom first. Mask intensity becomes the layer alpha.
var compositeLayers = []struct {
	concern string
	color   severity.RGB
}{
	{"acne", severity.RGB{255, 59, 48}},
	{"pore", severity.RGB{255, 149, 0}},
	{"wrinkle", severity.RGB{255, 204, 0}},
	{"texture", severity.RGB{175, 82, 222}},
	{"age_spot", severity.RGB{162, 132, 94}},
	{"eye_bag", severity.RGB{88, 86, 214}},
	{"dark_circle", severity.RGB{94, 92, 230}},
}

const compositeAlphaScale = 0.8

// CreateCompositeVisualization combines every matching provider mask into one heat
// map over the photo. Masks that fail to load are skipped.
func CreateCompositeVisualization(imageBytes []byte, maskSet map[string][]byte) ([]byte, error) {
	img, _, err := utils.DecodeImage(imageBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", faces.ErrDecode, err)
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	result := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Rect, utils.DropAlpha(utils.ToNRGBA(img)), image.Point{}, draw.Src)
	names := masks.SortedNames(maskSet)
	for _, layer := range compositeLayers {
		for _, name := range names {
			if !strings.Contains(strings.ToLower(name), layer.concern) {
				continue
			}
			intensity, err := masks.Load(maskSet[name], width, height, masks.Auto)
			if err != nil {
				logger.Warn(logger.Fields{"mask": name, "error": err}, "Failed to process mask")
				continue
			}
			draw.Draw(result, result.Rect, compositeLayer(intensity, layer.color), image.Point{}, draw.Over)
		}
	}
	return utils.EncodeJPEG(unsharpMask(result, 1, 1.2, 3))
}

// CreateSimpleComposite re-encodes the photo, used when there are no masks
func CreateSimpleComposite(imageBytes []byte) ([]byte, error) {
	img, _, err := utils.DecodeImage(imageBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", faces.ErrDecode, err)
	}
	return utils.EncodeJPEG(utils.DropAlpha(utils.ToNRGBA(img)))
}

func compositeLayer(intensity *masks.Intensity, color severity.RGB) *image.NRGBA {
	result := image.NewNRGBA(image.Rect(0, 0, intensity.Width, intensity.Height))
	for i, v := range intensity.Pix {
		o := i * 4
		result.Pix[o] = color[0]
		result.Pix[o+1] = color[1]
		result.Pix[o+2] = color[2]
		result.Pix[o+3] = uint8(float64(v) * compositeAlphaScale)
	}
	return result
}

// unsharpMask adds amount times the difference to a gaussian blur of the given
// sigma. Differences below threshold are left alone. img must be opaque.
func unsharpMask(img *image.RGBA, sigma float64, amount float64, threshold int) *image.RGBA {
	blurred := imaging.Blur(img, sigma)
	result := image.NewRGBA(img.Rect)
	for i := 0; i < len(img.Pix); i++ {
		if i%4 == 3 {
			result.Pix[i] = img.Pix[i]
			continue
		}
		orig := int(img.Pix[i])
		diff := orig - int(blurred.Pix[i])
		if diff < threshold && -diff < threshold {
			result.Pix[i] = img.Pix[i]
			continue
		}
		v := float64(orig) + float64(diff)*amount
		result.Pix[i] = uint8(math.Max(0, math.Min(255, math.Round(v))))
	}
	return result
}
