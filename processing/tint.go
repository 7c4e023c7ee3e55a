package processing

import "image"

var (
	tintColor   = [3]float64{0, 180, 200}
	tintOpacity = 0.15
	tintGain    = [3]float64{1, 1.05, 1.10}
)

// applyTint gives the photo a cool, clinical cast in place. Alpha is untouched.
func applyTint(img *image.NRGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		for ch := 0; ch < 3; ch++ {
			v := float64(img.Pix[i+ch])*(1-tintOpacity) + tintColor[ch]*tintOpacity
			v *= tintGain[ch]
			if v > 255 {
				v = 255
			}
			img.Pix[i+ch] = uint8(v + 0.5)
		}
	}
}
