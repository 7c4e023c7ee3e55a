// Package mockdata produces provider shaped scores and masks, so the whole pipeline
// can run without an analysis provider.
package mockdata

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/fogleman/gg"
)

// Concerns in the order the provider reports them
var Concerns = []string{
	"acne", "wrinkle", "pore", "age_spot", "oiliness",
	"radiance", "texture", "redness", "firmness", "moisture",
	"dark_circle_v2", "eye_bag",
}

var mockScores = map[string]float64{
	"acne":           45.2,
	"wrinkle":        62.8,
	"pore":           55.3,
	"age_spot":       71.4,
	"oiliness":       42.1,
	"radiance":       68.9,
	"texture":        59.7,
	"redness":        73.5,
	"firmness":       66.2,
	"moisture":       51.8,
	"dark_circle_v2": 48.3,
	"eye_bag":        70.1,
}

type rgba [4]int

var maskColors = map[string]rgba{
	"acne":           {255, 100, 100, 150},
	"wrinkle":        {200, 150, 255, 150},
	"pore":           {100, 200, 255, 150},
	"age_spot":       {255, 200, 100, 150},
	"oiliness":       {255, 255, 100, 150},
	"radiance":       {255, 200, 200, 150},
	"texture":        {150, 255, 150, 150},
	"redness":        {255, 50, 50, 150},
	"firmness":       {200, 200, 255, 150},
	"moisture":       {100, 255, 255, 150},
	"dark_circle_v2": {150, 100, 200, 150},
	"eye_bag":        {180, 150, 200, 150},
}

var defaultMaskColor = rgba{150, 150, 150, 150}

// Concerns that also get horizontal guide lines
var lineConcerns = map[string]bool{
	"wrinkle":  true,
	"texture":  true,
	"firmness": true,
}

const (
	spotCount     = 30
	spotMinRadius = 5
	spotMaxRadius = 15
)

// Scores returns a score payload shaped like the provider's score_info.json
func Scores() map[string]any {
	result := map[string]any{}
	for concern, score := range mockScores {
		result[concern] = map[string]any{"raw_score": score, "ui_score": score}
	}
	result["all"] = map[string]any{"score": 78.0}
	result["skin_age"] = 28
	return result
}

// Seed derives a stable random seed from the concern name
func Seed(concern string) int64 {
	h := fnv.New32a()
	h.Write([]byte(concern))
	return int64(h.Sum32())
}

// Mask draws a transparent PNG with spots (and lines for line-like concerns) and a
// "[MOCK] <concern>" label. The pattern is the same for the same concern and size.
func Mask(width, height int, concern string) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid mask size %dx%d", width, height)
	}
	c, ok := maskColors[concern]
	if !ok {
		c = defaultMaskColor
	}
	dc := gg.NewContext(width, height)
	dc.SetRGBA255(c[0], c[1], c[2], c[3])

	rng := rand.New(rand.NewSource(Seed(concern)))
	for i := 0; i < spotCount; i++ {
		x := rng.Intn(width)
		y := rng.Intn(height)
		r := spotMinRadius + rng.Intn(spotMaxRadius-spotMinRadius)
		dc.DrawCircle(float64(x), float64(y), float64(r))
		dc.Fill()
	}

	if lineConcerns[concern] {
		dc.SetLineWidth(2)
		for i := 0; i < 5; i++ {
			y := float64(int(float64(height) * (0.3 + float64(i)*0.1)))
			dc.DrawLine(0, y, float64(width), y)
			dc.Stroke()
		}
	}

	label := "[MOCK] " + concern
	w, h := dc.MeasureString(label)
	dc.SetRGBA255(0, 0, 0, 180)
	dc.DrawRectangle(10, 10, w+20, h+10)
	dc.Fill()
	dc.SetRGBA255(255, 255, 255, 255)
	dc.DrawStringAnchored(label, 20, 15, 0, 1)

	buf := bytes.Buffer{}
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MaskName is the provider file name of a concern's mask
func MaskName(concern string) string {
	return "sd_" + concern + "_output_all.png"
}

// Masks returns a mask for every mock concern keyed by provider file name.
// Concerns whose mask cannot be drawn are left out.
func Masks(width, height int) map[string][]byte {
	result := map[string][]byte{}
	for _, concern := range Concerns {
		data, err := Mask(width, height, concern)
		if err != nil {
			continue
		}
		result[MaskName(concern)] = data
	}
	return result
}
