package severity

import (
	"fmt"
	"sort"
)

// RGB is a color triple, serialized as [r, g, b]
type RGB [3]uint8

// Grade is one step of a concern's severity scale
type Grade struct {
	Color RGB
	Label string
}

// Result is the outcome of grading a (possibly absent) score
type Result struct {
	Color RGB
	Level *int // nil when no score was available
	Label string
}

// DefaultColor is used for concerns without any color table
var DefaultColor = RGB{0, 212, 255}

// Score thresholds keyed by the number of levels. Each row is sorted in descending
// order and has numLevels-1 entries. Thresholds are inclusive lower bounds.
var thresholds = map[int][]float64{
	2: {50},
	3: {66, 33},
	4: {75, 50, 25},
}

// Severity scales per concern, index 0 is the mildest grade.
//
//   - oiliness: Baumann skin typing (2 levels)
//   - pore: clinical pore assessment
//   - wrinkle: simplified modified Glogau scale
//   - acne: simplified Global Acne Grading System
//   - age_spot: pigmentation severity (4 levels)
//   - dark_circle, eye_bag: periorbital hyperpigmentation classes
//   - redness: erythema severity
//   - firmness: skin laxity
//   - radiance, texture: visual grading
var colorLevels = map[string][]Grade{
	"oiliness": {
		{RGB{255, 204, 0}, "oily zone"},
		{RGB{255, 149, 0}, "very oily"},
	},
	"pore": {
		{RGB{0, 212, 255}, "clogged pores"},
		{RGB{255, 149, 0}, "enlarged pores"},
		{RGB{255, 204, 0}, "oily area"},
	},
	"wrinkle": {
		{RGB{0, 212, 255}, "fine lines"},
		{RGB{168, 85, 247}, "moderate wrinkles"},
		{RGB{239, 68, 68}, "deep wrinkles"},
	},
	"acne": {
		{RGB{255, 204, 0}, "post-acne marks"},
		{RGB{255, 149, 0}, "inflamed area"},
		{RGB{255, 59, 48}, "active acne"},
	},
	"age_spot": {
		{RGB{0, 212, 255}, "light spots"},
		{RGB{255, 149, 0}, "freckles"},
		{RGB{139, 90, 43}, "melasma"},
		{RGB{160, 82, 45}, "age spots"},
	},
	"dark_circle": {
		{RGB{92, 92, 255}, "vascular"},
		{RGB{139, 69, 19}, "pigmented"},
		{RGB{128, 128, 128}, "structural"},
	},
	"eye_bag": {
		{RGB{92, 92, 255}, "mild"},
		{RGB{139, 69, 19}, "moderate"},
		{RGB{128, 128, 128}, "severe"},
	},
	"redness": {
		{RGB{255, 107, 107}, "mild redness"},
		{RGB{239, 68, 68}, "moderate redness"},
		{RGB{220, 38, 38}, "high redness"},
	},
	"firmness": {
		{RGB{0, 212, 255}, "good elasticity"},
		{RGB{245, 158, 11}, "slight loss"},
		{RGB{239, 68, 68}, "needs attention"},
	},
	"radiance": {
		{RGB{255, 215, 0}, "bright area"},
		{RGB{192, 192, 192}, "dull"},
		{RGB{128, 128, 128}, "very dull"},
	},
	"texture": {
		{RGB{0, 212, 255}, "smooth"},
		{RGB{175, 82, 222}, "rough"},
		{RGB{139, 69, 19}, "very rough"},
	},
}

// Single colors used when no score is available for a concern
var baseColors = map[string]RGB{
	"oiliness":    {255, 204, 0},
	"acne":        {255, 59, 48},
	"pore":        {255, 149, 0},
	"wrinkle":     {0, 212, 255},
	"dark_circle": {94, 92, 230},
	"eye_bag":     {88, 86, 214},
	"age_spot":    {162, 132, 94},
	"redness":     {255, 100, 100},
	"firmness":    {0, 255, 200},
	"radiance":    {255, 255, 100},
	"texture":     {175, 82, 222},
}

func init() {
	if err := Validate(); err != nil {
		panic(err)
	}
}

// Level returns the severity level (0 = mildest, numLevels-1 = most severe) for a
// 0-100 health score. Unknown level counts grade as 0.
func Level(score float64, numLevels int) int {
	row, ok := thresholds[numLevels]
	if !ok {
		return 0
	}
	for i, threshold := range row {
		if score >= threshold {
			return i
		}
	}
	return numLevels - 1
}

// NumLevels returns the size of the concern's severity scale (1 for unknown concerns)
func NumLevels(concern string) int {
	if levels, ok := colorLevels[concern]; ok {
		return len(levels)
	}
	return 1
}

// ColorFor returns the color of the concern's grade for the given score
func ColorFor(concern string, score float64) RGB {
	levels, ok := colorLevels[concern]
	if !ok {
		return BaseColor(concern)
	}
	return levels[Level(score, len(levels))].Color
}

// BaseColor is the concern's single color, used when there is no score
func BaseColor(concern string) RGB {
	if c, ok := baseColors[concern]; ok {
		return c
	}
	return DefaultColor
}

// GradeFor resolves color, level and label for a concern. A nil score yields the base
// color and a nil level.
func GradeFor(concern string, score *float64) Result {
	if score == nil {
		return Result{Color: BaseColor(concern)}
	}
	level := Level(*score, NumLevels(concern))
	result := Result{
		Color: ColorFor(concern, *score),
		Level: &level,
	}
	if levels, ok := colorLevels[concern]; ok {
		result.Label = levels[level].Label
	}
	return result
}

// Grades returns a copy of the concern's scale, mildest first
func Grades(concern string) []Grade {
	levels := colorLevels[concern]
	result := make([]Grade, len(levels))
	copy(result, levels)
	return result
}

// Concerns lists the concerns with a severity scale, sorted by name
func Concerns() []string {
	result := make([]string, 0, len(colorLevels))
	for k := range colorLevels {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}

// Validate checks that every color table has a matching threshold row, so grading
// and coloring always agree on the number of levels.
func Validate() error {
	for n, row := range thresholds {
		if len(row) != n-1 {
			return fmt.Errorf("threshold row for %d levels has %d entries", n, len(row))
		}
		for i := 1; i < len(row); i++ {
			if row[i] >= row[i-1] {
				return fmt.Errorf("threshold row for %d levels is not descending", n)
			}
		}
	}
	for _, concern := range Concerns() {
		n := len(colorLevels[concern])
		if _, ok := thresholds[n]; !ok {
			return fmt.Errorf("concern %q has %d color levels but no threshold row", concern, n)
		}
	}
	return nil
}
