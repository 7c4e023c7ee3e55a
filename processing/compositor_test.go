package processing

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"reflect"
	"testing"

	"skinviz/faces"
	"skinviz/severity"
	"skinviz/zones"
)

type meshDetector struct {
	points int
}

func (d meshDetector) DetectMesh(image.Image) ([]faces.Mesh, error) {
	mesh := make(faces.Mesh, d.points)
	for i := range mesh {
		mesh[i] = faces.NormalizedPoint{0.2 + 0.6*float64(i%22)/21, 0.2 + 0.6*float64(i/22)/21, 0}
	}
	return []faces.Mesh{mesh}, nil
}

func uniformPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	buf := bytes.Buffer{}
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	return img
}

func near(a uint32, b uint8) bool {
	d := int(a>>8) - int(b)
	return d > -12 && d < 12
}

func score(f float64) *float64 {
	return &f
}

func TestCompositor_States(t *testing.T) {
	photo := uniformPNG(t, 120, 80, color.Gray{0})
	mask := uniformPNG(t, 30, 20, color.Gray{255})

	tests := []struct {
		name     string
		detector faces.Detector
		mask     []byte
		source   Source
		fallback bool
		status   faces.LandmarkStatus
	}{
		{"no landmarks, no mask", faces.NoopDetector{}, nil, SourceNone, false, faces.StatusFailed},
		{"no landmarks, with mask", faces.NoopDetector{}, mask, SourceMaskOnly, true, faces.StatusFailed},
		{"no landmarks, broken mask", faces.NoopDetector{}, []byte("broken"), SourceNone, false, faces.StatusFailed},
		{"landmarks", meshDetector{faces.MeshPoints}, nil, SourceMediaPipe, false, faces.StatusSuccess},
		{"landmarks with mask", meshDetector{faces.MeshPoints}, mask, SourceMediaPipe, false, faces.StatusSuccess},
		{"partial landmarks", meshDetector{100}, nil, SourceMediaPipe, false, faces.StatusPartial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCompositor(faces.NewAdapter(tt.detector))
			data, status, err := c.CreateZoneVisualization(photo, "wrinkle", tt.mask, Options{Score: score(50)})
			if err != nil {
				t.Fatal(err)
			}
			if status.VisualizationSource != tt.source || status.FallbackUsed != tt.fallback || status.LandmarkStatus != tt.status {
				t.Errorf("got source %s, fallback %v, landmarks %s", status.VisualizationSource, status.FallbackUsed, status.LandmarkStatus)
			}
			if b := decodeJPEG(t, data).Bounds(); b.Dx() != 120 || b.Dy() != 80 {
				t.Errorf("output size %v", b)
			}
			wantLevel := severity.Level(50, severity.NumLevels("wrinkle"))
			if status.SeverityLevel == nil || *status.SeverityLevel != wantLevel {
				t.Errorf("severity level %v, want %d", status.SeverityLevel, wantLevel)
			}
		})
	}
}

func TestCompositor_MaskOnlyColor(t *testing.T) {
	photo := uniformPNG(t, 40, 40, color.Gray{0})
	mask := uniformPNG(t, 40, 40, color.Gray{255})
	c := NewCompositor(faces.NewAdapter(faces.NoopDetector{}))

	data, status, err := c.CreateZoneVisualization(photo, "acne", mask, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if status.SeverityLevel != nil || status.ScoreUsed != nil {
		t.Errorf("no score given, got level %v score %v", status.SeverityLevel, status.ScoreUsed)
	}
	want := severity.BaseColor("acne")
	if status.ColorRGB != want {
		t.Errorf("color %v, want base color %v", status.ColorRGB, want)
	}
	r, g, b, _ := decodeJPEG(t, data).At(20, 20).RGBA()
	if !near(r, want[0]) || !near(g, want[1]) || !near(b, want[2]) {
		t.Errorf("pixel (%d, %d, %d), want ~%v", r>>8, g>>8, b>>8, want)
	}
}

func TestCompositor_SeverityGrading(t *testing.T) {
	photo := uniformPNG(t, 60, 60, color.Gray{128})
	c := NewCompositor(faces.NewAdapter(meshDetector{faces.MeshPoints}))
	tests := []struct {
		concern string
		score   float64
		level   int
	}{
		{"acne", 20, 2},
		{"radiance", 90, 0},
		{"oiliness", 50, 0},
		{"age_spot", 10, 3},
	}
	for _, tt := range tests {
		t.Run(tt.concern, func(t *testing.T) {
			_, status, err := c.CreateZoneVisualization(photo, tt.concern, nil, Options{Score: score(tt.score)})
			if err != nil {
				t.Fatal(err)
			}
			if status.SeverityLevel == nil || *status.SeverityLevel != tt.level {
				t.Fatalf("level %v, want %d", status.SeverityLevel, tt.level)
			}
			if want := severity.Grades(tt.concern)[tt.level]; status.ColorRGB != want.Color || status.SeverityLabel != want.Label {
				t.Errorf("got %v %q, want %v %q", status.ColorRGB, status.SeverityLabel, want.Color, want.Label)
			}
		})
	}
}

func TestCompositor_DrawsOverlay(t *testing.T) {
	photo := uniformPNG(t, 100, 100, color.Gray{128})
	styles := []Style{StyleOutline, StyleFilled}
	for _, concern := range []string{"wrinkle", "acne"} {
		for _, style := range styles {
			plain, _, _ := NewCompositor(faces.NewAdapter(nil)).CreateZoneVisualization(photo, concern, nil, Options{Style: style})
			drawn, _, err := NewCompositor(faces.NewAdapter(meshDetector{faces.MeshPoints})).CreateZoneVisualization(photo, concern, nil, Options{Style: style})
			if err != nil {
				t.Fatal(err)
			}
			if bytes.Equal(plain, drawn) {
				t.Errorf("%s/%s: nothing was drawn", concern, style)
			}
		}
	}
}

func TestCompositor_DecodeFailure(t *testing.T) {
	c := NewCompositor(faces.NewAdapter(meshDetector{faces.MeshPoints}))
	data, status, err := c.CreateZoneVisualization([]byte("not an image"), "acne", nil, Options{})
	if !errors.Is(err, faces.ErrDecode) {
		t.Fatalf("error %v, want ErrDecode", err)
	}
	if data != nil || status.LandmarkStatus != faces.StatusFailed || status.VisualizationSource != SourceNone || status.LandmarkError == "" {
		t.Errorf("unexpected status %+v", status)
	}
}

func TestCompositor_Tint(t *testing.T) {
	photo := uniformPNG(t, 20, 20, color.Gray{0})
	for _, opts := range []struct {
		name   string
		option Option
		tint   bool
	}{
		{"per call", WithTint(false), true},
		{"compositor wide", WithTint(true), false},
	} {
		t.Run(opts.name, func(t *testing.T) {
			c := NewCompositor(nil, opts.option)
			data, _, err := c.CreateZoneVisualization(photo, "acne", nil, Options{Tint: opts.tint})
			if err != nil {
				t.Fatal(err)
			}
			r, g, b, _ := decodeJPEG(t, data).At(10, 10).RGBA()
			if !near(r, 0) || !near(g, 28) || !near(b, 33) {
				t.Errorf("tinted black = (%d, %d, %d), want ~(0, 28, 33)", r>>8, g>>8, b>>8)
			}
		})
	}
}

func Test_applyTint(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{255, 255, 255, 7})
	applyTint(img)
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{0, 28, 33, 255}) {
		t.Errorf("black -> %v", got)
	}
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{217, 255, 255, 7}) {
		t.Errorf("white -> %v", got)
	}
}

func Test_dotStyle(t *testing.T) {
	type args struct {
		width, height, level, numLevels int
	}
	tests := []struct {
		name   string
		args   args
		radius float64
		alpha  int
	}{
		{"mildest", args{1000, 400, 0, 3}, 2, 180},
		{"middle", args{1000, 400, 1, 3}, 3, 218},
		{"most severe", args{1000, 400, 2, 3}, 4, 255},
		{"tiny image", args{50, 50, 3, 4}, 2, 255},
		{"single level", args{400, 400, 0, 1}, 2, 180},
		{"level clamped", args{400, 400, 7, 3}, 4, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			radius, alpha := dotStyle(tt.args.width, tt.args.height, tt.args.level, tt.args.numLevels)
			if radius != tt.radius || alpha != tt.alpha {
				t.Errorf("dotStyle() = %v, %v; want %v, %v", radius, alpha, tt.radius, tt.alpha)
			}
		})
	}
}

func Test_markerStyle(t *testing.T) {
	tests := []struct {
		intensity, radius, alpha int
	}{
		{31, 2, 131},
		{120, 2, 220},
		{155, 3, 255},
		{255, 5, 255},
	}
	for _, tt := range tests {
		radius, alpha := markerStyle(tt.intensity)
		if radius != tt.radius || alpha != tt.alpha {
			t.Errorf("markerStyle(%d) = %d, %d; want %d, %d", tt.intensity, radius, alpha, tt.radius, tt.alpha)
		}
	}
}

// exactMatcher only accepts a mask named exactly like the concern
type exactMatcher struct {
	asked []string
}

func (m *exactMatcher) Match(concern string, maskSet map[string][]byte) (string, []byte, bool) {
	m.asked = append(m.asked, concern)
	data, ok := maskSet[concern]
	return concern, data, ok
}

func TestCompositor_CustomCatalogAndMatcher(t *testing.T) {
	photo := uniformPNG(t, 40, 40, color.Gray{60})
	maskSet := map[string][]byte{
		"a_spots.png": []byte("broken"),
		"spots":       uniformPNG(t, 40, 40, color.Gray{255}),
	}
	catalog := zones.NewCatalog(
		[]zones.Zone{zones.Leaf("patch", 0, 1, 2, 3)},
		[]zones.ConcernZones{{Concern: "spots", Zones: []string{"patch"}}},
		[]string{"patch"},
	)

	matcher := &exactMatcher{}
	c := NewCompositor(faces.NewAdapter(faces.NoopDetector{}), WithCatalog(catalog), WithMatcher(matcher))
	batch := c.CreateAllZoneVisualizations(photo, maskSet, nil, Options{})
	if !reflect.DeepEqual(batch.Concerns, []string{"spots"}) {
		t.Fatalf("concerns %v, want the custom catalog", batch.Concerns)
	}
	if !reflect.DeepEqual(matcher.asked, []string{"spots"}) {
		t.Errorf("matcher asked for %v", matcher.asked)
	}
	if got := batch.Results["spots"].Status.VisualizationSource; got != SourceMaskOnly {
		t.Errorf("exact match: source %s, want %s", got, SourceMaskOnly)
	}

	// The substring matcher picks the broken mask, which sorts first
	c = NewCompositor(faces.NewAdapter(faces.NoopDetector{}), WithCatalog(catalog))
	batch = c.CreateAllZoneVisualizations(photo, maskSet, nil, Options{})
	if got := batch.Results["spots"].Status.VisualizationSource; got != SourceNone {
		t.Errorf("substring match: source %s, want %s", got, SourceNone)
	}
}

func TestCompositor_IntensityMarkerThreshold(t *testing.T) {
	photo := uniformPNG(t, 100, 100, color.Gray{128})
	c := NewCompositor(faces.NewAdapter(meshDetector{faces.MeshPoints}))
	render := func(mask []byte) []byte {
		t.Helper()
		data, status, err := c.CreateZoneVisualization(photo, "wrinkle", mask, Options{Score: score(50)})
		if err != nil {
			t.Fatal(err)
		}
		if status.VisualizationSource != SourceMediaPipe {
			t.Fatalf("source %s", status.VisualizationSource)
		}
		return data
	}
	plain := render(nil)

	tests := []struct {
		name    string
		level   uint8
		changed bool
	}{
		{"below threshold", 20, false},
		{"at threshold", 30, false},
		{"strong", 255, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(uniformPNG(t, 100, 100, color.Gray{tt.level}))
			if changed := !bytes.Equal(got, plain); changed != tt.changed {
				t.Errorf("mask %d changed output = %v, want %v", tt.level, changed, tt.changed)
			}
		})
	}
}
