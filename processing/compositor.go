package processing

import (
	"fmt"
	"image"
	"image/draw"

	"skinviz/faces"
	"skinviz/logger"
	"skinviz/masks"
	"skinviz/severity"
	"skinviz/utils"
	"skinviz/zones"
)

type Source string

const (
	SourceNone      Source = "none"
	SourceMaskOnly  Source = "mask_only"
	SourceMediaPipe Source = "mediapipe"
)

type Style string

const (
	StyleOutline Style = "outline" // closed polyline with vertex markers
	StyleFilled  Style = "filled"  // translucent polygon with outline
)

// Concerns drawn as scattered dots instead of zone boundaries
var dotConcerns = map[string]bool{
	"acne":     true,
	"age_spot": true,
	"pore":     true,
}

// Options control a single visualization
type Options struct {
	Style Style
	Score *float64 // nil when the provider had no score for the concern
	Tint  bool
}

// Status describes how a visualization was produced
type Status struct {
	LandmarkStatus      faces.LandmarkStatus `json:"landmark_status"`
	LandmarkError       string               `json:"landmark_error,omitempty"`
	Confidence          float64              `json:"confidence"`
	FallbackUsed        bool                 `json:"fallback_used"`
	VisualizationSource Source               `json:"visualization_source"`
	SeverityLevel       *int                 `json:"severity_level"`
	SeverityLabel       string               `json:"severity_label,omitempty"`
	ScoreUsed           *float64             `json:"score_used"`
	ColorRGB            severity.RGB         `json:"color_rgb"`
}

type Compositor struct {
	adapter *faces.Adapter
	catalog *zones.Catalog
	matcher masks.Matcher
	tint    bool
}

type Option func(*Compositor)

func WithCatalog(catalog *zones.Catalog) Option {
	return func(c *Compositor) { c.catalog = catalog }
}

func WithMatcher(matcher masks.Matcher) Option {
	return func(c *Compositor) { c.matcher = matcher }
}

// WithTint applies the clinical tint to every visualization
func WithTint(tint bool) Option {
	return func(c *Compositor) { c.tint = tint }
}

func NewCompositor(adapter *faces.Adapter, opts ...Option) *Compositor {
	c := &Compositor{
		adapter: adapter,
		catalog: zones.Default,
		matcher: masks.SubstringMatcher{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.adapter == nil {
		c.adapter = faces.NewAdapter(nil)
	}
	return c
}

// frame is a decoded photo plus its landmarks, shared by all concerns of one image
type frame struct {
	base      *image.NRGBA
	landmarks faces.LandmarkResult
}

func (f *frame) width() int  { return f.base.Rect.Dx() }
func (f *frame) height() int { return f.base.Rect.Dy() }

func (c *Compositor) prepare(imageBytes []byte, tint bool) (*frame, error) {
	img, _, err := utils.DecodeImage(imageBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", faces.ErrDecode, err)
	}
	f := &frame{
		base:      utils.DropAlpha(utils.ToNRGBA(img)),
		landmarks: c.adapter.DetectImage(img),
	}
	if tint || c.tint {
		applyTint(f.base)
	}
	return f, nil
}

// CreateZoneVisualization renders one concern over the photo. A photo that cannot be
// decoded is the only error; every other problem degrades the rendering and is
// reported in the status.
func (c *Compositor) CreateZoneVisualization(imageBytes []byte, concern string, mask []byte, opts Options) ([]byte, Status, error) {
	f, err := c.prepare(imageBytes, opts.Tint)
	if err != nil {
		status := newStatus(concern, opts.Score)
		status.LandmarkStatus = faces.StatusFailed
		status.LandmarkError = err.Error()
		return nil, status, err
	}
	return c.render(f, concern, mask, opts)
}

func newStatus(concern string, score *float64) Status {
	grade := severity.GradeFor(concern, score)
	return Status{
		VisualizationSource: SourceNone,
		SeverityLevel:       grade.Level,
		SeverityLabel:       grade.Label,
		ScoreUsed:           score,
		ColorRGB:            grade.Color,
	}
}

func (c *Compositor) render(f *frame, concern string, mask []byte, opts Options) ([]byte, Status, error) {
	status := newStatus(concern, opts.Score)
	status.LandmarkStatus = f.landmarks.Status
	status.LandmarkError = f.landmarks.ErrorMessage()
	status.Confidence = f.landmarks.Confidence

	var overlay image.Image
	switch {
	case f.landmarks.OK():
		status.VisualizationSource = SourceMediaPipe
		overlay = c.zoneOverlay(f, concern, mask, status, opts.Style)
	case len(mask) > 0:
		intensity, err := masks.Load(mask, f.width(), f.height(), masks.Luminance)
		if err != nil {
			logger.Warn(logger.Fields{"concern": concern, "error": err}, "Mask omitted")
			break
		}
		status.FallbackUsed = true
		status.VisualizationSource = SourceMaskOnly
		overlay = maskOverlay(intensity, status.ColorRGB)
	}

	data, err := compose(f.base, overlay)
	if err != nil {
		return nil, status, err
	}
	return data, status, nil
}

// compose draws the overlay (if any) over the base and encodes the result
func compose(base *image.NRGBA, overlay image.Image) ([]byte, error) {
	if overlay == nil {
		return utils.EncodeJPEG(base)
	}
	result := image.NewRGBA(base.Rect)
	draw.Draw(result, result.Rect, base, base.Rect.Min, draw.Src)
	draw.Draw(result, result.Rect, overlay, overlay.Bounds().Min, draw.Over)
	return utils.EncodeJPEG(result)
}

func (c *Compositor) zoneOverlay(f *frame, concern string, mask []byte, status Status, style Style) *image.RGBA {
	canvas := newCanvas(f.width(), f.height(), status.ColorRGB)
	points := f.landmarks.Points
	for _, zone := range c.catalog.ZonesForConcern(concern) {
		zonePoints := make([]faces.Point, 0)
		for _, idx := range c.catalog.IndicesForZone(zone) {
			if idx >= 0 && idx < len(points) {
				zonePoints = append(zonePoints, points[idx])
			}
		}
		if len(zonePoints) < 3 {
			logger.Debug(logger.Fields{"concern": concern, "zone": zone, "points": len(zonePoints)}, "Zone skipped")
			continue
		}
		switch {
		case dotConcerns[concern]:
			level := 0
			if status.SeverityLevel != nil {
				level = *status.SeverityLevel
			}
			canvas.dots(zonePoints, level, severity.NumLevels(concern))
		case style == StyleFilled:
			canvas.filled(zonePoints)
		default:
			canvas.outline(zonePoints)
		}
	}
	if len(mask) > 0 {
		intensity, err := masks.Load(mask, f.width(), f.height(), masks.Luminance)
		if err != nil {
			logger.Warn(logger.Fields{"concern": concern, "error": err}, "Mask intensity markers omitted")
		} else {
			canvas.intensityMarkers(points, intensity)
		}
	}
	return canvas.image()
}
