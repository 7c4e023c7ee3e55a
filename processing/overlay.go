package processing

import (
	"image"
	"math"

	"skinviz/faces"
	"skinviz/masks"
	"skinviz/severity"

	"github.com/fogleman/gg"
)

const (
	outlineAlpha      = 200
	outlineWidth      = 2
	vertexRadius      = 2
	vertexAlpha       = 255
	fillAlpha         = 60
	fillOutlineAlpha  = 180
	dotMinAlpha       = 180
	dotRadiusFraction = 0.005 // of the shorter image side
	markerThreshold   = 30
	maskAlphaGain     = 1.5
)

// canvas is a transparent overlay drawn in a single color
type canvas struct {
	dc    *gg.Context
	rgba  *image.RGBA
	color severity.RGB
}

func newCanvas(width, height int, color severity.RGB) *canvas {
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	return &canvas{dc: gg.NewContextForRGBA(rgba), rgba: rgba, color: color}
}

func (c *canvas) image() *image.RGBA {
	return c.rgba
}

func (c *canvas) setAlpha(alpha int) {
	c.dc.SetRGBA255(int(c.color[0]), int(c.color[1]), int(c.color[2]), alpha)
}

func (c *canvas) path(points []faces.Point) {
	c.dc.NewSubPath()
	c.dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	c.dc.ClosePath()
}

// outline draws the zone boundary in catalog order and marks every vertex
func (c *canvas) outline(points []faces.Point) {
	c.path(points)
	c.setAlpha(outlineAlpha)
	c.dc.SetLineWidth(outlineWidth)
	c.dc.Stroke()

	c.setAlpha(vertexAlpha)
	for _, p := range points {
		c.dc.DrawCircle(p.X, p.Y, vertexRadius)
		c.dc.Fill()
	}
}

func (c *canvas) filled(points []faces.Point) {
	c.path(points)
	c.setAlpha(fillAlpha)
	c.dc.FillPreserve()
	c.setAlpha(fillOutlineAlpha)
	c.dc.SetLineWidth(1)
	c.dc.Stroke()
}

// dots marks every landmark of the zone. Radius grows from 1x to 2x and opacity
// from 180 to 255 as the level goes from mildest to most severe.
func (c *canvas) dots(points []faces.Point, level, numLevels int) {
	radius, alpha := dotStyle(c.rgba.Rect.Dx(), c.rgba.Rect.Dy(), level, numLevels)
	c.setAlpha(alpha)
	for _, p := range points {
		c.dc.DrawCircle(p.X, p.Y, radius)
		c.dc.Fill()
	}
}

func dotStyle(width, height, level, numLevels int) (radius float64, alpha int) {
	base := math.Max(1, float64(min(width, height))*dotRadiusFraction)
	if numLevels < 2 {
		return base, dotMinAlpha
	}
	level = max(0, min(level, numLevels-1))
	t := float64(level) / float64(numLevels-1)
	return base * (1 + t), dotMinAlpha + int(math.Round(t*(255-dotMinAlpha)))
}

// intensityMarkers places a dot on every landmark where the mask is strong enough
func (c *canvas) intensityMarkers(points []faces.Point, intensity *masks.Intensity) {
	width, height := c.rgba.Rect.Dx(), c.rgba.Rect.Dy()
	for _, p := range points {
		x, y := int(p.X), int(p.Y)
		if x < 0 || y < 0 || x >= width || y >= height {
			continue
		}
		v := int(intensity.At(x, y))
		if v <= markerThreshold {
			continue
		}
		radius, alpha := markerStyle(v)
		c.setAlpha(alpha)
		c.dc.DrawCircle(float64(x), float64(y), float64(radius))
		c.dc.Fill()
	}
}

func markerStyle(intensity int) (radius, alpha int) {
	return max(2, intensity/50), min(255, intensity+100)
}

// maskOverlay is a uniform color layer using the boosted mask luminance as alpha
func maskOverlay(intensity *masks.Intensity, color severity.RGB) *image.NRGBA {
	result := image.NewNRGBA(image.Rect(0, 0, intensity.Width, intensity.Height))
	for i, v := range intensity.Pix {
		o := i * 4
		result.Pix[o] = color[0]
		result.Pix[o+1] = color[1]
		result.Pix[o+2] = color[2]
		result.Pix[o+3] = uint8(math.Min(255, float64(v)*maskAlphaGain))
	}
	return result
}
