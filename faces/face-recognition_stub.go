//go:build !dlib

package faces

import (
	"errors"
	"image"
)

var errNoDlib = errors.New("built without dlib support, rebuild with -tags dlib")

type DlibDetector struct{}

func NewDlibDetector(modelsDir string) (*DlibDetector, error) {
	return nil, errNoDlib
}

func (d *DlibDetector) DetectMesh(img image.Image) ([]Mesh, error) {
	return nil, errNoDlib
}

func (d *DlibDetector) Close() {}
