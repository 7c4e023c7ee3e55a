//go:build dlib

package faces

import (
	"bytes"
	"image"
	"image/jpeg"
	"sync"

	"github.com/Kagami/go-face"
)

// DlibDetector uses dlib's 5 point shape predictor through go-face. Five points
// are a partial mesh, so only mask intensity markers land on them.
type DlibDetector struct {
	mutex      sync.Mutex
	recognizer *face.Recognizer
}

func NewDlibDetector(modelsDir string) (*DlibDetector, error) {
	recognizer, err := face.NewRecognizer(modelsDir)
	if err != nil {
		return nil, err
	}
	return &DlibDetector{recognizer: recognizer}, nil
}

func (d *DlibDetector) DetectMesh(img image.Image) ([]Mesh, error) {
	buf := bytes.Buffer{}
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		return nil, err
	}
	d.mutex.Lock()
	found, err := d.recognizer.Recognize(buf.Bytes())
	d.mutex.Unlock()
	if err != nil {
		return nil, err
	}
	size := img.Bounds().Size()
	width, height := float64(size.X), float64(size.Y)
	result := make([]Mesh, 0, len(found))
	for _, f := range found {
		mesh := make(Mesh, 0, len(f.Shapes))
		for _, p := range f.Shapes {
			mesh = append(mesh, NormalizedPoint{float64(p.X) / width, float64(p.Y) / height, 0})
		}
		result = append(result, mesh)
	}
	return result, nil
}

func (d *DlibDetector) Close() {
	d.recognizer.Close()
}
