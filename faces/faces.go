package faces

import (
	"fmt"
	"image"

	"skinviz/logger"
	"skinviz/utils"
)

// MeshPoints is the size of a complete face mesh
const MeshPoints = 468

// Detector finds faces and returns their landmarks normalized to the image size
type Detector interface {
	DetectMesh(img image.Image) ([]Mesh, error)
}

// Adapter turns raw image bytes into pixel-space landmarks using a Detector.
// It is not reentrant: callers serving concurrent requests should either use one
// Adapter per goroutine or a Detector that serializes itself (FaceMeshSidecar does).
type Adapter struct {
	detector Detector
}

func NewAdapter(detector Detector) *Adapter {
	if detector == nil {
		detector = NoopDetector{}
	}
	return &Adapter{detector: detector}
}

// Detect decodes the image and converts the first detected face to pixel space.
// It never panics and never returns an error; failures are reported in the result.
func (a *Adapter) Detect(imageBytes []byte) LandmarkResult {
	img, _, err := utils.DecodeImage(imageBytes)
	if err != nil {
		logger.Debug(logger.Fields{"error": err}, "landmark detection: decode failed")
		return LandmarkResult{Status: StatusFailed, Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}
	return a.DetectImage(img)
}

// DetectImage is Detect for an already decoded image
func (a *Adapter) DetectImage(img image.Image) (result LandmarkResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(logger.Fields{"panic": r}, "landmark detector panicked")
			result = LandmarkResult{Status: StatusFailed, Err: fmt.Errorf("landmark detection error: %v", r)}
		}
	}()

	meshes, err := a.detector.DetectMesh(img)
	if err != nil {
		return LandmarkResult{Status: StatusFailed, Err: fmt.Errorf("landmark detection error: %w", err)}
	}
	if len(meshes) == 0 || len(meshes[0]) == 0 {
		return LandmarkResult{Status: StatusFailed, Err: ErrNoFace}
	}

	size := img.Bounds().Size()
	width, height := float64(size.X), float64(size.Y)
	points := make([]Point, len(meshes[0]))
	for i, p := range meshes[0] {
		points[i] = Point{X: p[0] * width, Y: p[1] * height, Z: p[2] * width}
	}
	result = LandmarkResult{Status: StatusSuccess, Points: points, Confidence: FullMeshConfidence}
	if len(points) < MeshPoints {
		result.Status = StatusPartial
		result.Confidence = PartialMeshConfidence
	}
	return result
}

// NoopDetector never finds a face. Used when no landmark backend is available.
type NoopDetector struct{}

func (NoopDetector) DetectMesh(image.Image) ([]Mesh, error) {
	return nil, nil
}
