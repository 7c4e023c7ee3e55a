package faces

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrNoFace = errors.New("no face detected")
	ErrDecode = errors.New("cannot decode image")
)

type LandmarkStatus string

const (
	StatusSuccess LandmarkStatus = "success"
	StatusPartial LandmarkStatus = "partial" // fewer points than a full mesh
	StatusFailed  LandmarkStatus = "failed"
)

const (
	FullMeshConfidence    = 0.85
	PartialMeshConfidence = 0.5
)

type (
	// NormalizedPoint has x and y in [0, 1] relative to the image size, z on the x scale
	NormalizedPoint [3]float64
	// Mesh is one detected face
	Mesh []NormalizedPoint
	// Point is a landmark in pixel space
	Point struct {
		X, Y, Z float64
	}
	LandmarkResult struct {
		Status     LandmarkStatus
		Points     []Point
		Confidence float64
		Err        error
	}
)

// OK reports whether the result carries usable landmarks (full or partial)
func (r *LandmarkResult) OK() bool {
	return r.Status == StatusSuccess || r.Status == StatusPartial
}

// ErrorMessage is empty on success
func (r *LandmarkResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// sidecarResponse is one line written by face-mesh.py
type sidecarResponse struct {
	Faces []Mesh `json:"faces"`
	Error string `json:"error,omitempty"`
}

func toSidecarResponse(data []byte) (result sidecarResponse, err error) {
	err = json.Unmarshal(data, &result)
	return result, err
}
