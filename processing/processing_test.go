package processing

import (
	"errors"
	"image"
	"image/color"
	"reflect"
	"testing"

	"skinviz/faces"
	"skinviz/scores"
	"skinviz/zones"
)

type countingDetector struct {
	meshDetector
	calls int
}

func (d *countingDetector) DetectMesh(img image.Image) ([]faces.Mesh, error) {
	d.calls++
	return d.meshDetector.DetectMesh(img)
}

func TestCompositor_CreateAllZoneVisualizations(t *testing.T) {
	photo := uniformPNG(t, 64, 48, color.Gray{90})
	maskSet := map[string][]byte{
		"sd_acne_output_all.png":    uniformPNG(t, 64, 48, color.Gray{200}),
		"sd_wrinkle_output_all.png": []byte("corrupt"),
	}
	payload := scores.Payload{
		"acne":           map[string]any{"ui_score": 20.0},
		"dark_circle_v2": map[string]any{"ui_score": 48.3},
	}
	detector := &countingDetector{meshDetector: meshDetector{faces.MeshPoints}}
	c := NewCompositor(faces.NewAdapter(detector))
	batch := c.CreateAllZoneVisualizations(photo, maskSet, payload, Options{})

	if detector.calls != 1 {
		t.Errorf("detector called %d times, want once per photo", detector.calls)
	}
	if !reflect.DeepEqual(batch.Concerns, zones.Default.Concerns()) {
		t.Errorf("concerns %v", batch.Concerns)
	}
	for _, concern := range batch.Concerns {
		r, ok := batch.Results[concern]
		if !ok || r.Err != nil || len(r.Image) == 0 {
			t.Errorf("%s: missing or failed result %+v", concern, r.Err)
			continue
		}
		if r.Status.VisualizationSource != SourceMediaPipe || batch.Tasks[concern] != Done {
			t.Errorf("%s: source %s task %d", concern, r.Status.VisualizationSource, batch.Tasks[concern])
		}
	}
	if s := batch.Results["acne"].Status.ScoreUsed; s == nil || *s != 20 {
		t.Errorf("acne score %v", s)
	}
	if s := batch.Results["dark_circle"].Status.ScoreUsed; s == nil || *s != 48.3 {
		t.Errorf("dark_circle score from alias %v", s)
	}
	if batch.Results["pore"].Status.ScoreUsed != nil {
		t.Error("pore has no score")
	}
}

func TestCompositor_CreateAllZoneVisualizations_Degraded(t *testing.T) {
	c := NewCompositor(faces.NewAdapter(faces.NoopDetector{}))
	photo := uniformPNG(t, 32, 32, color.Gray{90})
	maskSet := map[string][]byte{"sd_pore_output_all.png": uniformPNG(t, 16, 16, color.Gray{255})}

	batch := c.CreateAllZoneVisualizations(photo, maskSet, nil, Options{})
	if batch.Tasks["pore"] != Done || batch.Results["pore"].Status.VisualizationSource != SourceMaskOnly {
		t.Errorf("pore: %+v", batch.Results["pore"].Status)
	}
	if batch.Tasks["acne"] != Skipped || batch.Results["acne"].Status.VisualizationSource != SourceNone {
		t.Errorf("acne: %+v", batch.Results["acne"].Status)
	}

	batch = c.CreateAllZoneVisualizations([]byte("garbage"), maskSet, nil, Options{})
	if len(batch.Results) != len(zones.Default.Concerns()) {
		t.Fatalf("%d results", len(batch.Results))
	}
	if batch.Tasks.Count(Failed) != len(batch.Concerns) {
		t.Errorf("tasks %v", batch.Tasks)
	}
	if !errors.Is(batch.Results["acne"].Err, faces.ErrDecode) {
		t.Errorf("acne error %v", batch.Results["acne"].Err)
	}
	if batch.Landmarks.Status != faces.StatusFailed || !errors.Is(batch.Landmarks.Err, faces.ErrDecode) {
		t.Errorf("batch landmarks %+v", batch.Landmarks)
	}

	// Header decodes, pixel data is cut off
	truncated := uniformPNG(t, 64, 64, color.Gray{90})
	truncated = truncated[:len(truncated)/2]
	batch = c.CreateAllZoneVisualizations(truncated, nil, nil, Options{})
	if batch.Landmarks.Status != faces.StatusFailed || batch.Landmarks.ErrorMessage() == "" {
		t.Errorf("truncated photo landmarks %+v", batch.Landmarks)
	}
	if batch.Tasks.Count(Failed) != len(batch.Concerns) {
		t.Errorf("truncated photo tasks %v", batch.Tasks)
	}
}

func TestTaskStatus(t *testing.T) {
	ts := TaskStatus{"pore": Skipped, "acne": Done, "wrinkle": Failed}
	s := ts.String()
	if s != "acne:2,pore:0,wrinkle:3" {
		t.Errorf("String() = %q", s)
	}
	if got := ParseTaskStatus(s); !reflect.DeepEqual(got, ts) {
		t.Errorf("ParseTaskStatus() = %v", got)
	}
	if got := ParseTaskStatus("acne:2,broken,,pore:0"); len(got) != 2 || got["acne"] != Done {
		t.Errorf("invalid pairs not skipped: %v", got)
	}
	if got := ParseTaskStatus(""); len(got) != 0 {
		t.Errorf("empty status = %v", got)
	}
}
