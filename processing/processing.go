package processing

import (
	"fmt"
	"time"

	"skinviz/faces"
	"skinviz/logger"
	"skinviz/scores"
)

// Result is one rendered concern
type Result struct {
	Image    []byte
	Status   Status
	Err      error
	Duration time.Duration
}

// Batch holds the renderings of every catalog concern for one photo
type Batch struct {
	Landmarks faces.LandmarkResult
	Concerns  []string // catalog order
	Results   map[string]Result
	Tasks     TaskStatus
}

// CreateAllZoneVisualizations detects landmarks once and renders every catalog concern
// in order. A failing concern is recorded and the loop carries on.
func (c *Compositor) CreateAllZoneVisualizations(imageBytes []byte, maskSet map[string][]byte, payload scores.Payload, opts Options) Batch {
	batch := Batch{
		Concerns: c.catalog.Concerns(),
		Results:  map[string]Result{},
		Tasks:    TaskStatus{},
	}
	f, prepareErr := c.prepare(imageBytes, opts.Tint)
	if f != nil {
		batch.Landmarks = f.landmarks
		logger.Info(logger.Fields{
			"landmarks":  f.landmarks.Status,
			"points":     len(f.landmarks.Points),
			"confidence": f.landmarks.Confidence,
		}, "Landmark detection done")
	} else {
		batch.Landmarks = faces.LandmarkResult{Status: faces.StatusFailed, Err: prepareErr}
	}

	for _, concern := range batch.Concerns {
		concernOpts := opts
		concernOpts.Score = payload.Extract(concern)

		if prepareErr != nil {
			status := newStatus(concern, concernOpts.Score)
			status.LandmarkStatus = faces.StatusFailed
			status.LandmarkError = prepareErr.Error()
			batch.Results[concern] = Result{Status: status, Err: prepareErr}
			batch.Tasks[concern] = Failed
			continue
		}

		var mask []byte
		if name, data, ok := c.matcher.Match(concern, maskSet); ok {
			logger.Debug(logger.Fields{"concern": concern, "mask": name}, "Mask matched")
			mask = data
		}
		start := time.Now()
		result := c.renderTask(f, concern, mask, concernOpts)
		result.Duration = time.Since(start)
		batch.Results[concern] = result
		batch.Tasks[concern] = result.taskStatus()
		logger.Info(logger.Fields{
			"concern": concern,
			"source":  result.Status.VisualizationSource,
			"result":  batch.Tasks[concern],
			"ms":      result.Duration.Milliseconds(),
		}, "Task done")
	}
	if prepareErr != nil {
		logger.Error(logger.Fields{"error": prepareErr}, "Batch rendering failed")
	}
	return batch
}

// renderTask isolates a single concern from panics in drawing or encoding
func (c *Compositor) renderTask(f *frame, concern string, mask []byte, opts Options) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("rendering %s: %v", concern, r)
			logger.Error(logger.Fields{"concern": concern, "panic": r}, "Rendering panicked")
		}
	}()
	result.Status = newStatus(concern, opts.Score)
	data, status, err := c.render(f, concern, mask, opts)
	result.Image, result.Status, result.Err = data, status, err
	return result
}

func (r Result) taskStatus() int {
	switch {
	case r.Err != nil || r.Image == nil:
		return Failed
	case r.Status.VisualizationSource == SourceNone:
		return Skipped
	}
	return Done
}
