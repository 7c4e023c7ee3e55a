package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"

	"skinviz/bundle"
	"skinviz/config"
	"skinviz/faces"
	"skinviz/logger"
	"skinviz/mockdata"
	"skinviz/models"
	"skinviz/processing"
	"skinviz/scores"
	"skinviz/severity"
	"skinviz/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errTooLarge = errors.New("file too large")

type VisualizeRequest struct {
	Mock  bool   `form:"mock"`
	Style string `form:"style"`
	Tint  *bool  `form:"tint"`
}

type OverlayInfo struct {
	URL    string            `json:"url"`
	Task   int               `json:"task"`
	Status processing.Status `json:"status"`
}

type AnalysisResponse struct {
	ID             string                 `json:"id"`
	Created        int64                  `json:"created"`
	Width          int                    `json:"width"`
	Height         int                    `json:"height"`
	Mock           bool                   `json:"mock"`
	LandmarkStatus string                 `json:"landmark_status"`
	LandmarkError  string                 `json:"landmark_error,omitempty"`
	Confidence     float64                `json:"confidence"`
	Tasks          string                 `json:"tasks"`
	CompositeURL   string                 `json:"composite_url,omitempty"`
	Overlays       map[string]OverlayInfo `json:"overlays"`
}

// Visualize renders every concern for an uploaded photo. Scores and masks come from
// an optional provider bundle or, with mock=true, from the mock generator.
func Visualize(c *gin.Context) {
	var r VisualizeRequest
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	photo, err := readFormFile(c, "file")
	if errors.Is(err, errTooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, TooLargeResponse)
		return
	}
	if err != nil || photo == nil {
		c.JSON(http.StatusBadRequest, NoFileResponse)
		return
	}
	size, _, err := image.DecodeConfig(bytes.NewReader(photo))
	if err != nil {
		c.JSON(http.StatusBadRequest, InvalidImageResponse)
		return
	}

	var payload scores.Payload
	maskSet := map[string][]byte{}
	if r.Mock {
		payload = mockdata.Scores()
		maskSet = mockdata.Masks(size.Width, size.Height)
	}
	bundleData, err := readFormFile(c, "bundle")
	if err != nil {
		c.JSON(http.StatusBadRequest, InvalidBundleResponse)
		return
	}
	if bundleData != nil {
		b, err := bundle.Parse(bundleData)
		if err != nil {
			logger.Warn(logger.Fields{"error": err}, "Bundle rejected")
			c.JSON(http.StatusBadRequest, Response{err.Error()})
			return
		}
		payload, maskSet = b.Scores, b.Masks
	}

	opts := processing.Options{
		Style: processing.Style(config.OVERLAY_STYLE),
		Tint:  config.TINT_ENABLED,
	}
	if r.Style != "" {
		opts.Style = processing.Style(r.Style)
	}
	if r.Tint != nil {
		opts.Tint = *r.Tint
	}

	analysis := models.Analysis{
		ID:     uuid.NewString(),
		Width:  size.Width,
		Height: size.Height,
		Mock:   r.Mock,
	}
	if err = runAnalysis(&analysis, photo, payload, maskSet, opts); err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			c.JSON(http.StatusInternalServerError, StorageErrorResponse)
			return
		}
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, analysisResponse(&analysis))
}

// readFormFile returns nil without error when the field is absent
func readFormFile(c *gin.Context, name string) ([]byte, error) {
	fh, err := c.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size > int64(config.MAX_UPLOAD_SIZE) {
		return nil, errTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, int64(config.MAX_UPLOAD_SIZE)))
}

// runAnalysis renders, stores the images and persists the analysis. Storage
// failures of single overlays are recorded in the task status.
func runAnalysis(a *models.Analysis, photo []byte, payload scores.Payload, maskSet map[string][]byte, opts processing.Options) error {
	st, err := storage.GetDefaultStorage()
	if err != nil {
		return err
	}
	batch := compositor.CreateAllZoneVisualizations(photo, maskSet, payload, opts)
	a.LandmarkStatus = string(batch.Landmarks.Status)
	a.LandmarkError = batch.Landmarks.ErrorMessage()
	a.Confidence = batch.Landmarks.Confidence
	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			a.Scores = string(data)
		}
	}

	a.OriginalPath = a.GetPath("original")
	if _, err = st.Save(a.OriginalPath, http.DetectContentType(photo), bytes.NewReader(photo)); err != nil {
		logger.Error(logger.Fields{"id": a.ID, "error": err}, "Cannot store original")
		return err
	}

	for _, concern := range batch.Concerns {
		result := batch.Results[concern]
		overlay := models.Overlay{
			Concern:       concern,
			Source:        string(result.Status.VisualizationSource),
			FallbackUsed:  result.Status.FallbackUsed,
			SeverityLevel: result.Status.SeverityLevel,
			SeverityLabel: result.Status.SeverityLabel,
			Score:         result.Status.ScoreUsed,
			Color:         colorToHex(result.Status.ColorRGB),
			Status:        batch.Tasks[concern],
			DurationMs:    result.Duration.Milliseconds(),
		}
		if result.Image != nil {
			overlay.Path = a.GetPath(concern + ".jpg")
			overlay.Size, err = st.Save(overlay.Path, "image/jpeg", bytes.NewReader(result.Image))
			if err != nil {
				logger.Error(logger.Fields{"id": a.ID, "concern": concern, "error": err}, "Cannot store overlay")
				overlay.Path = ""
				overlay.Status = processing.FailedStorage
				batch.Tasks[concern] = processing.FailedStorage
			}
		}
		a.Overlays = append(a.Overlays, overlay)
	}
	a.TaskStatus = batch.Tasks.String()

	var composite []byte
	if len(maskSet) > 0 {
		composite, err = processing.CreateCompositeVisualization(photo, maskSet)
	} else {
		composite, err = processing.CreateSimpleComposite(photo)
	}
	if err != nil {
		logger.Warn(logger.Fields{"id": a.ID, "error": err}, "Composite not rendered")
	} else {
		path := a.GetPath("composite.jpg")
		if _, err = st.Save(path, "image/jpeg", bytes.NewReader(composite)); err != nil {
			logger.Error(logger.Fields{"id": a.ID, "error": err}, "Cannot store composite")
		} else {
			a.CompositePath = path
		}
	}

	if err = a.Create(); err != nil {
		logger.Error(logger.Fields{"id": a.ID, "error": err}, "Cannot save analysis")
		return err
	}
	logger.Info(logger.Fields{
		"id":        a.ID,
		"landmarks": a.LandmarkStatus,
		"done":      batch.Tasks.Count(processing.Done),
		"failed":    batch.Tasks.Count(processing.Failed) + batch.Tasks.Count(processing.FailedStorage),
	}, "Analysis stored")
	return nil
}

func analysisResponse(a *models.Analysis) AnalysisResponse {
	base := "/api/result/" + a.ID
	result := AnalysisResponse{
		ID:             a.ID,
		Created:        a.CreatedAt,
		Width:          a.Width,
		Height:         a.Height,
		Mock:           a.Mock,
		LandmarkStatus: a.LandmarkStatus,
		LandmarkError:  a.LandmarkError,
		Confidence:     a.Confidence,
		Tasks:          a.TaskStatus,
		Overlays:       map[string]OverlayInfo{},
	}
	if a.CompositePath != "" {
		result.CompositeURL = base + "/composite"
	}
	for _, o := range a.Overlays {
		info := OverlayInfo{
			Task: o.Status,
			Status: processing.Status{
				LandmarkStatus:      faces.LandmarkStatus(a.LandmarkStatus),
				LandmarkError:       a.LandmarkError,
				Confidence:          a.Confidence,
				FallbackUsed:        o.FallbackUsed,
				VisualizationSource: processing.Source(o.Source),
				SeverityLevel:       o.SeverityLevel,
				SeverityLabel:       o.SeverityLabel,
				ScoreUsed:           o.Score,
				ColorRGB:            hexToColor(o.Color),
			},
		}
		if o.Path != "" {
			info.URL = base + "/overlay/" + o.Concern
		}
		result.Overlays[o.Concern] = info
	}
	return result
}

func colorToHex(c severity.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

func hexToColor(s string) (c severity.RGB) {
	_, _ = fmt.Sscanf(s, "#%02x%02x%02x", &c[0], &c[1], &c[2])
	return
}
