package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"skinviz/db"
	"skinviz/logger"
	"skinviz/models"
	"skinviz/storage"
	"skinviz/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ImageRequest struct {
	Thumb uint `form:"thumb" binding:"max=2048"`
}

func resultKey(id string) string {
	return "result:" + id
}

// loadAnalysis writes the error response itself, ok is false in that case
func loadAnalysis(c *gin.Context) (a models.Analysis, ok bool) {
	a, err := models.LoadAnalysis(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return a, false
	}
	if err != nil {
		logger.Error(logger.Fields{"id": c.Param("id"), "error": err}, "Cannot load analysis")
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return a, false
	}
	return a, true
}

func ResultGet(c *gin.Context) {
	ctx := c.Request.Context()
	key := resultKey(c.Param("id"))
	if data, ok := cacheGet(ctx, key); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
		return
	}
	a, ok := loadAnalysis(c)
	if !ok {
		return
	}
	data, err := json.Marshal(analysisResponse(&a))
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	cacheSet(ctx, key, data)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func OverlayFetch(c *gin.Context) {
	var r ImageRequest
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	a, ok := loadAnalysis(c)
	if !ok {
		return
	}
	overlay := a.OverlayFor(c.Param("concern"))
	if overlay == nil || overlay.Path == "" {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	serveImage(c, overlay.Path, r.Thumb)
}

func CompositeFetch(c *gin.Context) {
	var r ImageRequest
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	a, ok := loadAnalysis(c)
	if !ok {
		return
	}
	if a.CompositePath == "" {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	serveImage(c, a.CompositePath, r.Thumb)
}

// serveImage streams a stored JPEG, or a cached thumbnail of it when thumb > 0
func serveImage(c *gin.Context, path string, thumb uint) {
	st, err := storage.GetDefaultStorage()
	if err != nil {
		c.JSON(http.StatusInternalServerError, StorageErrorResponse)
		return
	}
	utils.SetCacheControl(c, utils.CacheImage)
	if thumb == 0 {
		st.Serve(path, c.Request, c.Writer)
		return
	}

	ctx := c.Request.Context()
	key := fmt.Sprintf("thumb:%s:%d", path, thumb)
	if data, ok := cacheGet(ctx, key); ok {
		c.Data(http.StatusOK, "image/jpeg", data)
		return
	}
	original := bytes.Buffer{}
	if _, err = st.Load(path, &original); err != nil {
		logger.Warn(logger.Fields{"path": path, "error": err}, "Cannot load image")
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	out := bytes.Buffer{}
	if _, err = utils.CreateThumb(thumb, &original, &out); err != nil {
		c.JSON(http.StatusInternalServerError, RenderErrorResponse)
		return
	}
	cacheSet(ctx, key, out.Bytes())
	c.Data(http.StatusOK, "image/jpeg", out.Bytes())
}

// ResultDelete removes an analysis with all its stored images
func ResultDelete(c *gin.Context) {
	a, ok := loadAnalysis(c)
	if !ok {
		return
	}
	st, err := storage.GetDefaultStorage()
	if err != nil {
		c.JSON(http.StatusInternalServerError, StorageErrorResponse)
		return
	}
	paths := []string{a.OriginalPath, a.CompositePath}
	for _, o := range a.Overlays {
		paths = append(paths, o.Path)
	}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err = st.Delete(path); err != nil {
			logger.Warn(logger.Fields{"path": path, "error": err}, "Cannot delete image")
		}
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("analysis_id = ?", a.ID).Delete(&models.Overlay{}).Error; err != nil {
			return err
		}
		return tx.Delete(&a).Error
	})
	if err != nil {
		logger.Error(logger.Fields{"id": a.ID, "error": err}, "Cannot delete analysis")
		c.JSON(http.StatusInternalServerError, DBError2Response)
		return
	}
	cacheDelete(c.Request.Context(), resultKey(a.ID))
	c.JSON(http.StatusOK, OKResponse)
}
