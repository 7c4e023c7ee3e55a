package handlers

import (
	"net/http"

	"skinviz/config"
	"skinviz/db"
	"skinviz/storage"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Landmarks string `json:"landmarks"`
	Storage   string `json:"storage"`
}

func Health(c *gin.Context) {
	result := HealthResponse{Status: "ok", Landmarks: config.LANDMARK_BACKEND}
	if st, err := storage.GetDefaultStorage(); err == nil {
		result.Storage = st.String()
	} else {
		result.Status = "degraded"
	}
	if db.Instance == nil {
		result.Status = "degraded"
	} else if sqlDB, err := db.Instance.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		result.Status = "degraded"
	}
	code := http.StatusOK
	if result.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, result)
}
