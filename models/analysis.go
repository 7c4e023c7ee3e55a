package models

import (
	"skinviz/db"
)

// Analysis is one processed photo
type Analysis struct {
	ID             string `gorm:"type:varchar(36);primaryKey"`
	CreatedAt      int64  `gorm:"index"`
	UpdatedAt      int64
	Width          int
	Height         int
	Mock           bool
	LandmarkStatus string  `gorm:"type:varchar(20)"`
	LandmarkError  string  `gorm:"type:varchar(500)"`
	Confidence     float64 `gorm:"type:double"`
	Scores         string  `gorm:"type:text"`          // score_info.json as received
	TaskStatus     string  `gorm:"type:varchar(1024)"` // e.g. "acne:2,pore:0,wrinkle:3"
	OriginalPath   string  `gorm:"type:varchar(300)"`
	CompositePath  string  `gorm:"type:varchar(300)"`
	Overlays       []Overlay
}

// GetPath returns the storage path of a file belonging to the analysis, e.g. "<id>/acne.jpg"
func (a *Analysis) GetPath(name string) string {
	return a.ID + "/" + name
}

func (a *Analysis) Create() error {
	return db.Instance.Create(a).Error
}

// OverlayFor returns the overlay of a concern, nil if there is none
func (a *Analysis) OverlayFor(concern string) *Overlay {
	for i := range a.Overlays {
		if a.Overlays[i].Concern == concern {
			return &a.Overlays[i]
		}
	}
	return nil
}

func LoadAnalysis(id string) (result Analysis, err error) {
	err = db.Instance.Preload("Overlays").First(&result, "id = ?", id).Error
	return
}
