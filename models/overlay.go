package models

// Overlay is the rendering of one concern of an Analysis
type Overlay struct {
	ID            uint64 `gorm:"primaryKey"`
	AnalysisID    string `gorm:"type:varchar(36);index:uniq_overlay,unique,priority:1;not null"`
	Concern       string `gorm:"type:varchar(50);index:uniq_overlay,unique,priority:2;not null"`
	Path          string `gorm:"type:varchar(300)"`
	Size          int64
	Source        string `gorm:"type:varchar(20)"`
	FallbackUsed  bool
	SeverityLevel *int
	SeverityLabel string   `gorm:"type:varchar(100)"`
	Score         *float64 `gorm:"type:double"`
	Color         string   `gorm:"type:varchar(7)"` // #rrggbb
	Status        int      // rendering task status
	DurationMs    int64
}
