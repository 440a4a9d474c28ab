package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Place is a reverse-geocoded point of interest, persisted so repeat runs
// over the same map area never hit the geocoder twice.
type Place struct {
	gorm.Model
	Key      string  `json:"-" gorm:"uniqueIndex;size:64"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// RunRecord is the archived result of one finished outbreak run.
type RunRecord struct {
	gorm.Model
	Seed       int64          `json:"seed"`
	CenterLat  float64        `json:"centerLat"`
	CenterLng  float64        `json:"centerLng"`
	Outcome    string         `json:"outcome"`
	Ticks      int64          `json:"ticks"`
	Healthy    int            `json:"healthy"`
	Infected   int            `json:"infected"`
	Soldiers   int            `json:"soldiers"`
	Resources  int            `json:"resources"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Events     datatypes.JSON `json:"events"`
}

// DatabaseModels lists every persisted type for schema migration.
var DatabaseModels = []any{
	&Place{},
	&RunRecord{},
}
