// Package model defines the database schema for persisted analysis runs.
package model

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent
// tables in the database schema
var DatabaseModels = []interface{}{
	&AnalysisRun{},
	&StationRecord{},
	&ObstacleRecord{},
}

// AnalysisRun is one stored analysis invocation with its summary and the
// envelope geometry as WKB.
type AnalysisRun struct {
	gorm.Model
	RunID          string          `json:"runId" gorm:"size:127;index"`
	StartTime      time.Time       `json:"startTime"`
	BladeType      string          `json:"bladeType" gorm:"size:15"`
	Version        string          `json:"version" gorm:"size:31"`
	ClearanceM     float64         `json:"clearanceM"`
	SpacingM       float64         `json:"spacingM"`
	TotalLengthM   float64         `json:"totalLengthM"`
	StationCount   int             `json:"stationCount"`
	ObstacleCount  int             `json:"obstacleCount"`
	NoDataCount    int             `json:"noDataCount"`
	MaxHeightM     sql.NullFloat64 `json:"maxHeightM"`
	MaxHalfWidthM  float64         `json:"maxHalfWidthM"`
	EnvelopeAreaM2 float64         `json:"envelopeAreaM2"`
	Passable       bool            `json:"passable"`
	Profile        datatypes.JSON  `json:"profile"`
	EnvelopeWKB    []byte          `json:"-" gorm:"type:bytes"`

	Stations  []StationRecord  `json:"-" gorm:"foreignKey:AnalysisRunID"`
	Obstacles []ObstacleRecord `json:"-" gorm:"foreignKey:AnalysisRunID"`
}

// StationRecord is the per-station outcome row. RadiusM is null for straight
// segments — SQL has no +Inf.
type StationRecord struct {
	gorm.Model
	AnalysisRunID uint            `json:"-" gorm:"index"`
	StationIndex  int             `json:"station"`
	DistanceM     float64         `json:"distanceM"`
	X             float64         `json:"x"`
	Y             float64         `json:"y"`
	HeadingRad    float64         `json:"headingRad"`
	RadiusM       sql.NullFloat64 `json:"radiusM"`
	Status        string          `json:"status" gorm:"size:15;index"`
	SweepM        float64         `json:"lateralSweepM"`
	HalfWidthM    float64         `json:"dynamicHalfWidthM"`
	MaxHeightM    sql.NullFloat64 `json:"maxHeightM"`
	MeanHeightM   sql.NullFloat64 `json:"meanHeightM"`
	ValidSamples  int             `json:"validSamples"`
}

// ObstacleRecord is one clearance exceedance row.
type ObstacleRecord struct {
	gorm.Model
	AnalysisRunID uint    `json:"-" gorm:"index"`
	StationIndex  int     `json:"station"`
	DistanceM     float64 `json:"distanceM"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	HeightM       float64 `json:"maxHeightM"`
	ExceedanceM   float64 `json:"exceedanceM"`
	HalfWidthM    float64 `json:"dynamicHalfWidthM"`
}
