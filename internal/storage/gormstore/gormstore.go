// Package gormstore implements the shared GORM persistence used by both the
// SQLite and Postgres result backends.
package gormstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/windroute/gabarit/internal/geo"
	"github.com/windroute/gabarit/internal/model"
	"github.com/windroute/gabarit/pkg/core"
)

// Backend persists analysis runs through an injected GORM connection.
type Backend struct {
	db *gorm.DB
}

// New creates a backend on an already-connected database.
func New(db *gorm.DB) *Backend {
	return &Backend{db: db}
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if b.db == nil {
		return fmt.Errorf("no database connection")
	}
	if err := b.db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveRun writes the run, its stations, and its obstacles in one create.
// GORM fills the foreign keys from the association slices.
func (b *Backend) SaveRun(run core.RunInfo, result *core.Result) error {
	if b.db == nil {
		return fmt.Errorf("no database connection")
	}

	row, err := toRunModel(run, result)
	if err != nil {
		return err
	}

	if err := b.db.Create(row).Error; err != nil {
		return fmt.Errorf("failed to save analysis run: %w", err)
	}
	return nil
}

func toRunModel(run core.RunInfo, result *core.Result) (*model.AnalysisRun, error) {
	profileJSON, err := json.Marshal(result.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	// Envelope as WKB so GIS hosts can load it as a vector layer.
	var envelopeWKB []byte
	if poly, err := geo.Polygon(result.Envelope.Ring); err == nil {
		envelopeWKB = poly.AsBinary()
	}

	row := &model.AnalysisRun{
		RunID:          run.ID,
		StartTime:      run.StartTime,
		BladeType:      result.Profile.BladeType,
		Version:        run.Version,
		ClearanceM:     result.Clearance,
		SpacingM:       result.Spacing,
		TotalLengthM:   result.Summary.TotalLength,
		StationCount:   result.Summary.StationCount,
		ObstacleCount:  result.Summary.ObstacleCount,
		NoDataCount:    result.Summary.NoDataCount,
		MaxHeightM:     nullable(result.Summary.MaxHeight),
		MaxHalfWidthM:  result.Summary.MaxHalfWidth,
		EnvelopeAreaM2: result.Summary.EnvelopeArea,
		Passable:       result.Summary.Passable,
		Profile:        datatypes.JSON(profileJSON),
		EnvelopeWKB:    envelopeWKB,
	}

	row.Stations = make([]model.StationRecord, len(result.Stations))
	for i, sr := range result.Stations {
		row.Stations[i] = model.StationRecord{
			StationIndex: sr.Station.Index,
			DistanceM:    sr.Station.Distance,
			X:            sr.Station.Pos.X,
			Y:            sr.Station.Pos.Y,
			HeadingRad:   sr.Station.Heading,
			RadiusM:      nullable(sr.Station.Radius),
			Status:       string(sr.Status),
			SweepM:       sr.Sweep.Sweep,
			HalfWidthM:   sr.Sweep.HalfWidth,
			MaxHeightM:   nullable(sr.MaxHeight),
			MeanHeightM:  nullable(sr.MeanHeight),
			ValidSamples: sr.ValidSamples,
		}
	}

	row.Obstacles = make([]model.ObstacleRecord, len(result.Obstacles))
	for i, ob := range result.Obstacles {
		row.Obstacles[i] = model.ObstacleRecord{
			StationIndex: ob.StationIndex,
			DistanceM:    ob.Distance,
			X:            ob.Pos.X,
			Y:            ob.Pos.Y,
			HeightM:      ob.Height,
			ExceedanceM:  ob.Exceedance,
			HalfWidthM:   ob.HalfWidth,
		}
	}

	return row, nil
}

// nullable maps NaN and ±Inf onto SQL NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
