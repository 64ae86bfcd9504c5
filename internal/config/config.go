// Package config loads and validates the recognized configuration options.
// Everything is validated once, before processing begins; the pipeline only
// ever sees an immutable, already-checked parameter set.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/windroute/gabarit/internal/heights"
	"github.com/windroute/gabarit/internal/sweep"
	"github.com/windroute/gabarit/pkg/core"
)

// Analysis is the validated parameter set for one run.
type Analysis struct {
	BladeType     string              `json:"bladeType" mapstructure:"bladeType"`
	Clearance     float64             `json:"clearanceHeight" mapstructure:"clearanceHeight"`
	Spacing       float64             `json:"stationSpacing" mapstructure:"stationSpacing"`
	SamplePoints  int                 `json:"samplePoints" mapstructure:"samplePoints"`
	Workers       int                 `json:"workers" mapstructure:"workers"`
	RasterTimeout time.Duration       `json:"rasterTimeout" mapstructure:"rasterTimeout"`
	Sweep         sweep.Policy        `json:"sweep" mapstructure:"sweep"`
	Filter        heights.Filter      `json:"heightFilter" mapstructure:"heightFilter"`
	CRS           CRSConfig           `json:"crs" mapstructure:"crs"`
	Profile       core.VehicleProfile `json:"-" mapstructure:"-"`
}

// CRSConfig holds the coordinate reference systems of the two inputs.
type CRSConfig struct {
	PathEPSG      int  `json:"pathEpsg" mapstructure:"pathEpsg"`
	RasterEPSG    int  `json:"rasterEpsg" mapstructure:"rasterEpsg"`
	AutoReproject bool `json:"autoReproject" mapstructure:"autoReproject"`
}

// MemoryConfig holds JSON/report export backend settings.
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// StorageConfig selects and configures the result sink backend.
type StorageConfig struct {
	Type       string       `json:"type" mapstructure:"type"`
	SqlitePath string       `json:"sqlitePath" mapstructure:"sqlitePath"`
	Memory     MemoryConfig `json:"memory" mapstructure:"memory"`
}

// Load reads configuration from a JSON file and seeds default values.
// A missing config file is fine — defaults apply.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName("gabarit.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./gabaritlogs")

	viper.SetDefault("analysis.bladeType", "N117")
	viper.SetDefault("analysis.clearanceHeight", 5.0)
	viper.SetDefault("analysis.stationSpacing", 1.0)
	viper.SetDefault("analysis.samplePoints", 9)
	viper.SetDefault("analysis.workers", 0) // 0 = one per CPU
	viper.SetDefault("analysis.rasterTimeoutMs", 0)

	viper.SetDefault("sweep.straightRadius", sweep.DefaultPolicy.StraightRadius)
	viper.SetDefault("sweep.tightRadius", sweep.DefaultPolicy.TightRadius)
	viper.SetDefault("sweep.tightFactor", sweep.DefaultPolicy.TightFactor)

	viper.SetDefault("heightFilter.min", heights.DefaultFilter.Min)
	viper.SetDefault("heightFilter.max", heights.DefaultFilter.Max)

	viper.SetDefault("crs.pathEpsg", 3857)
	viper.SetDefault("crs.rasterEpsg", 3857)
	viper.SetDefault("crs.autoReproject", false)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.sqlitePath", "")
	viper.SetDefault("storage.memory.outputDir", "./gabarit_out")
	viper.SetDefault("storage.memory.compressOutput", false)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "gabarit")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "gabarit-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", false)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.serverUrl", "http://localhost:5000")
	viper.SetDefault("api.apiKey", "")
	viper.SetDefault("api.tag", "Transport")
}

// GetAnalysis assembles the analysis parameters from viper and validates
// them. The returned struct already carries the resolved vehicle profile.
func GetAnalysis() (Analysis, error) {
	a := Analysis{
		BladeType:     viper.GetString("analysis.bladeType"),
		Clearance:     viper.GetFloat64("analysis.clearanceHeight"),
		Spacing:       viper.GetFloat64("analysis.stationSpacing"),
		SamplePoints:  viper.GetInt("analysis.samplePoints"),
		Workers:       viper.GetInt("analysis.workers"),
		RasterTimeout: time.Duration(viper.GetInt("analysis.rasterTimeoutMs")) * time.Millisecond,
		Sweep: sweep.Policy{
			StraightRadius: viper.GetFloat64("sweep.straightRadius"),
			TightRadius:    viper.GetFloat64("sweep.tightRadius"),
			TightFactor:    viper.GetFloat64("sweep.tightFactor"),
		},
		Filter: heights.Filter{
			Min: viper.GetFloat64("heightFilter.min"),
			Max: viper.GetFloat64("heightFilter.max"),
		},
		CRS: CRSConfig{
			PathEPSG:      viper.GetInt("crs.pathEpsg"),
			RasterEPSG:    viper.GetInt("crs.rasterEpsg"),
			AutoReproject: viper.GetBool("crs.autoReproject"),
		},
	}
	if err := a.Validate(); err != nil {
		return Analysis{}, err
	}
	return a, nil
}

// Validate checks every field and resolves the vehicle profile. Fails fast
// with typed parameter errors before any station processing.
func (a *Analysis) Validate() error {
	profile, err := core.ProfileByName(a.BladeType)
	if err != nil {
		return err
	}
	a.Profile = profile

	if a.Clearance <= 0 {
		return &core.InvalidParameterError{Param: "clearanceHeight", Reason: fmt.Sprintf("must be > 0, got %g", a.Clearance)}
	}
	if a.Spacing <= 0 {
		return &core.InvalidParameterError{Param: "stationSpacing", Reason: fmt.Sprintf("must be > 0, got %g", a.Spacing)}
	}
	if a.SamplePoints < 2 {
		return &core.InvalidParameterError{Param: "samplePoints", Reason: fmt.Sprintf("must be >= 2, got %d", a.SamplePoints)}
	}
	if a.Workers < 0 {
		return &core.InvalidParameterError{Param: "workers", Reason: fmt.Sprintf("must be >= 0, got %d", a.Workers)}
	}
	if err := a.Sweep.Validate(); err != nil {
		return err
	}
	if err := a.Filter.Validate(); err != nil {
		return err
	}
	return nil
}

// GetStorage reads the storage backend selection.
func GetStorage() StorageConfig {
	return StorageConfig{
		Type:       viper.GetString("storage.type"),
		SqlitePath: viper.GetString("storage.sqlitePath"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
