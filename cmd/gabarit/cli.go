package main

import (
	"flag"
	"fmt"
	"math"

	"github.com/spf13/viper"

	"github.com/windroute/gabarit/pkg/core"
)

// options are the command line arguments. Flags left at their zero value do
// not override the config file.
type options struct {
	configDir  string
	pathFile   string
	rasterFile string

	bladeType    string
	clearance    float64
	spacing      float64
	samplePoints int
	workers      int

	storageType string
	outputDir   string

	showVersion bool
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("gabarit", flag.ContinueOnError)

	fs.StringVar(&opts.configDir, "config", ".", "directory containing gabarit.cfg.json")
	fs.StringVar(&opts.pathFile, "path", "", "route polyline JSON file ([[x,y],...], raster CRS meters)")
	fs.StringVar(&opts.rasterFile, "raster", "", "obstacle height raster (ESRI ASCII grid)")

	fs.StringVar(&opts.bladeType, "blade", "", "blade type (N117, N131, N149, E82)")
	fs.Float64Var(&opts.clearance, "clearance", 0, "required clearance height in meters")
	fs.Float64Var(&opts.spacing, "spacing", 0, "station spacing in meters")
	fs.IntVar(&opts.samplePoints, "samples", 0, "sample points per transect")
	fs.IntVar(&opts.workers, "workers", -1, "station workers (0 = one per CPU)")

	fs.StringVar(&opts.storageType, "storage", "", "result backend: memory, sqlite, postgres")
	fs.StringVar(&opts.outputDir, "out", "", "output directory for the memory backend")

	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.showVersion {
		return opts, nil
	}

	if opts.pathFile == "" {
		return nil, fmt.Errorf("missing required flag -path")
	}
	if opts.rasterFile == "" {
		return nil, fmt.Errorf("missing required flag -raster")
	}
	return opts, nil
}

// applyOverrides writes set flags over the loaded config.
func (o *options) applyOverrides() {
	if o.bladeType != "" {
		viper.Set("analysis.bladeType", o.bladeType)
	}
	if o.clearance > 0 {
		viper.Set("analysis.clearanceHeight", o.clearance)
	}
	if o.spacing > 0 {
		viper.Set("analysis.stationSpacing", o.spacing)
	}
	if o.samplePoints > 0 {
		viper.Set("analysis.samplePoints", o.samplePoints)
	}
	if o.workers >= 0 {
		viper.Set("analysis.workers", o.workers)
	}
	if o.storageType != "" {
		viper.Set("storage.type", o.storageType)
	}
	if o.outputDir != "" {
		viper.Set("storage.memory.outputDir", o.outputDir)
	}
}

// printSummary writes the go/no-go outcome to stdout.
func printSummary(result *core.Result) {
	s := result.Summary

	fmt.Printf("Blade type:        %s (blade %gm, convoy %gm wide)\n",
		result.Profile.BladeType, result.Profile.BladeLength, result.Profile.ConvoyWidth)
	fmt.Printf("Path length:       %.1f m (%d stations)\n", s.TotalLength, s.StationCount)
	fmt.Printf("Max width needed:  %.2f m\n", s.MaxHalfWidth*2)
	fmt.Printf("Envelope area:     %.1f m2\n", s.EnvelopeArea)
	if !math.IsNaN(s.MaxHeight) {
		fmt.Printf("Max height found:  %.2f m (clearance %.2f m)\n", s.MaxHeight, result.Clearance)
	}
	if s.NoDataCount > 0 {
		fmt.Printf("Stations w/o data: %d\n", s.NoDataCount)
	}

	if s.Passable {
		fmt.Println("\nRESULT: PASSAGE POSSIBLE")
	} else {
		fmt.Printf("\nRESULT: %d OBSTACLES DETECTED\n", s.ObstacleCount)
		for i, ob := range result.Obstacles {
			if i >= 10 {
				fmt.Printf("  ... %d more\n", len(result.Obstacles)-10)
				break
			}
			fmt.Printf("  station %d at %.1f m: height %.2f m (+%.2f m over clearance)\n",
				ob.StationIndex, ob.Distance, ob.Height, ob.Exceedance)
		}
	}
}
