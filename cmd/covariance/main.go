package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/dfs-covariance/internal/covariance"
	"github.com/jstittsworth/dfs-covariance/internal/pipeline"
	"github.com/jstittsworth/dfs-covariance/internal/storage"
	"github.com/jstittsworth/dfs-covariance/pkg/config"
	"github.com/jstittsworth/dfs-covariance/pkg/logger"
)

func main() {
	var (
		historyPath string
		slatePath   string
		stddevPath  string
		outDir      string
		slateDate   string
	)
	flag.StringVar(&historyPath, "history", "./data/linestar_data.csv", "historical game-log CSV")
	flag.StringVar(&slatePath, "slate", "", "slate CSV (defaults to ./data/slates/slate_<date>.csv)")
	flag.StringVar(&stddevPath, "stddev", "", "optional per-player standard-deviation CSV")
	flag.StringVar(&outDir, "out", "", "artifact directory (defaults to ARTIFACT_DIR)")
	flag.StringVar(&slateDate, "date", time.Now().Format("2006-01-02"), "slate date (YYYY-MM-DD)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := logger.InitLogger("", cfg.IsDevelopment())

	if slatePath == "" {
		slatePath = fmt.Sprintf("./data/slates/slate_%s.csv", slateDate)
	}
	if outDir == "" {
		outDir = cfg.ArtifactDir
	}

	history, err := storage.LoadGameRecords(historyPath)
	if err != nil {
		log.Fatalf("Failed to load historical game log: %v", err)
	}
	slate, err := storage.LoadSlateEntries(slatePath, slateDate)
	if err != nil {
		log.Fatalf("Failed to load slate: %v", err)
	}

	var stddevs map[string]float64
	if stddevPath != "" {
		stddevs, err = storage.LoadStdDevs(stddevPath)
		if err != nil {
			log.Fatalf("Failed to load standard deviations: %v", err)
		}
	}

	result, err := pipeline.Run(history, slate, pipeline.Options{
		Epsilon:   cfg.PSDEpsilon,
		StdDevs:   stddevs,
		SlateDate: slateDate,
		Defaults: covariance.StdDevDefaults{
			Pitcher: cfg.DefaultPitcherStd,
			Batter:  cfg.DefaultBatterStd,
		},
	})
	if err != nil {
		log.Fatalf("Covariance computation failed: %v", err)
	}

	outPath := filepath.Join(outDir, fmt.Sprintf("cov_%s.csv", slateDate))
	if err := covariance.WriteCSV(result.Covariance, outPath); err != nil {
		log.Fatalf("Failed to write covariance artifact: %v", err)
	}

	log.WithFields(logrus.Fields{
		"computation_id":      result.ComputationID,
		"players":             result.Covariance.Dim(),
		"pitcher_correlation": result.PitcherCorrelation,
		"artifact":            outPath,
	}).Info("Covariance artifact written")
}
