package covariance

import (
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/jstittsworth/dfs-covariance/internal/correlation"
	"github.com/jstittsworth/dfs-covariance/internal/models"
	"github.com/jstittsworth/dfs-covariance/pkg/logger"
)

// StdDevDefaults are the fallback scoring standard deviations for players
// without enough history. Starting pitchers swing harder than position
// players in this scoring system, so their default is higher.
type StdDevDefaults struct {
	Pitcher float64
	Batter  float64
}

// DefaultStdDevs mirrors the long-standing defaults of the estimation
// pipeline.
var DefaultStdDevs = StdDevDefaults{Pitcher: 15.0, Batter: 10.0}

// HistoricalStdDevs computes each player's sample standard deviation of
// points scored across their historical games. Players with fewer than two
// games get no entry and fall back to the position default at scaling time.
func HistoricalStdDevs(records []models.GameRecord) map[string]float64 {
	points := make(map[string][]float64)
	for _, r := range records {
		points[r.PlayerName] = append(points[r.PlayerName], r.Points)
	}

	stds := make(map[string]float64, len(points))
	for name, xs := range points {
		if len(xs) < 2 {
			continue
		}
		stds[name] = stat.StdDev(xs, nil)
	}
	return stds
}

// Scale conjugates the validated correlation matrix by the diagonal matrix of
// per-player standard deviations: cov[i,j] = std[i] * std[j] * corr[i,j].
// Conjugation by a non-negative diagonal preserves symmetry and PSD-ness, so
// the result needs no second validation pass. Missing standard deviations are
// recovered via the position default and logged, never fatal.
func Scale(corr *correlation.PlayerMatrix, entries []models.SlateEntry, stddevs map[string]float64, defaults StdDevDefaults) (*correlation.PlayerMatrix, error) {
	stds := stdVector(entries, stddevs, defaults)

	n := corr.Dim()
	cov, err := correlation.NewPlayerMatrix(corr.IDs())
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			cov.Set(i, j, stds[i]*stds[j]*corr.At(i, j))
		}
	}
	return cov, nil
}

// stdVector resolves the standard deviation for every slate entry, in slate
// order. Historical values are keyed by player name, matching the history
// table's identity scheme.
func stdVector(entries []models.SlateEntry, stddevs map[string]float64, defaults StdDevDefaults) []float64 {
	log := logger.GetLogger()
	stds := make([]float64, len(entries))
	for i, e := range entries {
		if std, ok := stddevs[e.Name]; ok && std > 0 {
			stds[i] = std
			continue
		}
		if e.Position.IsPitcher() {
			stds[i] = defaults.Pitcher
		} else {
			stds[i] = defaults.Batter
		}
		log.WithFields(logrus.Fields{
			"player":   e.Name,
			"position": e.Position,
			"default":  stds[i],
		}).Warn("No historical standard deviation, using position default")
	}
	return stds
}
