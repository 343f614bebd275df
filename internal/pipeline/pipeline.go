package pipeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/dfs-covariance/internal/correlation"
	"github.com/jstittsworth/dfs-covariance/internal/covariance"
	"github.com/jstittsworth/dfs-covariance/internal/models"
	"github.com/jstittsworth/dfs-covariance/pkg/logger"
)

// Options tunes a single pipeline run. The zero value gets sane defaults.
type Options struct {
	// Epsilon is the PSD eigenvalue tolerance; <= 0 uses the default.
	Epsilon float64
	// StdDevs overrides the per-player standard deviations computed from
	// history. Keys are player names.
	StdDevs map[string]float64
	// Defaults fill in standard deviations for players missing from both
	// StdDevs and history.
	Defaults covariance.StdDevDefaults
	// SlateDate labels the run and the resulting artifact.
	SlateDate string
}

// Result is the output of one covariance computation.
type Result struct {
	ComputationID      string
	SlateDate          string
	Correlation        *correlation.PlayerMatrix
	Covariance         *correlation.PlayerMatrix
	OrderCorrelations  *correlation.OrderCorrelations
	PitcherCorrelation float64
	ComputedAt         time.Time
}

// ToArtifact converts the result into its transportable form.
func (r *Result) ToArtifact() *models.CovarianceArtifact {
	return &models.CovarianceArtifact{
		ComputationID:      r.ComputationID,
		SlateDate:          r.SlateDate,
		IDs:                r.Covariance.IDs(),
		Covariance:         r.Covariance.Rows(),
		PitcherCorrelation: r.PitcherCorrelation,
		ComputedAt:         r.ComputedAt,
	}
}

// Run executes the full pipeline: historical correlation estimation, slate
// correlation assembly, PSD validation, covariance scaling. Data flows
// strictly forward and nothing is retained between runs; every fatal
// condition halts before any artifact exists.
func Run(history []models.GameRecord, slate []models.SlateEntry, opts Options) (*Result, error) {
	computationID := uuid.New().String()
	log := logger.WithSlateContext(computationID, opts.SlateDate)

	log.WithFields(logrus.Fields{
		"history_records": len(history),
		"slate_entries":   len(slate),
	}).Info("Starting covariance computation")

	if opts.Defaults == (covariance.StdDevDefaults{}) {
		opts.Defaults = covariance.DefaultStdDevs
	}
	if opts.Epsilon <= 0 {
		opts.Epsilon = correlation.DefaultEpsilon
	}

	orders := correlation.EstimateOrderCorrelations(history)
	pitcherCorr, err := correlation.EstimatePitcherCorrelation(history)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"order_slots":         len(orders.Slots()),
		"pitcher_correlation": pitcherCorr,
	}).Debug("Estimated historical correlations")

	corr, err := correlation.Assemble(slate, orders, pitcherCorr)
	if err != nil {
		return nil, err
	}

	if err := correlation.ValidatePSD(corr, opts.Epsilon); err != nil {
		return nil, err
	}

	stddevs := opts.StdDevs
	if stddevs == nil {
		stddevs = covariance.HistoricalStdDevs(history)
	}
	cov, err := covariance.Scale(corr, slate, stddevs, opts.Defaults)
	if err != nil {
		return nil, err
	}

	log.WithField("players", cov.Dim()).Info("Covariance computation completed")

	return &Result{
		ComputationID:      computationID,
		SlateDate:          opts.SlateDate,
		Correlation:        corr,
		Covariance:         cov,
		OrderCorrelations:  orders,
		PitcherCorrelation: pitcherCorr,
		ComputedAt:         time.Now().UTC(),
	}, nil
}
