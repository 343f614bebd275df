package correlation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/dfs-covariance/internal/models"
	"github.com/jstittsworth/dfs-covariance/pkg/utils"
)

func batterRecord(name, date, team string, order int, points float64) models.GameRecord {
	return models.GameRecord{
		PlayerName:   name,
		Date:         date,
		Team:         team,
		Position:     models.PositionOutfield,
		BattingOrder: order,
		Points:       points,
	}
}

func pitcherRecord(name, date, team string, points float64) models.GameRecord {
	return models.GameRecord{
		PlayerName: name,
		Date:       date,
		Team:       team,
		Position:   models.PositionPitcher,
		Points:     points,
	}
}

func TestEstimateOrderCorrelations_PerfectAndInverse(t *testing.T) {
	// Slot 2 doubles slot 1, slot 3 runs against it.
	records := []models.GameRecord{
		batterRecord("Altuve", "2024-06-01", "HOU", 1, 10),
		batterRecord("Alvarez", "2024-06-01", "HOU", 2, 20),
		batterRecord("Pena", "2024-06-01", "HOU", 3, 30),
		batterRecord("Altuve", "2024-06-02", "HOU", 1, 20),
		batterRecord("Alvarez", "2024-06-02", "HOU", 2, 40),
		batterRecord("Pena", "2024-06-02", "HOU", 3, 20),
		batterRecord("Altuve", "2024-06-03", "HOU", 1, 30),
		batterRecord("Alvarez", "2024-06-03", "HOU", 2, 60),
		batterRecord("Pena", "2024-06-03", "HOU", 3, 10),
	}

	oc := EstimateOrderCorrelations(records)

	corr, ok := oc.Lookup(1, 2)
	require.True(t, ok)
	assert.InDelta(t, 1.0, corr, 1e-12)

	corr, ok = oc.Lookup(1, 3)
	require.True(t, ok)
	assert.InDelta(t, -1.0, corr, 1e-12)

	// Lookup is symmetric in its arguments.
	forward, _ := oc.Lookup(2, 3)
	backward, _ := oc.Lookup(3, 2)
	assert.Equal(t, forward, backward)

	for _, slot := range []int{1, 2, 3} {
		diag, ok := oc.Lookup(slot, slot)
		require.True(t, ok)
		assert.Equal(t, 1.0, diag)
	}
}

func TestEstimateOrderCorrelations_SumsSharedSlots(t *testing.T) {
	// Substitutions sharing a slot on a date collapse into one sample.
	records := []models.GameRecord{
		batterRecord("Starter", "2024-06-01", "HOU", 1, 4),
		batterRecord("Sub", "2024-06-01", "HOU", 1, 6),
		batterRecord("Alvarez", "2024-06-01", "HOU", 2, 20),
		batterRecord("Altuve", "2024-06-02", "HOU", 1, 20),
		batterRecord("Alvarez", "2024-06-02", "HOU", 2, 40),
		batterRecord("Altuve", "2024-06-03", "HOU", 1, 30),
		batterRecord("Alvarez", "2024-06-03", "HOU", 2, 60),
	}

	oc := EstimateOrderCorrelations(records)
	corr, ok := oc.Lookup(1, 2)
	require.True(t, ok)
	assert.InDelta(t, 1.0, corr, 1e-12)
}

func TestEstimateOrderCorrelations_NoData(t *testing.T) {
	tests := []struct {
		name    string
		records []models.GameRecord
		a, b    int
	}{
		{
			name: "single joint sample",
			records: []models.GameRecord{
				batterRecord("Altuve", "2024-06-01", "HOU", 1, 10),
				batterRecord("Alvarez", "2024-06-01", "HOU", 2, 20),
				batterRecord("Altuve", "2024-06-02", "HOU", 1, 20),
			},
			a: 1, b: 2,
		},
		{
			name: "degenerate variance",
			records: []models.GameRecord{
				batterRecord("Altuve", "2024-06-01", "HOU", 1, 10),
				batterRecord("Alvarez", "2024-06-01", "HOU", 2, 20),
				batterRecord("Altuve", "2024-06-02", "HOU", 1, 10),
				batterRecord("Alvarez", "2024-06-02", "HOU", 2, 40),
			},
			a: 1, b: 2,
		},
		{
			name: "slot never observed",
			records: []models.GameRecord{
				batterRecord("Altuve", "2024-06-01", "HOU", 1, 10),
			},
			a: 1, b: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oc := EstimateOrderCorrelations(tt.records)
			_, ok := oc.Lookup(tt.a, tt.b)
			assert.False(t, ok, "pair (%d, %d) should have no estimate", tt.a, tt.b)
		})
	}
}

func TestEstimateOrderCorrelations_IgnoresPitchersAndNonStarters(t *testing.T) {
	records := []models.GameRecord{
		pitcherRecord("Verlander", "2024-06-01", "HOU", 40),
		{PlayerName: "Bench", Date: "2024-06-01", Team: "HOU", Position: models.PositionOutfield, BattingOrder: models.OrderNone, Points: 5},
	}
	oc := EstimateOrderCorrelations(records)
	assert.Empty(t, oc.Slots())
}

func TestEstimatePitcherCorrelation(t *testing.T) {
	withOpposing := func(rec models.GameRecord, pitcher string) models.GameRecord {
		rec.OpposingPitcher = pitcher
		return rec
	}

	// Batter scores track the opposing pitcher's inversely.
	records := []models.GameRecord{
		pitcherRecord("Cole", "2024-06-01", "NYY", 30),
		pitcherRecord("Cole", "2024-06-02", "NYY", 20),
		pitcherRecord("Cole", "2024-06-03", "NYY", 10),
		withOpposing(batterRecord("Altuve", "2024-06-01", "HOU", 1, 10), "Cole"),
		withOpposing(batterRecord("Altuve", "2024-06-02", "HOU", 1, 20), "Cole"),
		withOpposing(batterRecord("Altuve", "2024-06-03", "HOU", 1, 30), "Cole"),
		// No pitcher row matches this name, so the row is excluded. Its
		// extreme score would wreck the correlation if it were zero-filled.
		withOpposing(batterRecord("Tucker", "2024-06-01", "HOU", 2, 1000), "Unknown Pitcher"),
	}

	corr, err := EstimatePitcherCorrelation(records)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, corr, 1e-12)
}

func TestEstimatePitcherCorrelation_NoData(t *testing.T) {
	records := []models.GameRecord{
		pitcherRecord("Cole", "2024-06-01", "NYY", 30),
		batterRecord("Altuve", "2024-06-01", "HOU", 1, 10),
	}

	_, err := EstimatePitcherCorrelation(records)
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrLookupFailure))
}
