package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/dfs-covariance/internal/models"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadGameRecords(t *testing.T) {
	csv := `Name,Position,Team,Salary,Scored,Opponent,Order,Date
Jose Altuve,2B,HOU,4800,12.5,"Gerrit Cole,NYY",1,2024-06-01
Gerrit Cole,P,NYY,9800,40,HOU,-,2024-06-01
Bench Guy,OF,HOU,2000,0,"Gerrit Cole,NYY",,2024-06-01
`
	path := writeTempCSV(t, "history.csv", csv)

	records, err := LoadGameRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 3)

	altuve := records[0]
	assert.Equal(t, "Jose Altuve", altuve.PlayerName)
	assert.Equal(t, models.PositionSecond, altuve.Position)
	assert.Equal(t, 1, altuve.BattingOrder)
	assert.Equal(t, 12.5, altuve.Points)
	// The pitcher identity is derived from the batter's opponent cell.
	assert.Equal(t, "Gerrit Cole", altuve.OpposingPitcher)

	cole := records[1]
	assert.True(t, cole.Position.IsPitcher())
	assert.Equal(t, models.OrderNone, cole.BattingOrder)
	assert.Empty(t, cole.OpposingPitcher, "pitchers have no opposing pitcher")

	bench := records[2]
	assert.Equal(t, models.OrderNone, bench.BattingOrder)
}

func TestLoadGameRecords_MissingColumn(t *testing.T) {
	path := writeTempCSV(t, "history.csv", "Name,Position\nAltuve,2B\n")

	_, err := LoadGameRecords(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestLoadSlateEntries(t *testing.T) {
	csv := `Name,ID,Position,Salary,Game,Team,Opponent,Order,Opp_Pitcher,Projection
Jose Altuve,118836,2B,4800,HOU@NYY,HOU,NYY,1,118892,11.2
Gerrit Cole,118892,P,9800,HOU@NYY,NYY,HOU,0,,38.4
`
	path := writeTempCSV(t, "slate.csv", csv)

	entries, err := LoadSlateEntries(path, "2024-06-04")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	altuve := entries[0]
	assert.Equal(t, "118836", altuve.PlayerID)
	assert.Equal(t, "2024-06-04", altuve.SlateDate)
	assert.Equal(t, 4800, altuve.Salary)
	assert.Equal(t, 1, altuve.BattingOrder)
	assert.Equal(t, "118892", altuve.OpposingPitcherID)
	assert.Equal(t, 11.2, altuve.Projection)

	cole := entries[1]
	assert.True(t, cole.Position.IsPitcher())
	assert.Equal(t, models.OrderNone, cole.BattingOrder)
	assert.Empty(t, cole.OpposingPitcherID)
}

func TestLoadStdDevs(t *testing.T) {
	path := writeTempCSV(t, "stddev.csv", "Name,StdDev\nJose Altuve,8.1\nGerrit Cole,14.6\n")

	stds, err := LoadStdDevs(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{
		"Jose Altuve": 8.1,
		"Gerrit Cole": 14.6,
	}, stds)
}

func TestOpposingPitcherFrom(t *testing.T) {
	tests := []struct {
		opponent string
		want     string
	}{
		{"Gerrit Cole,NYY", "Gerrit Cole"},
		{"Gerrit Cole, NYY", "Gerrit Cole"},
		{"NYY", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, opposingPitcherFrom(tt.opponent), "opponent %q", tt.opponent)
	}
}
