package models

import (
	"time"
)

// Position is a slate position tag. Multi-position players are collapsed to
// their first listed position upstream, and C/1B are merged into one tag to
// match the contest's shared roster slot.
type Position string

const (
	PositionPitcher      Position = "P"
	PositionCatcherFirst Position = "C/1B"
	PositionSecond       Position = "2B"
	PositionThird        Position = "3B"
	PositionShortstop    Position = "SS"
	PositionOutfield     Position = "OF"
)

func (p Position) IsPitcher() bool {
	return p == PositionPitcher
}

// OrderNone marks a player with no batting-order slot: a pitcher or a
// non-starter. Valid slots are 1 through 9.
const OrderNone = 0

// GameRecord is one player's performance in one historical game. For batters
// the raw opponent cell encodes the opposing starting pitcher ahead of the
// team, so OpposingPitcher is derived at load time.
type GameRecord struct {
	ID              uint     `gorm:"primaryKey" json:"id"`
	PlayerName      string   `gorm:"not null;index:idx_game_records_player" json:"player_name"`
	Date            string   `gorm:"not null;index:idx_game_records_date" json:"date"`
	Team            string   `gorm:"not null" json:"team"`
	Opponent        string   `json:"opponent"`
	OpposingPitcher string   `json:"opposing_pitcher"`
	Position        Position `gorm:"not null" json:"position"`
	BattingOrder    int      `json:"batting_order"`
	Points          float64  `json:"points"`
}

// SlateEntry is one player eligible for the current contest.
type SlateEntry struct {
	PlayerID          string   `gorm:"primaryKey" json:"player_id"`
	SlateDate         string   `gorm:"primaryKey;index:idx_slate_entries_date" json:"slate_date"`
	Name              string   `gorm:"not null" json:"name"`
	Position          Position `gorm:"not null" json:"position"`
	Salary            int      `json:"salary"`
	Game              string   `json:"game"`
	Team              string   `gorm:"not null" json:"team"`
	Opponent          string   `json:"opponent"`
	BattingOrder      int      `json:"batting_order"`
	OpposingPitcherID string   `json:"opposing_pitcher_id"`
	Projection        float64  `json:"projection"`
}

// CovarianceArtifact is the final pipeline output in its transportable form:
// a square covariance matrix whose row/column order matches IDs.
type CovarianceArtifact struct {
	ComputationID      string      `json:"computation_id"`
	SlateDate          string      `json:"slate_date"`
	IDs                []string    `json:"ids"`
	Covariance         [][]float64 `json:"covariance"`
	PitcherCorrelation float64     `json:"pitcher_correlation"`
	ComputedAt         time.Time   `json:"computed_at"`
}
