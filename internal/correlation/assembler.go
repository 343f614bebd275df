package correlation

import (
	"fmt"

	"github.com/jstittsworth/dfs-covariance/internal/models"
	"github.com/jstittsworth/dfs-covariance/pkg/utils"
)

// Assemble builds the full player×player correlation matrix for a slate from
// the historical order-slot correlations and the batter-vs-opposing-pitcher
// scalar. It is a pure function: inputs are not mutated and a fresh matrix is
// returned on every call.
//
// Assignment precedence: the diagonal is 1; specific relations (same-team
// batter pairs, batter vs own team's pitcher, batter vs designated opposing
// pitcher) are written explicitly; everything still unset afterwards defaults
// to 0. A pitcher therefore correlates with nobody except itself and the
// batters it faces.
func Assemble(entries []models.SlateEntry, orders *OrderCorrelations, pitcherCorr float64) (*PlayerMatrix, error) {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.PlayerID
	}

	m, err := NewPlayerMatrix(ids)
	if err != nil {
		return nil, err
	}

	byTeam := make(map[string][]int)
	for i, e := range entries {
		m.Set(i, i, 1)
		byTeam[e.Team] = append(byTeam[e.Team], i)
	}

	for i, e := range entries {
		if e.Position.IsPitcher() {
			continue
		}

		for _, j := range byTeam[e.Team] {
			if j == i {
				continue
			}
			teammate := entries[j]
			if teammate.Position.IsPitcher() {
				m.SetPair(i, j, 0)
				continue
			}
			corr, ok := orders.Lookup(e.BattingOrder, teammate.BattingOrder)
			if !ok {
				return nil, &utils.LookupError{
					What:   "batting-order correlation",
					Detail: fmt.Sprintf("no historical estimate for order pair (%d, %d)", e.BattingOrder, teammate.BattingOrder),
				}
			}
			m.SetPair(i, j, corr)
		}

		j, err := opposingPitcherIndex(m, entries, i)
		if err != nil {
			return nil, err
		}
		m.SetPair(i, j, pitcherCorr)
	}

	// Unrelated pairs are uncorrelated by design: cross-team batters and the
	// rest of each pitcher's row.
	m.FillUnset(0)

	return m, nil
}

// opposingPitcherIndex resolves a batter's designated opposing pitcher to a
// matrix index, surfacing upstream data errors as integrity violations.
func opposingPitcherIndex(m *PlayerMatrix, entries []models.SlateEntry, i int) (int, error) {
	e := entries[i]
	if e.OpposingPitcherID == "" {
		return 0, &utils.IntegrityError{Player: e.PlayerID, Detail: "no designated opposing pitcher"}
	}
	if e.OpposingPitcherID == e.PlayerID {
		return 0, &utils.IntegrityError{Player: e.PlayerID, Detail: "designated as own opposing pitcher"}
	}
	j, ok := m.IndexOf(e.OpposingPitcherID)
	if !ok {
		return 0, &utils.IntegrityError{
			Player: e.PlayerID,
			Detail: fmt.Sprintf("opposing pitcher %q not on slate", e.OpposingPitcherID),
		}
	}
	if !entries[j].Position.IsPitcher() {
		return 0, &utils.IntegrityError{
			Player: e.PlayerID,
			Detail: fmt.Sprintf("designated opposing pitcher %q is not a pitcher", e.OpposingPitcherID),
		}
	}
	return j, nil
}
