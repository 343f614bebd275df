package correlation

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/jstittsworth/dfs-covariance/internal/models"
	"github.com/jstittsworth/dfs-covariance/pkg/utils"
)

// minSamples is the smallest number of joint (date, team) observations that
// yields a defined Pearson correlation.
const minSamples = 2

// OrderCorrelations holds the pairwise Pearson correlations between
// batting-order slots estimated from history. Pairs without enough joint
// history are absent, which Lookup reports as not found rather than zero.
type OrderCorrelations struct {
	slots  []int
	values map[[2]int]float64
}

// Lookup returns the correlation between two order slots. The second return
// is false when the pair has no historical estimate.
func (oc *OrderCorrelations) Lookup(a, b int) (float64, bool) {
	if a > b {
		a, b = b, a
	}
	v, ok := oc.values[[2]int{a, b}]
	return v, ok
}

// Slots returns the order slots observed in history, ascending.
func (oc *OrderCorrelations) Slots() []int {
	out := make([]int, len(oc.slots))
	copy(out, oc.slots)
	return out
}

type teamDate struct {
	date string
	team string
}

// EstimateOrderCorrelations computes the slot×slot correlation matrix from
// historical game records. Batter points are summed per (date, team, slot)
// group, so substitutions sharing a slot on a date collapse into one sample,
// then each slot pair is correlated across the (date, team) groups where both
// slots appear.
func EstimateOrderCorrelations(records []models.GameRecord) *OrderCorrelations {
	groups := make(map[teamDate]map[int]float64)
	slotSet := make(map[int]struct{})

	for _, r := range records {
		if r.Position.IsPitcher() || r.BattingOrder == models.OrderNone {
			continue
		}
		key := teamDate{date: r.Date, team: r.Team}
		if groups[key] == nil {
			groups[key] = make(map[int]float64)
		}
		groups[key][r.BattingOrder] += r.Points
		slotSet[r.BattingOrder] = struct{}{}
	}

	slots := make([]int, 0, len(slotSet))
	for s := range slotSet {
		slots = append(slots, s)
	}
	sort.Ints(slots)

	// Fixed sample order keeps the estimate bit-for-bit reproducible for
	// identical input.
	keys := make([]teamDate, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].date != keys[j].date {
			return keys[i].date < keys[j].date
		}
		return keys[i].team < keys[j].team
	})

	values := make(map[[2]int]float64)
	for ai, a := range slots {
		for _, b := range slots[ai:] {
			if a == b {
				// Correlation of a slot with itself is 1 by definition.
				values[[2]int{a, a}] = 1
				continue
			}
			if corr, ok := slotPairCorrelation(groups, keys, a, b); ok {
				values[[2]int{a, b}] = corr
			}
		}
	}

	return &OrderCorrelations{slots: slots, values: values}
}

// slotPairCorrelation correlates two slots over the groups where both have a
// sample. Degenerate variance in either slot leaves the pair undefined.
func slotPairCorrelation(groups map[teamDate]map[int]float64, keys []teamDate, a, b int) (float64, bool) {
	var xs, ys []float64
	for _, k := range keys {
		byOrder := groups[k]
		x, okX := byOrder[a]
		y, okY := byOrder[b]
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < minSamples {
		return 0, false
	}
	corr := stat.Correlation(xs, ys, nil)
	if math.IsNaN(corr) { // zero variance in either slot
		return 0, false
	}
	return corr, true
}

type datePlayer struct {
	date string
	name string
}

// EstimatePitcherCorrelation computes the single Pearson correlation between
// a batter's points and the same-date points of the opposing starting
// pitcher. Batter rows with no matching pitcher row are excluded from the
// sample, not zero-filled.
func EstimatePitcherCorrelation(records []models.GameRecord) (float64, error) {
	pitcherPoints := make(map[datePlayer]float64)
	for _, r := range records {
		if r.Position.IsPitcher() {
			pitcherPoints[datePlayer{date: r.Date, name: r.PlayerName}] = r.Points
		}
	}

	var batter, opposing []float64
	for _, r := range records {
		if r.Position.IsPitcher() || r.OpposingPitcher == "" {
			continue
		}
		if pts, ok := pitcherPoints[datePlayer{date: r.Date, name: r.OpposingPitcher}]; ok {
			batter = append(batter, r.Points)
			opposing = append(opposing, pts)
		}
	}

	if len(batter) < minSamples {
		return 0, &utils.LookupError{
			What:   "pitcher-opponent correlation",
			Detail: "not enough matched batter/pitcher samples in history",
		}
	}
	corr := stat.Correlation(batter, opposing, nil)
	if math.IsNaN(corr) {
		return 0, &utils.LookupError{
			What:   "pitcher-opponent correlation",
			Detail: "degenerate variance in matched batter/pitcher samples",
		}
	}
	return corr, nil
}
