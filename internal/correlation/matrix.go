package correlation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/jstittsworth/dfs-covariance/pkg/utils"
)

// PlayerMatrix is a square matrix indexed by slate player ID. Row/column
// order follows the slate order it was built from.
type PlayerMatrix struct {
	ids   []string
	index map[string]int
	data  *mat.Dense
}

// NewPlayerMatrix allocates an n×n matrix with every entry unset (NaN).
// The ID list must be non-empty; duplicate IDs are an integrity violation.
func NewPlayerMatrix(ids []string) (*PlayerMatrix, error) {
	n := len(ids)
	if n == 0 {
		return nil, fmt.Errorf("%w: no players", utils.ErrInvalidInput)
	}
	index := make(map[string]int, n)
	for i, id := range ids {
		if _, exists := index[id]; exists {
			return nil, &utils.IntegrityError{Player: id, Detail: "duplicate player ID on slate"}
		}
		index[id] = i
	}

	data := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			data.Set(i, j, math.NaN())
		}
	}

	return &PlayerMatrix{ids: ids, index: index, data: data}, nil
}

// Dim returns the number of players.
func (m *PlayerMatrix) Dim() int {
	return len(m.ids)
}

// IDs returns the player IDs in row/column order.
func (m *PlayerMatrix) IDs() []string {
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}

// IndexOf returns the row/column index for a player ID.
func (m *PlayerMatrix) IndexOf(id string) (int, bool) {
	i, ok := m.index[id]
	return i, ok
}

// At returns the entry at (i, j).
func (m *PlayerMatrix) At(i, j int) float64 {
	return m.data.At(i, j)
}

// AtID returns the entry for a pair of player IDs.
func (m *PlayerMatrix) AtID(a, b string) (float64, bool) {
	i, ok := m.index[a]
	if !ok {
		return 0, false
	}
	j, ok := m.index[b]
	if !ok {
		return 0, false
	}
	return m.data.At(i, j), true
}

// Set writes the entry at (i, j).
func (m *PlayerMatrix) Set(i, j int, v float64) {
	m.data.Set(i, j, v)
}

// SetPair writes a value symmetrically at (i, j) and (j, i).
func (m *PlayerMatrix) SetPair(i, j int, v float64) {
	m.data.Set(i, j, v)
	m.data.Set(j, i, v)
}

// IsSet reports whether the entry at (i, j) has been assigned.
func (m *PlayerMatrix) IsSet(i, j int) bool {
	return !math.IsNaN(m.data.At(i, j))
}

// FillUnset assigns v to every entry still unset.
func (m *PlayerMatrix) FillUnset(v float64) {
	n := m.Dim()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if math.IsNaN(m.data.At(i, j)) {
				m.data.Set(i, j, v)
			}
		}
	}
}

// Rows returns the matrix as a row-major slice of slices.
func (m *PlayerMatrix) Rows() [][]float64 {
	n := m.Dim()
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			rows[i][j] = m.data.At(i, j)
		}
	}
	return rows
}

// Dense exposes the underlying matrix for numerical routines.
func (m *PlayerMatrix) Dense() *mat.Dense {
	return m.data
}
