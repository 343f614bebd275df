package correlation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/dfs-covariance/pkg/utils"
)

func matrixFromRows(t *testing.T, ids []string, rows [][]float64) *PlayerMatrix {
	t.Helper()
	m, err := NewPlayerMatrix(ids)
	require.NoError(t, err)
	for i, row := range rows {
		for j, v := range row {
			m.Set(i, j, v)
		}
	}
	return m
}

func TestValidatePSD_AcceptsAssembledMatrix(t *testing.T) {
	m, err := Assemble(twoTeamSlate(), identityOrders(), -0.2)
	require.NoError(t, err)
	assert.NoError(t, ValidatePSD(m, DefaultEpsilon))
}

func TestValidatePSD_AcceptsIdentity(t *testing.T) {
	m := matrixFromRows(t, []string{"a", "b"}, [][]float64{
		{1, 0},
		{0, 1},
	})
	assert.NoError(t, ValidatePSD(m, DefaultEpsilon))
}

func TestValidatePSD_RejectsInconsistentCorrelation(t *testing.T) {
	// An off-diagonal of 2.0 cannot come from any joint distribution.
	m := matrixFromRows(t, []string{"a", "b"}, [][]float64{
		{1, 2},
		{2, 1},
	})
	err := ValidatePSD(m, DefaultEpsilon)
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrPSDViolation))
	assert.Contains(t, err.Error(), "eigenvalue")
}

func TestValidatePSD_RejectsAsymmetry(t *testing.T) {
	m := matrixFromRows(t, []string{"a", "b"}, [][]float64{
		{1, 0.5},
		{0.4, 1},
	})
	err := ValidatePSD(m, DefaultEpsilon)
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrPSDViolation))
	assert.Contains(t, err.Error(), "asymmetric")
}

func TestValidatePSD_ToleratesFloatingPointNoise(t *testing.T) {
	// Smallest eigenvalue is -5e-11: negative, but only by rounding-scale
	// noise. The tolerance must not reject it.
	m := matrixFromRows(t, []string{"a", "b"}, [][]float64{
		{1, 1 + 5e-11},
		{1 + 5e-11, 1},
	})
	assert.NoError(t, ValidatePSD(m, DefaultEpsilon))
}

func TestValidatePSD_NonPositiveEpsilonFallsBackToDefault(t *testing.T) {
	m := matrixFromRows(t, []string{"a", "b"}, [][]float64{
		{1, 1 + 5e-11},
		{1 + 5e-11, 1},
	})
	// Both zero and negative epsilons select the default tolerance rather
	// than a strict >= 0 comparison.
	assert.NoError(t, ValidatePSD(m, 0))
	assert.NoError(t, ValidatePSD(m, -1))
}
