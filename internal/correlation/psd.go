package correlation

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/jstittsworth/dfs-covariance/pkg/utils"
)

// DefaultEpsilon is the eigenvalue tolerance for the PSD check. A strict >= 0
// comparison rejects matrices whose smallest eigenvalue is zero up to
// floating-point noise.
const DefaultEpsilon = 1e-8

// ValidatePSD asserts the matrix is symmetric and positive semi-definite.
// Symmetry is checked exactly: the assembler writes pairs in one step, so any
// mismatch is a construction bug, not rounding. Eigenvalues must all be
// >= -epsilon; an epsilon <= 0 selects DefaultEpsilon, matching the pipeline
// option convention. Failure is fatal for the pipeline; no artifact may be
// written from a matrix that fails here.
func ValidatePSD(m *PlayerMatrix, epsilon float64) error {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}

	n := m.Dim()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if m.At(i, j) != m.At(j, i) {
				ids := m.IDs()
				return &utils.PSDError{
					Detail: fmt.Sprintf("asymmetric at (%s, %s): %v != %v", ids[i], ids[j], m.At(i, j), m.At(j, i)),
				}
			}
		}
	}

	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, m.At(i, j))
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, false); !ok {
		return &utils.PSDError{Detail: "eigenvalue decomposition failed"}
	}

	for _, v := range eig.Values(nil) {
		if v < -epsilon {
			return &utils.PSDError{
				Detail: fmt.Sprintf("eigenvalue %.6g below tolerance -%g", v, epsilon),
			}
		}
	}

	return nil
}
