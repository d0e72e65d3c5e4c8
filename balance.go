/*
Copyright © 2019 the unitrom authors.
This file is part of unitrom.

unitrom is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

unitrom is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with unitrom.  If not, see <http://www.gnu.org/licenses/>.
*/

package unitrom

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInfeasible is returned when an element present in the feed has
	// no flow at the outlets, so no correction can balance it.
	ErrInfeasible = errors.New("mass balance failed")

	// ErrSingular is returned when the correction system is rank deficient.
	ErrSingular = errors.New("singular correction system")
)

// DefaultReflectionCoefficient is the factor negative outlet flows are
// multiplied by, turning them into small positive flows.
const DefaultReflectionCoefficient = -0.01

// Method is the formulation of the correction problem.
type Method int

const (
	// Auto chooses Regression when there are more feed elements than
	// product species and Lagrangian otherwise.
	Auto Method = iota

	// Regression finds the correction factors that minimize the squared
	// elemental imbalance by solving the normal equations.
	Regression

	// Lagrangian finds the smallest correction factors, in the least
	// squares sense, that balance every feed element exactly.
	Lagrangian
)

func (m Method) String() string {
	switch m {
	case Auto:
		return "auto"
	case Regression:
		return "regression"
	case Lagrangian:
		return "lagrangian"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod returns the method named by s.
func ParseMethod(s string) (Method, error) {
	for _, m := range []Method{Auto, Regression, Lagrangian} {
		if s == m.String() {
			return m, nil
		}
	}
	return Auto, fmt.Errorf("unitrom: invalid correction method %q", s)
}

// Result describes a balance calculation.
type Result struct {
	// Method is the formulation that was solved.
	Method Method

	// Rank is the rank found by the linear solver and Size is the
	// number of rows in the system. Rank < Size only with ErrSingular.
	Rank, Size int

	// ProductSpecies holds the AllSpecies indices of the species with
	// positive outlet flow after reflection and elimination.
	ProductSpecies []int

	// ElementFeed holds the elements with positive feed flow.
	ElementFeed []Element

	// Factors holds the relative correction of each species in
	// AllSpecies. Each outlet flow was multiplied by 1 + Factors[i].
	Factors []float64

	// Reflected is the number of negative outlet flows that were
	// reflected and Eliminated the number of outlet flows set to zero
	// because they contain an element missing from the feed.
	Reflected, Eliminated int
}

// EnforceElementalMassBalance corrects the default values of the outlet
// species flows so that the molar flow of every element in the feed
// equals its molar flow at the outlets.
//
// The outlets are changed in place in three steps. Negative flows are
// first multiplied by the reflection coefficient. Next, flows of species
// containing an element that is not fed are set to zero. Last, each
// remaining flow is scaled by a correction factor. ErrInfeasible or
// ErrSingular is returned if the last step cannot be performed; the
// first two steps are not undone.
func (ix *Indexed) EnforceElementalMassBalance() (*Result, error) {
	if err := ix.check(); err != nil {
		return nil, err
	}
	r := new(Result)
	r.Reflected = ix.reflectNegativeFlows()

	feed := ix.ElementMoleFlowRate(Inlet)
	ix.ElementFeed = ix.ElementFeed[:0]
	for _, e := range ix.ElementAll {
		if feed[e] > 0 {
			ix.ElementFeed = append(ix.ElementFeed, e)
		} else {
			r.Eliminated += ix.eliminateSpeciesContaining(e)
		}
	}
	r.ElementFeed = append([]Element(nil), ix.ElementFeed...)

	speciesOut := ix.SpeciesMoleFlowRate(Outlet)
	product := ix.elementFlow(speciesOut)
	for _, e := range ix.ElementFeed {
		if product[e] <= 0 {
			return r, fmt.Errorf("unitrom: element %v is fed but leaves with no product: %w", e, ErrInfeasible)
		}
	}

	for i, n := range speciesOut {
		if n > 0 {
			r.ProductSpecies = append(r.ProductSpecies, i)
		}
	}
	nSp, nEl := len(r.ProductSpecies), len(ix.ElementFeed)
	r.Factors = make([]float64, len(ix.AllSpecies))

	r.Method = ix.Method
	if r.Method == Auto {
		if nEl > nSp {
			r.Method = Regression
		} else {
			r.Method = Lagrangian
		}
	}
	if nEl == 0 || nSp == 0 {
		// Nothing is fed or nothing is produced, so there is nothing
		// to correct.
		return r, nil
	}

	// a holds the molar flow of each feed element in each product species
	// and b the imbalance of each feed element.
	a := mat.NewDense(nEl, nSp, nil)
	b := make([]float64, nEl)
	for i, e := range ix.ElementFeed {
		b[i] = feed[e] - product[e]
		for j, s := range r.ProductSpecies {
			a.Set(i, j, speciesOut[s]*ix.AllSpecies[s].Count(e))
		}
	}

	var x []float64
	var err error
	switch r.Method {
	case Regression:
		x, r.Rank, r.Size, err = solveRegression(a, b)
	case Lagrangian:
		x, r.Rank, r.Size, err = solveLagrangian(a, b)
	default:
		return r, fmt.Errorf("unitrom: invalid correction method %v", r.Method)
	}
	if err != nil {
		return r, fmt.Errorf("unitrom: %s system of size %d has rank %d: %w", r.Method, r.Size, r.Rank, err)
	}

	for j, s := range r.ProductSpecies {
		r.Factors[s] = x[j]
	}
	ix.applyFactors(r.Factors)
	return r, nil
}

// solveRegression solves the normal equations aᵀa·x = aᵀb.
func solveRegression(a *mat.Dense, b []float64) (x []float64, rank, size int, err error) {
	_, n := a.Dims()
	var ata mat.Dense
	ata.Mul(a.T(), a)
	var atb mat.VecDense
	atb.MulVec(a.T(), mat.NewVecDense(len(b), b))
	rhs := make([]float64, n)
	for i := range rhs {
		rhs[i] = atb.AtVec(i)
	}
	x, rank, err = gaussianElimination(&ata, rhs)
	return x, rank, n, err
}

// solveLagrangian minimizes Σx² subject to a·x = b by solving
//  [2I aᵀ] [x]   [0]
//  [a  0 ] [λ] = [b]
// and returns x.
func solveLagrangian(a *mat.Dense, b []float64) (x []float64, rank, size int, err error) {
	nEl, nSp := a.Dims()
	n := nSp + nEl
	m := mat.NewDense(n, n, nil)
	rhs := make([]float64, n)
	for j := 0; j < nSp; j++ {
		m.Set(j, j, 2)
	}
	for i := 0; i < nEl; i++ {
		for j := 0; j < nSp; j++ {
			v := a.At(i, j)
			m.Set(j, nSp+i, v)
			m.Set(nSp+i, j, v)
		}
		rhs[nSp+i] = b[i]
	}
	x, rank, err = gaussianElimination(m, rhs)
	return x[:nSp], rank, n, err
}

// reflectNegativeFlows multiplies every negative outlet species flow by
// the reflection coefficient and returns how many were changed.
func (ix *Indexed) reflectNegativeFlows() int {
	var n int
	for _, b := range ix.uo.Outlets {
		b.mixtures(func(_ int, m *Mixture) {
			changed := false
			for i := range m.Flows {
				if m.Flows[i].Default < 0 {
					m.Flows[i].Default *= ix.ReflectionCoefficient
					changed = true
					n++
				}
			}
			if changed {
				m.settle()
			}
		})
	}
	return n
}

// eliminateSpeciesContaining sets to zero every outlet flow of a species
// containing e and returns how many records were zeroed.
func (ix *Indexed) eliminateSpeciesContaining(e Element) int {
	var n int
	for _, b := range ix.uo.Outlets {
		b.mixtures(func(_ int, m *Mixture) {
			changed := false
			for i := range m.Flows {
				if ix.AllSpecies[ix.allIndex(m, m.Flows[i].Species)].Contains(e) {
					m.Flows[i].Default = 0
					changed = true
					n++
				}
			}
			if changed {
				m.settle()
			}
		})
	}
	return n
}

// applyFactors multiplies each outlet species flow by one plus the
// factor of its species. Flow totals of variable-fraction mixtures are
// then recomputed.
func (ix *Indexed) applyFactors(factors []float64) {
	for _, b := range ix.uo.Outlets {
		b.mixtures(func(_ int, m *Mixture) {
			for i := range m.Flows {
				m.Flows[i].Default *= 1 + factors[ix.allIndex(m, m.Flows[i].Species)]
			}
			if !m.ConstMassFractions {
				m.CalcTotalMassFlow()
			}
		})
	}
}
