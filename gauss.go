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
	"math"

	"gonum.org/v1/gonum/mat"
)

// gaussianElimination solves a·x = b by Gaussian elimination with row
// pivoting on the largest absolute value in each column. a and b are
// overwritten. If a zero pivot is found at row i, elimination stops
// there, x[i:] is set to zero, x[:i] is back-substituted from it, and
// rank is i with ErrSingular. Otherwise rank is the number of rows.
func gaussianElimination(a *mat.Dense, b []float64) (x []float64, rank int, err error) {
	nrow, ncol := a.Dims()
	x = make([]float64, ncol)
	rank = nrow
	for i := 0; i < nrow; i++ {
		imax := i
		amax := math.Abs(a.At(i, i))
		for k := i + 1; k < nrow; k++ {
			if v := math.Abs(a.At(k, i)); v > amax {
				imax, amax = k, v
			}
		}
		if amax == 0 {
			rank = i
			err = ErrSingular
			break
		}
		ri := a.RawRowView(i)
		if imax != i {
			rmax := a.RawRowView(imax)
			for j := i; j < ncol; j++ {
				ri[j], rmax[j] = rmax[j], ri[j]
			}
			b[i], b[imax] = b[imax], b[i]
		}
		for k := i + 1; k < nrow; k++ {
			rk := a.RawRowView(k)
			f := rk[i] / ri[i]
			for j := i; j < ncol; j++ {
				rk[j] -= f * ri[j]
			}
			b[k] -= f * b[i]
		}
	}
	for k := rank - 1; k >= 0; k-- {
		rk := a.RawRowView(k)
		var sum float64
		for j := k + 1; j < ncol; j++ {
			sum += rk[j] * x[j]
		}
		x[k] = (b[k] - sum) / rk[k]
	}
	return x, rank, err
}
