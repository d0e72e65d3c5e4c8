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

// SpeciesMoleFlowRate returns the molar flow rate of each species in
// AllSpecies summed over every boundary on side s. Flows in mixtures
// with constant mass fractions are the total mass flow times the mass
// fraction. Units are those of the mass flows divided by g/mol.
func (ix *Indexed) SpeciesMoleFlowRate(s Side) []float64 {
	flow := make([]float64, len(ix.AllSpecies))
	ix.species(s, func(m *Mixture, sf *FlowRecord, all int) {
		mw := ix.AllSpecies[all].mw
		if mw == 0 {
			return
		}
		if m.ConstMassFractions {
			flow[all] += m.TotalMassFlow.Default * sf.Default / mw
		} else {
			flow[all] += sf.Default / mw
		}
	})
	return flow
}

// ElementMoleFlowRate returns the molar flow rate of each element,
// indexed by atomic number, summed over every boundary on side s.
// Only species with positive flow contribute.
func (ix *Indexed) ElementMoleFlowRate(s Side) [NumElements]float64 {
	return ix.elementFlow(ix.SpeciesMoleFlowRate(s))
}

func (ix *Indexed) elementFlow(species []float64) [NumElements]float64 {
	var flow [NumElements]float64
	for i, n := range species {
		if n <= 0 {
			continue
		}
		for _, a := range ix.AllSpecies[i].atoms {
			flow[a.Element] += n * a.Count
		}
	}
	return flow
}
