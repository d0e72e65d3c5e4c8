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
	"hash/fnv"
	"strconv"
)

var (
	// ErrTopology is returned by Index when boundaries refer to species
	// or phases that do not exist.
	ErrTopology = errors.New("invalid topology")

	// ErrStaleIndex is returned when the species catalogs or boundary
	// topology of a unit operation changed after it was indexed.
	ErrStaleIndex = errors.New("unit operation changed since it was indexed")
)

// Indexed is a unit operation together with the species and element
// indexes the balance engine needs. It can only be created by
// (*UnitOperation).Index. Parameter values of the unit operation may
// change freely between balance calls; adding or removing species,
// boundaries, or species flow records makes the index stale.
type Indexed struct {
	uo  *UnitOperation
	sig uint64

	// AllSpecies is the gas catalog followed by each solid species that
	// does not equal an earlier species.
	AllSpecies []*Species

	// SolidToAll maps [phase][phase-local index] to an index
	// in AllSpecies.
	SolidToAll [][]int

	// ElementAll holds every element present in any species,
	// in increasing order.
	ElementAll []Element

	// InletSpecies and OutletSpecies hold, in increasing order, the
	// AllSpecies indices that have a flow record on that side.
	InletSpecies, OutletSpecies []int

	// ElementFeed holds the elements with positive feed flow found by
	// the most recent balance call.
	ElementFeed []Element

	// ReflectionCoefficient multiplies negative outlet flows.
	ReflectionCoefficient float64

	// Method selects how the correction is computed.
	Method Method
}

// Index builds the species and element indexes of u. It must be called
// after the catalogs and boundaries are populated and before any balance
// calculation.
func (u *UnitOperation) Index() (*Indexed, error) {
	if err := u.checkTopology(); err != nil {
		return nil, err
	}
	ix := &Indexed{
		uo:                    u,
		sig:                   u.signature(),
		ReflectionCoefficient: DefaultReflectionCoefficient,
	}

	ix.AllSpecies = append(ix.AllSpecies, u.GasSpecies...)
	ix.SolidToAll = make([][]int, len(u.SolidSpecies))
	for p, catalog := range u.SolidSpecies {
		ix.SolidToAll[p] = make([]int, len(catalog))
		for i, s := range catalog {
			found := -1
			for j, a := range ix.AllSpecies {
				if a.Equal(s) {
					found = j
					break
				}
			}
			if found < 0 {
				found = len(ix.AllSpecies)
				ix.AllSpecies = append(ix.AllSpecies, s)
			}
			ix.SolidToAll[p][i] = found
		}
	}

	var present [NumElements]bool
	for _, s := range ix.AllSpecies {
		for _, a := range s.atoms {
			if a.Count != 0 {
				present[a.Element] = true
			}
		}
	}
	for e, ok := range present {
		if ok {
			ix.ElementAll = append(ix.ElementAll, Element(e))
		}
	}

	ix.InletSpecies = ix.presentSpecies(Inlet)
	ix.OutletSpecies = ix.presentSpecies(Outlet)
	return ix, nil
}

// UnitOperation returns the indexed unit operation.
func (ix *Indexed) UnitOperation() *UnitOperation { return ix.uo }

// Clone returns an index over a clone of the indexed unit operation.
// The index tables are shared.
func (ix *Indexed) Clone() *Indexed {
	o := *ix
	o.uo = ix.uo.Clone()
	o.ElementFeed = append([]Element(nil), ix.ElementFeed...)
	return &o
}

// allIndex returns the AllSpecies index of phase-local species i in the
// mixture m.
func (ix *Indexed) allIndex(m *Mixture, i int) int {
	if m.Solid == nil {
		return i
	}
	return ix.SolidToAll[m.Solid.PhaseIndex][i]
}

// species calls f for every species flow record on side s, with the
// mixture holding it and its AllSpecies index.
func (ix *Indexed) species(s Side, f func(m *Mixture, sf *FlowRecord, all int)) {
	for _, b := range ix.uo.boundaries(s) {
		b.mixtures(func(_ int, m *Mixture) {
			for i := range m.Flows {
				sf := &m.Flows[i]
				f(m, sf, ix.allIndex(m, sf.Species))
			}
		})
	}
}

func (ix *Indexed) presentSpecies(s Side) []int {
	present := make([]bool, len(ix.AllSpecies))
	ix.species(s, func(_ *Mixture, _ *FlowRecord, all int) {
		present[all] = true
	})
	var o []int
	for i, ok := range present {
		if ok {
			o = append(o, i)
		}
	}
	return o
}

// check returns ErrStaleIndex if the unit operation changed shape after
// it was indexed.
func (ix *Indexed) check() error {
	if ix.uo.signature() != ix.sig {
		return ErrStaleIndex
	}
	return nil
}

func (u *UnitOperation) checkTopology() error {
	check := func(side Side, bi int, b *FlowBoundary) error {
		if b.HasGasPhase {
			if b.Gas == nil {
				return fmt.Errorf("unitrom: %v boundary %d (%s) has a gas phase but no gas mixture: %w",
					side, bi, b.Name, ErrTopology)
			}
			for _, sf := range b.Gas.Flows {
				if sf.Species < 0 || sf.Species >= len(u.GasSpecies) {
					return fmt.Errorf("unitrom: %v boundary %d (%s): gas species %d out of range [0, %d): %w",
						side, bi, b.Name, sf.Species, len(u.GasSpecies), ErrTopology)
				}
			}
		}
		if !b.HasSolidPhase {
			return nil
		}
		for _, m := range b.Solids {
			if m.Solid == nil {
				return fmt.Errorf("unitrom: %v boundary %d (%s) has a solid mixture with no solid attributes: %w",
					side, bi, b.Name, ErrTopology)
			}
			p := m.Solid.PhaseIndex
			if p < 0 || p >= len(u.SolidSpecies) {
				return fmt.Errorf("unitrom: %v boundary %d (%s): solid phase %d out of range [0, %d): %w",
					side, bi, b.Name, p, len(u.SolidSpecies), ErrTopology)
			}
			for _, sf := range m.Flows {
				if sf.Species < 0 || sf.Species >= len(u.SolidSpecies[p]) {
					return fmt.Errorf("unitrom: %v boundary %d (%s): phase %d species %d out of range [0, %d): %w",
						side, bi, b.Name, p, sf.Species, len(u.SolidSpecies[p]), ErrTopology)
				}
			}
		}
		return nil
	}
	for _, side := range []Side{Inlet, Outlet} {
		for i, b := range u.boundaries(side) {
			if err := check(side, i, b); err != nil {
				return err
			}
		}
	}
	return nil
}

// signature returns a hash of the catalogs and boundary topology of u.
func (u *UnitOperation) signature() uint64 {
	h := fnv.New64a()
	var buf []byte
	num := func(v int) {
		buf = strconv.AppendInt(buf[:0], int64(v), 10)
		buf = append(buf, ',')
		h.Write(buf)
	}
	str := func(s string) {
		num(len(s))
		h.Write([]byte(s))
	}
	bit := func(b bool) {
		if b {
			num(1)
		} else {
			num(0)
		}
	}
	catalog := func(c []*Species) {
		num(len(c))
		for _, s := range c {
			str(s.name)
			str(s.formula)
		}
	}
	catalog(u.GasSpecies)
	num(len(u.SolidSpecies))
	for _, c := range u.SolidSpecies {
		catalog(c)
	}
	for _, side := range []Side{Inlet, Outlet} {
		bs := u.boundaries(side)
		num(len(bs))
		for _, b := range bs {
			bit(b.HasGasPhase)
			bit(b.HasSolidPhase)
			bit(b.Gas != nil)
			num(len(b.Solids))
			b.mixtures(func(pos int, m *Mixture) {
				num(pos)
				if m.Solid != nil {
					num(m.Solid.PhaseIndex)
				}
				num(len(m.Flows))
				for _, sf := range m.Flows {
					num(sf.Species)
				}
			})
		}
	}
	return h.Sum64()
}
