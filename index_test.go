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
	"reflect"
	"testing"
)

func TestIndex(t *testing.T) {
	u := NewUnitOperation()
	for _, f := range []string{"CO", "H2O"} {
		if err := u.AddGasSpecies(f, f); err != nil {
			t.Fatal(err)
		}
	}
	u.SetSolidPhaseCount(1)
	for _, f := range []string{"H2O", "C"} {
		if err := u.AddSolidSpecies(0, f, f); err != nil {
			t.Fatal(err)
		}
	}
	in := NewFlowBoundary(1, "in")
	in.HasSolidPhase = true
	in.Gas.PutSpeciesFlow(0, 1)
	s := NewSolidMixture(0, CISolid)
	s.PutSpeciesFlow(1, 1)
	in.Solids = append(in.Solids, s)
	u.AddInletBoundary(in)
	u.AddOutletFlowBoundary(2, "out", true, true)

	ix, err := u.Index()
	if err != nil {
		t.Fatal(err)
	}
	if len(ix.AllSpecies) != 3 {
		t.Fatalf("have %d species, want 3", len(ix.AllSpecies))
	}
	if want := [][]int{{1, 2}}; !reflect.DeepEqual(ix.SolidToAll, want) {
		t.Errorf("solid map: have %v, want %v", ix.SolidToAll, want)
	}
	if want := []Element{el("H"), el("C"), el("O")}; !reflect.DeepEqual(ix.ElementAll, want) {
		t.Errorf("elements: have %v, want %v", ix.ElementAll, want)
	}
	if want := []int{0, 2}; !reflect.DeepEqual(ix.InletSpecies, want) {
		t.Errorf("inlet species: have %v, want %v", ix.InletSpecies, want)
	}
	if want := []int{0, 1, 2}; !reflect.DeepEqual(ix.OutletSpecies, want) {
		t.Errorf("outlet species: have %v, want %v", ix.OutletSpecies, want)
	}
	if ix.ReflectionCoefficient != DefaultReflectionCoefficient || ix.Method != Auto {
		t.Error("invalid index defaults")
	}
}

func TestIndexTopology(t *testing.T) {
	u := NewUnitOperation()
	if err := u.AddGasSpecies("CO", "CO"); err != nil {
		t.Fatal(err)
	}
	in := NewFlowBoundary(1, "in")
	in.Gas.PutSpeciesFlow(3, 1)
	u.AddInletBoundary(in)
	if _, err := u.Index(); !errors.Is(err, ErrTopology) {
		t.Errorf("species out of range: have %v, want %v", err, ErrTopology)
	}

	u.Inlets[0] = NewFlowBoundary(1, "in")
	u.Inlets[0].HasSolidPhase = true
	u.Inlets[0].Solids = []*Mixture{NewSolidMixture(0, CISolid)}
	if _, err := u.Index(); !errors.Is(err, ErrTopology) {
		t.Errorf("phase out of range: have %v, want %v", err, ErrTopology)
	}

	u.Inlets[0] = NewFlowBoundary(1, "in")
	if _, err := u.Index(); err != nil {
		t.Errorf("valid topology: %v", err)
	}
}

func TestSpeciesMoleFlowRate(t *testing.T) {
	u := NewUnitOperation()
	for _, f := range []string{"CH4", "O2"} {
		if err := u.AddGasSpecies(f, f); err != nil {
			t.Fatal(err)
		}
	}
	flows := NewFlowBoundary(1, "flows")
	flows.Gas.EnableConstMassFractions(false)
	flows.Gas.PutSpeciesFlow(0, 16)
	flows.Gas.PutSpeciesFlow(1, 32)
	u.AddInletBoundary(flows)

	fractions := NewFlowBoundary(2, "fractions")
	fractions.Gas.TotalMassFlow.SetAll(48)
	fractions.Gas.PutSpeciesFlow(0, 1./3)
	fractions.Gas.PutSpeciesFlow(1, 2./3)
	u.AddInletBoundary(fractions)
	u.AddOutletFlowBoundary(3, "out", true, false)

	ix, err := u.Index()
	if err != nil {
		t.Fatal(err)
	}
	both := ix.SpeciesMoleFlowRate(Inlet)
	u.Inlets = u.Inlets[:1]
	ix, err = u.Index()
	if err != nil {
		t.Fatal(err)
	}
	one := ix.SpeciesMoleFlowRate(Inlet)
	for i := range one {
		if different(both[i], 2*one[i], 1.e-12) {
			t.Errorf("species %d: fractions and flows give %g, flows alone %g", i, both[i], one[i])
		}
	}
	if different(one[0], 16/ix.AllSpecies[0].MolecularWeight(), 1.e-12) {
		t.Errorf("CH4: have %g mol/s", one[0])
	}
	ef := ix.ElementMoleFlowRate(Inlet)
	if different(ef[el("O")], 2*one[1], 1.e-12) || different(ef[el("H")], 4*one[0], 1.e-12) {
		t.Errorf("element flows: %v", ef)
	}
	if out := ix.ElementMoleFlowRate(Outlet); out != [NumElements]float64{} {
		t.Errorf("empty outlet has element flow %v", out)
	}
}
