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
	"math"
	"reflect"
	"testing"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func el(symbol string) Element {
	e, ok := LookupElement(symbol)
	if !ok {
		panic(symbol)
	}
	return e
}

func TestParseFormula(t *testing.T) {
	for _, test := range []struct {
		formula string
		atoms   []Atom
		mw      float64
	}{
		{
			formula: "CO2",
			atoms:   []Atom{{el("C"), 1}, {el("O"), 2}},
			mw:      44.01,
		},
		{
			formula: "H2O",
			atoms:   []Atom{{el("H"), 2}, {el("O"), 1}},
			mw:      18.015,
		},
		{
			formula: "CH3OH",
			atoms:   []Atom{{el("C"), 1}, {el("H"), 4}, {el("O"), 1}},
			mw:      32.04,
		},
		{
			formula: "Fe2O3",
			atoms:   []Atom{{el("Fe"), 2}, {el("O"), 3}},
			mw:      159.69,
		},
		{
			formula: "CH1.8O0.5",
			atoms:   []Atom{{el("C"), 1}, {el("H"), 1.8}, {el("O"), 0.5}},
			mw:      21.82,
		},
		{
			formula: "CO3-2",
			atoms:   []Atom{{el("C"), 1}, {el("O"), 3}},
			mw:      60.01,
		},
		{
			formula: "SI",
			atoms:   []Atom{{el("S"), 1}, {el("I"), 1}},
			mw:      158.97,
		},
		{
			formula: "Ah",
			atoms:   []Atom{{Ash, 1}},
			mw:      1,
		},
	} {
		t.Run(test.formula, func(t *testing.T) {
			atoms, mw, err := ParseFormula(test.formula)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(atoms, test.atoms) {
				t.Errorf("atoms: have %v, want %v", atoms, test.atoms)
			}
			if different(mw, test.mw, 1.e-3) {
				t.Errorf("molecular weight: have %g, want %g", mw, test.mw)
			}
		})
	}
}

func TestParseFormulaError(t *testing.T) {
	for _, test := range []struct {
		formula string
		err     error
		pos     int
		atoms   []Atom
	}{
		{formula: "XyZ123", err: ErrUnknownElement, pos: 0},
		{formula: "CO2Xx", err: ErrUnknownElement, pos: 3, atoms: []Atom{{el("C"), 1}, {el("O"), 2}}},
		{formula: "C2 H6", err: ErrInvalidCharacter, pos: 2, atoms: []Atom{{el("C"), 2}}},
		{formula: "h2o", err: ErrInvalidCharacter, pos: 0},
	} {
		t.Run(test.formula, func(t *testing.T) {
			atoms, _, err := ParseFormula(test.formula)
			if !errors.Is(err, test.err) {
				t.Fatalf("error: have %v, want %v", err, test.err)
			}
			var fe *FormulaError
			if !errors.As(err, &fe) {
				t.Fatalf("error %v is not a *FormulaError", err)
			}
			if fe.Pos != test.pos {
				t.Errorf("position: have %d, want %d", fe.Pos, test.pos)
			}
			if !reflect.DeepEqual(atoms, test.atoms) {
				t.Errorf("partial atoms: have %v, want %v", atoms, test.atoms)
			}
		})
	}
}

func TestParseFormulaIdempotent(t *testing.T) {
	s, err := NewSpecies("CH4", "CH4")
	if err != nil {
		t.Fatal(err)
	}
	atoms, mw := s.Atoms(), s.MolecularWeight()
	for i := 0; i < 3; i++ {
		if err := s.SetFormula("CH4"); err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(s.Atoms(), atoms) || s.MolecularWeight() != mw {
			t.Errorf("iteration %d: have %v %g, want %v %g", i, s.Atoms(), s.MolecularWeight(), atoms, mw)
		}
	}
	if err := s.SetFormula("C2H6"); err != nil {
		t.Fatal(err)
	}
	if s.Count(el("C")) != 2 || s.Count(el("H")) != 6 {
		t.Errorf("formula change not reflected in atoms: %v", s.Atoms())
	}
}

func TestSpeciesEqual(t *testing.T) {
	a, _ := NewSpecies("CO", "CO")
	b, _ := NewSpecies("co", "Co")
	c, _ := NewSpecies("CO", "CO2")
	if !a.Equal(b) || !b.Equal(a) {
		t.Error("species differing only in case should be equal")
	}
	if a.Equal(c) {
		t.Error("species with different formulas should not be equal")
	}
	if !a.Contains(el("O")) || a.Contains(el("H")) {
		t.Error("Contains is wrong")
	}
}

func TestElementSymbol(t *testing.T) {
	if el("Rn") != 86 {
		t.Errorf("Rn has atomic number %d", el("Rn"))
	}
	if Ash.Symbol() != "Ah" || Ash.AtomicMass() != 1 {
		t.Error("invalid ash pseudo-element")
	}
	if _, ok := LookupElement("Fr"); ok {
		t.Error("elements past radon should not be found")
	}
}
