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
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrUnknownElement is returned when a formula contains a symbol that
	// is not in the periodic table.
	ErrUnknownElement = errors.New("unknown element")

	// ErrInvalidCharacter is returned when a formula contains a character
	// that cannot start an element symbol.
	ErrInvalidCharacter = errors.New("invalid character")
)

// FormulaError describes a failure to parse a chemical formula.
type FormulaError struct {
	Formula string
	Pos     int    // byte offset of the offending token
	Token   string // the offending token
	Err     error  // ErrUnknownElement or ErrInvalidCharacter
}

func (e *FormulaError) Error() string {
	return fmt.Sprintf("unitrom: parsing formula %q: %v %q at position %d", e.Formula, e.Err, e.Token, e.Pos)
}

func (e *FormulaError) Unwrap() error { return e.Err }

// Atom is the number of atoms of one element in a species.
// Counts are not required to be whole numbers.
type Atom struct {
	Element Element
	Count   float64
}

// ParseFormula parses a chemical formula such as "CO2" or "CH3OH" into
// its element table and molecular weight [g/mol].
// The second letter of a two-letter symbol must be lower case,
// so "SI" is sulfur and iodine while "Si" is silicon.
// Scanning stops without error at '+', '-', or '(' so that ionic notations
// such as "CO3-2" parse as their flat element list.
// Repeated elements are merged in order of first appearance.
// If parsing fails, the atoms read before the failure are returned along
// with a *FormulaError.
func ParseFormula(formula string) ([]Atom, float64, error) {
	var atoms []Atom
	i := 0
	for i < len(formula) {
		c := rune(formula[i])
		if c == '+' || c == '-' || c == '(' {
			break
		}
		if !(c < unicode.MaxASCII && unicode.IsUpper(c)) {
			return merge(atoms), molecularWeight(atoms), &FormulaError{
				Formula: formula, Pos: i, Token: string(c), Err: ErrInvalidCharacter,
			}
		}
		start := i
		i++
		if i < len(formula) && formula[i] >= 'a' && formula[i] <= 'z' {
			i++
		}
		symbol := formula[start:i]
		e, ok := LookupElement(symbol)
		if !ok {
			return merge(atoms), molecularWeight(atoms), &FormulaError{
				Formula: formula, Pos: start, Token: symbol, Err: ErrUnknownElement,
			}
		}
		countStart := i
		for i < len(formula) && (formula[i] >= '0' && formula[i] <= '9' || formula[i] == '.') {
			i++
		}
		count := 1.
		if i > countStart {
			var err error
			count, err = strconv.ParseFloat(formula[countStart:i], 64)
			if err != nil {
				return merge(atoms), molecularWeight(atoms), &FormulaError{
					Formula: formula, Pos: countStart, Token: formula[countStart:i], Err: ErrInvalidCharacter,
				}
			}
		}
		atoms = append(atoms, Atom{Element: e, Count: count})
	}
	atoms = merge(atoms)
	return atoms, molecularWeight(atoms), nil
}

// merge combines repeated elements, keeping the position of the
// first occurrence.
func merge(atoms []Atom) []Atom {
	var o []Atom
	for _, a := range atoms {
		found := false
		for j := range o {
			if o[j].Element == a.Element {
				o[j].Count += a.Count
				found = true
				break
			}
		}
		if !found {
			o = append(o, a)
		}
	}
	return o
}

func molecularWeight(atoms []Atom) float64 {
	var mw float64
	for _, a := range atoms {
		mw += a.Count * a.Element.AtomicMass()
	}
	return mw
}

// Species is a chemical species identified by its name (for example the
// Aspen component ID) and formula. The element table and molecular
// weight are derived from the formula and are never set independently.
type Species struct {
	name    string
	formula string
	atoms   []Atom
	mw      float64
}

// NewSpecies creates a species with the given name and formula.
// If the formula cannot be parsed, the returned species holds the
// partial element table and the error describes the failure.
func NewSpecies(name, formula string) (*Species, error) {
	s := &Species{name: name}
	err := s.SetFormula(formula)
	return s, err
}

// Name returns the species name.
func (s *Species) Name() string { return s.name }

// Formula returns the species formula.
func (s *Species) Formula() string { return s.formula }

// SetFormula changes the formula of s and re-derives its element table
// and molecular weight.
func (s *Species) SetFormula(formula string) error {
	s.formula = formula
	var err error
	s.atoms, s.mw, err = ParseFormula(formula)
	return err
}

// Atoms returns a copy of the element table of s.
func (s *Species) Atoms() []Atom {
	return append([]Atom(nil), s.atoms...)
}

// MolecularWeight returns the molecular weight of s [g/mol].
func (s *Species) MolecularWeight() float64 { return s.mw }

// Contains returns whether s contains element e.
func (s *Species) Contains(e Element) bool {
	for _, a := range s.atoms {
		if a.Element == e {
			return true
		}
	}
	return false
}

// Count returns the number of atoms of e in s.
func (s *Species) Count(e Element) float64 {
	for _, a := range s.atoms {
		if a.Element == e {
			return a.Count
		}
	}
	return 0
}

// Equal returns whether s and o have the same name and formula,
// ignoring case.
func (s *Species) Equal(o *Species) bool {
	if s == nil || o == nil {
		return s == o
	}
	return strings.EqualFold(s.name, o.name) && strings.EqualFold(s.formula, o.formula)
}

func (s *Species) String() string {
	if strings.EqualFold(s.name, s.formula) {
		return s.name
	}
	return s.name + " (" + s.formula + ")"
}
