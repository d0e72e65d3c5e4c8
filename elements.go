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

import "fmt"

// Element is an atomic number in the periodic table. Element 0 is the
// "Ah" pseudo-element used to track coal ash in non-conventional solids.
type Element int

// Ash is the pseudo-element representing coal ash, with an atomic
// mass of 1.
const Ash Element = 0

// NumElements is the number of elements that can appear in a formula:
// atomic numbers 1 through 86 plus Ash.
const NumElements = 87

// periodicTable holds the symbol and atomic mass [g/mol] of each element,
// indexed by atomic number.
var periodicTable = [NumElements]struct {
	symbol string
	mass   float64
}{
	{"Ah", 1}, {"H", 1.0079}, {"He", 4.0026}, {"Li", 6.939}, {"Be", 9.0122},
	{"B", 10.81}, {"C", 12.01115}, {"N", 14.0067}, {"O", 15.9994}, {"F", 18.9984},
	{"Ne", 20.183}, {"Na", 22.9898}, {"Mg", 24.312}, {"Al", 26.9815}, {"Si", 28.086},
	{"P", 30.9738}, {"S", 32.064}, {"Cl", 35.453}, {"Ar", 39.948}, {"K", 39.098},
	{"Ca", 40.08}, {"Sc", 44.956}, {"Ti", 47.9}, {"V", 50.942}, {"Cr", 51.996},
	{"Mn", 54.938}, {"Fe", 55.847}, {"Co", 58.933}, {"Ni", 58.71}, {"Cu", 63.546},
	{"Zn", 65.38}, {"Ga", 69.72}, {"Ge", 72.59}, {"As", 74.922}, {"Se", 78.96},
	{"Br", 79.904}, {"Kr", 83.8}, {"Rb", 85.47}, {"Sr", 87.62}, {"Y", 88.905},
	{"Zr", 91.22}, {"Nb", 92.906}, {"Mo", 95.94}, {"Tc", 98.0}, {"Ru", 101.07},
	{"Rh", 102.905}, {"Pd", 106.4}, {"Ag", 107.868}, {"Cd", 112.4}, {"In", 114.82},
	{"Sn", 118.69}, {"Sb", 121.75}, {"Te", 127.6}, {"I", 126.904}, {"Xe", 131.3},
	{"Cs", 132.905}, {"Ba", 137.34}, {"La", 138.91}, {"Ce", 140.12}, {"Pr", 140.907},
	{"Nd", 144.24}, {"Pm", 147.0}, {"Sm", 150.35}, {"Eu", 151.96}, {"Gd", 157.25},
	{"Tb", 158.924}, {"Dy", 162.5}, {"Ho", 164.93}, {"Er", 167.26}, {"Tm", 168.934},
	{"Yb", 173.04}, {"Lu", 174.97}, {"Hf", 178.49}, {"Ta", 180.948}, {"W", 183.85},
	{"Re", 186.2}, {"Os", 190.2}, {"Ir", 192.2}, {"Pt", 195.09}, {"Au", 196.967},
	{"Hg", 200.59}, {"Tl", 204.37}, {"Pb", 207.19}, {"Bi", 208.98}, {"Po", 210.0},
	{"At", 210.0}, {"Rn", 222.0},
}

// symbolIndex maps element symbols to atomic numbers.
var symbolIndex map[string]Element

func init() {
	symbolIndex = make(map[string]Element, NumElements)
	for i, e := range periodicTable {
		symbolIndex[e.symbol] = Element(i)
	}
}

// LookupElement returns the element with the given one- or two-letter
// symbol. Symbols are case sensitive: "Si" is silicon, "SI" is not a symbol.
func LookupElement(symbol string) (Element, bool) {
	e, ok := symbolIndex[symbol]
	return e, ok
}

// Symbol returns the chemical symbol of e.
func (e Element) Symbol() string {
	if e < 0 || int(e) >= NumElements {
		return fmt.Sprintf("Element(%d)", int(e))
	}
	return periodicTable[e].symbol
}

func (e Element) String() string { return e.Symbol() }

// AtomicMass returns the atomic mass of e in g/mol.
func (e Element) AtomicMass() float64 {
	return periodicTable[e].mass
}
