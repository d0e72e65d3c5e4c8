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

// Package unitrom models a unit operation such as a gasifier as a set of
// inlet and outlet flow boundaries carrying gas and solid species, and
// corrects reduced-order-model (ROM) or CFD predictions of its outlet
// flows so that every chemical element entering the unit leaves it.
package unitrom

import (
	"fmt"
	"strings"
)

// Version gives the version number.
const Version = "0.1.0"

// RegressionMethod is the kind of regression used to build the ROM.
// It is carried for exporters; no regression is performed here.
type RegressionMethod int

const (
	Kriging RegressionMethod = iota
	ANN
)

func (r RegressionMethod) String() string {
	switch r {
	case Kriging:
		return "KRIGING"
	case ANN:
		return "ANN"
	default:
		return fmt.Sprintf("RegressionMethod(%d)", int(r))
	}
}

// ParseRegressionMethod returns the regression method named by s,
// ignoring case. An empty string means Kriging.
func ParseRegressionMethod(s string) (RegressionMethod, error) {
	switch strings.ToUpper(s) {
	case "KRIGING", "":
		return Kriging, nil
	case "ANN":
		return ANN, nil
	default:
		return Kriging, fmt.Errorf("unitrom: invalid regression method %q", s)
	}
}

// UnitOperation is a unit operation with its species catalogs, flow
// boundaries, and free-standing model parameters.
//
// A UnitOperation is not safe for concurrent use. Use Clone to give each
// goroutine its own copy.
type UnitOperation struct {
	Name             string
	RegressionMethod RegressionMethod

	// NSample is the number of high-fidelity cases to sample.
	NSample int

	// LowerTolerance and UpperTolerance are the relative tolerances
	// of fixed feed port variables in exported models.
	LowerTolerance, UpperTolerance float64

	GasSpecies []*Species

	// SolidSpecies holds the species catalog of each solid phase.
	// SolidPhases and SolidTypes give the name and type of each phase.
	SolidSpecies [][]*Species
	SolidPhases  []string
	SolidTypes   []SolidType

	Inlets  []*FlowBoundary
	Outlets []*FlowBoundary

	// Inputs are model inputs other than inlet conditions, such as
	// wall boundary conditions. Outputs are model results other than
	// outlet conditions.
	Inputs  []Parameter
	Outputs []Parameter

	romInputs, romOutputs []ParamKey
}

// NewUnitOperation returns an empty unit operation with default settings.
func NewUnitOperation() *UnitOperation {
	return &UnitOperation{
		Name:             "rom_model",
		RegressionMethod: Kriging,
		NSample:          10,
		LowerTolerance:   0.99,
		UpperTolerance:   1.01,
	}
}

// speciesName returns the catalog name of a species: name in upper case,
// or the upper-cased formula if name is empty.
func speciesName(name, formula string) string {
	if name == "" {
		name = formula
	}
	return strings.ToUpper(name)
}

// AddGasSpecies appends a species to the gas catalog. The name is
// stored in upper case; if it is empty the formula is used.
// The species is added even if its formula fails to parse.
func (u *UnitOperation) AddGasSpecies(name, formula string) error {
	s, err := NewSpecies(speciesName(name, formula), formula)
	u.GasSpecies = append(u.GasSpecies, s)
	return err
}

// SetSolidPhaseCount sets the number of solid phases to n and clears the
// catalog of every phase. Phase names and types are kept for phases that
// remain.
func (u *UnitOperation) SetSolidPhaseCount(n int) {
	u.SolidSpecies = make([][]*Species, n)
	for len(u.SolidPhases) < n {
		u.SolidPhases = append(u.SolidPhases, fmt.Sprintf("Solid%d", len(u.SolidPhases)))
	}
	for len(u.SolidTypes) < n {
		u.SolidTypes = append(u.SolidTypes, CISolid)
	}
	u.SolidPhases = u.SolidPhases[:n]
	u.SolidTypes = u.SolidTypes[:n]
}

// AddSolidSpecies appends a species to the catalog of solid phase
// phase, which must be less than the count given to SetSolidPhaseCount.
func (u *UnitOperation) AddSolidSpecies(phase int, name, formula string) error {
	if phase < 0 || phase >= len(u.SolidSpecies) {
		return fmt.Errorf("unitrom: solid phase %d out of range [0, %d)", phase, len(u.SolidSpecies))
	}
	s, err := NewSpecies(speciesName(name, formula), formula)
	u.SolidSpecies[phase] = append(u.SolidSpecies[phase], s)
	return err
}

// AddInletBoundary appends b to the inlet boundaries and assigns the
// aliases of its parameters.
func (u *UnitOperation) AddInletBoundary(b *FlowBoundary) {
	b.SetAliases()
	u.Inlets = append(u.Inlets, b)
}

// AddOutletFlowBoundary appends an outlet boundary carrying the requested
// phases. Each mixture holds a zero variable flow for every species in
// the catalog of its phase, so a multiphase outlet carries every species.
// It returns nil and adds nothing if neither phase is present.
func (u *UnitOperation) AddOutletFlowBoundary(index int, name string, hasGasPhase, hasSolidPhase bool) *FlowBoundary {
	if !hasGasPhase && !hasSolidPhase {
		return nil
	}
	b := NewFlowBoundary(index, name)
	b.HasGasPhase = hasGasPhase
	b.HasSolidPhase = hasSolidPhase
	if hasGasPhase {
		b.Gas.EnableConstMassFractions(false)
		for i := range u.GasSpecies {
			b.Gas.PutSpeciesFlow(i, 0)
		}
	}
	if hasSolidPhase {
		for p, catalog := range u.SolidSpecies {
			m := NewSolidMixture(p, u.solidType(p))
			m.EnableConstMassFractions(false)
			for i := range catalog {
				m.PutSpeciesFlow(i, 0)
			}
			b.Solids = append(b.Solids, m)
		}
	}
	b.SetAliases()
	u.Outlets = append(u.Outlets, b)
	return b
}

func (u *UnitOperation) solidType(phase int) SolidType {
	if phase < len(u.SolidTypes) {
		return u.SolidTypes[phase]
	}
	return CISolid
}

// AddInputParameter appends a free-standing model input.
func (u *UnitOperation) AddInputParameter(p Parameter) {
	u.Inputs = append(u.Inputs, p)
}

// AddOutputParameter appends a free-standing model output.
func (u *UnitOperation) AddOutputParameter(p Parameter) {
	u.Outputs = append(u.Outputs, p)
}

// AllInputParameters returns the address of every parameter a user could
// set as a model input: all inlet parameters followed by all
// free-standing inputs.
func (u *UnitOperation) AllInputParameters() []ParamKey {
	var keys []ParamKey
	for i, b := range u.Inlets {
		keys = b.appendKeys(keys, Inlet, i, selectAll)
	}
	for i := range u.Inputs {
		keys = append(keys, ParamKey{Side: FreeInput, Boundary: i, Field: Free})
	}
	return keys
}

// CheckNCSolids checks the catalog of every non-conventional solid
// phase and returns a description of each problem found.
func (u *UnitOperation) CheckNCSolids() []string {
	var problems []string
	for p, catalog := range u.SolidSpecies {
		if u.solidType(p) != NC {
			continue
		}
		for _, msg := range CheckNCSpecies(catalog) {
			problems = append(problems, fmt.Sprintf("solid phase %d: %s", p, msg))
		}
	}
	return problems
}

// Clone returns a copy of u whose parameter values can be changed
// without affecting u. Species are immutable once cataloged and are
// shared between u and the copy.
func (u *UnitOperation) Clone() *UnitOperation {
	o := *u
	o.GasSpecies = append([]*Species(nil), u.GasSpecies...)
	o.SolidSpecies = make([][]*Species, len(u.SolidSpecies))
	for i, c := range u.SolidSpecies {
		o.SolidSpecies[i] = append([]*Species(nil), c...)
	}
	o.SolidPhases = append([]string(nil), u.SolidPhases...)
	o.SolidTypes = append([]SolidType(nil), u.SolidTypes...)
	o.Inlets = cloneBoundaries(u.Inlets)
	o.Outlets = cloneBoundaries(u.Outlets)
	o.Inputs = append([]Parameter(nil), u.Inputs...)
	o.Outputs = append([]Parameter(nil), u.Outputs...)
	o.romInputs = append([]ParamKey(nil), u.romInputs...)
	o.romOutputs = append([]ParamKey(nil), u.romOutputs...)
	return &o
}

func cloneBoundaries(bs []*FlowBoundary) []*FlowBoundary {
	o := make([]*FlowBoundary, len(bs))
	for i, b := range bs {
		o[i] = b.clone()
	}
	return o
}
