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
	"fmt"
	"sort"
	"strings"

	"github.com/ctessum/unit"
)

// Phase is the phase a Mixture belongs to.
type Phase int

const (
	// GasPhase is the continuous gas phase.
	GasPhase Phase = iota
	// SolidPhase is a dispersed solid phase.
	SolidPhase
)

func (p Phase) String() string {
	switch p {
	case GasPhase:
		return "gas"
	case SolidPhase:
		return "solid"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// SolidType is the kind of solid making up a solid phase.
type SolidType int

// The solid types. Their values match the integer codes used in
// setup documents.
const (
	CISolid SolidType = iota // conventional inert solid
	NC                       // non-conventional solid such as coal
	CIPSD                    // conventional solid with a particle size distribution
	NCPSD                    // non-conventional solid with a particle size distribution
)

func (t SolidType) String() string {
	switch t {
	case CISolid:
		return "CISOLID"
	case NC:
		return "NC"
	case CIPSD:
		return "CIPSD"
	case NCPSD:
		return "NCPSD"
	default:
		return fmt.Sprintf("SolidType(%d)", int(t))
	}
}

// NCSpecies is a position in the fixed species list of a
// non-conventional solid phase.
type NCSpecies int

// The species of a non-conventional solid, in the order they must
// appear in the phase catalog.
const (
	NCCarbon NCSpecies = iota
	NCHydrogen
	NCNitrogen
	NCChlorine
	NCSulfur
	NCOxygen
	NCAsh
	NCMoisture
	numNCSpecies
)

var ncFormulas = [numNCSpecies]string{"C", "H", "N", "Cl", "S", "O", "Ah", "H2O"}

// Formula returns the formula expected for s.
func (s NCSpecies) Formula() string { return ncFormulas[s] }

// CheckNCSpecies checks that catalog is a valid species list for a
// non-conventional solid phase and returns a description of each problem
// found. A nil return means the catalog is valid.
func CheckNCSpecies(catalog []*Species) []string {
	var problems []string
	if len(catalog) != int(numNCSpecies) {
		problems = append(problems, fmt.Sprintf("NC solid has %d species rather than %d", len(catalog), numNCSpecies))
	}
	for s := NCCarbon; s < numNCSpecies && int(s) < len(catalog); s++ {
		if !strings.EqualFold(catalog[s].Formula(), s.Formula()) {
			problems = append(problems, fmt.Sprintf("NC solid species %d is %s rather than %s",
				int(s), catalog[s].Formula(), s.Formula()))
		}
	}
	return problems
}

// SolidAttrs holds the attributes only a solid mixture has.
type SolidAttrs struct {
	PhaseIndex           int
	Type                 SolidType
	GranularEnergySolved bool

	Diameter            Parameter // particle diameter [m]
	Density             Parameter // particle density [kg/m³]
	GranularTemperature Parameter // used only when GranularEnergySolved
	VolatileMatter      Parameter // dry volatile matter [%], used only when Type is NC
}

// FlowRecord is the flow record of one species in a mixture. Species
// is the index of the species in the catalog of the mixture's phase.
type FlowRecord struct {
	Species int
	Parameter
}

// Mixture is the gas mixture or one solid-phase mixture of a flow
// boundary. When ConstMassFractions is true the species flow values are
// mass fractions of TotalMassFlow; otherwise they are mass flow rates and
// TotalMassFlow is derived from them.
type Mixture struct {
	Phase              Phase
	ConstMassFractions bool
	TotalMassFlow      Parameter

	// Flows is kept sorted by species index.
	Flows []FlowRecord

	Pressure       Parameter
	Temperature    Parameter
	VolumeFraction Parameter

	// Solid is nil for a gas mixture.
	Solid *SolidAttrs
}

// NewGasMixture returns a gas mixture at ambient conditions with
// constant mass fractions and no species.
func NewGasMixture() *Mixture {
	return &Mixture{
		Phase:              GasPhase,
		ConstMassFractions: true,
		TotalMassFlow:      NewParameter("TotalMassFlow", 0),
		Pressure:           NewParameter("Pressure", 101325),
		Temperature:        NewParameter("Temperature", 298.15),
		VolumeFraction:     NewParameter("VolumeFraction", 1),
	}
}

// NewSolidMixture returns a mixture for solid phase phaseIndex at ambient
// conditions with constant mass fractions and no species.
func NewSolidMixture(phaseIndex int, t SolidType) *Mixture {
	return &Mixture{
		Phase:              SolidPhase,
		ConstMassFractions: true,
		TotalMassFlow:      NewParameter("TotalMassFlow", 0),
		Pressure:           NewParameter("Pressure", 101325),
		Temperature:        NewParameter("Temperature", 298.15),
		VolumeFraction:     NewParameter("VolumeFraction", 0.1),
		Solid: &SolidAttrs{
			PhaseIndex:          phaseIndex,
			Type:                t,
			Diameter:            NewParameter("Diameter", 1e-4),
			Density:             NewParameter("Density", 1000),
			GranularTemperature: NewParameter("GranularTemperature", 0),
			VolatileMatter:      NewParameter("VM", 40),
		},
	}
}

func speciesFlowName(i int) string {
	return fmt.Sprintf("Species_%d_MassFlow", i)
}

// find returns the position of species i in m.Flows and whether it
// is present.
func (m *Mixture) find(i int) (int, bool) {
	j := sort.Search(len(m.Flows), func(j int) bool { return m.Flows[j].Species >= i })
	return j, j < len(m.Flows) && m.Flows[j].Species == i
}

// PutFlow inserts or replaces the flow record for species i.
func (m *Mixture) PutFlow(i int, p Parameter) {
	j, ok := m.find(i)
	if ok {
		m.Flows[j].Parameter = p
		return
	}
	m.Flows = append(m.Flows, FlowRecord{})
	copy(m.Flows[j+1:], m.Flows[j:])
	m.Flows[j] = FlowRecord{Species: i, Parameter: p}
}

// PutSpeciesFlow sets the flow of species i to the fixed value v.
func (m *Mixture) PutSpeciesFlow(i int, v float64) {
	p := NewParameter(speciesFlowName(i), v)
	if j, ok := m.find(i); ok {
		p.Alias.Alias = m.Flows[j].Alias.Alias
	}
	m.PutFlow(i, p)
}

// PutVariedSpeciesFlow sets the flow of species i to v and marks it as
// varied between min and max.
func (m *Mixture) PutVariedSpeciesFlow(i int, v, min, max float64) {
	p := Parameter{Alias: Alias{Name: speciesFlowName(i)}}
	if j, ok := m.find(i); ok {
		p.Alias.Alias = m.Flows[j].Alias.Alias
	}
	p.SetRange(v, min, max)
	m.PutFlow(i, p)
}

// Flow returns the flow record of species i, or nil if the mixture
// has none.
func (m *Mixture) Flow(i int) *Parameter {
	if j, ok := m.find(i); ok {
		return &m.Flows[j].Parameter
	}
	return nil
}

// EnableConstMassFractions switches m between mass fraction and mass
// flow rate representations. Mass fractions are never varied, so
// enabling them clears the Varied flag of every species flow.
func (m *Mixture) EnableConstMassFractions(b bool) {
	m.ConstMassFractions = b
	if b {
		for i := range m.Flows {
			m.Flows[i].Varied = false
		}
	}
}

// EnableGranularEnergy sets whether the granular energy equation is
// solved for a solid mixture. It has no effect on a gas mixture.
func (m *Mixture) EnableGranularEnergy(b bool) {
	if m.Solid == nil {
		return
	}
	m.Solid.GranularEnergySolved = b
	if !b {
		m.Solid.GranularTemperature.Varied = false
	}
}

// CalcTotalMassFlow sets the default total mass flow to the sum of the
// default species flows.
func (m *Mixture) CalcTotalMassFlow() {
	var total float64
	for _, f := range m.Flows {
		total += f.Default
	}
	m.TotalMassFlow.Default = total
}

// NormalizeMassFractions scales the default species values so they sum
// to one. A mixture whose values sum to zero is left unchanged.
func (m *Mixture) NormalizeMassFractions() {
	var sum float64
	for _, f := range m.Flows {
		sum += f.Default
	}
	if sum == 0 {
		return
	}
	for i := range m.Flows {
		m.Flows[i].Default /= sum
	}
}

// settle restores the mixture invariant after species values change:
// fractions are renormalized and flow totals recomputed.
func (m *Mixture) settle() {
	if m.ConstMassFractions {
		m.NormalizeMassFractions()
	} else {
		m.CalcTotalMassFlow()
	}
}

// SetAliases sets the alias of every parameter in m.
func (m *Mixture) SetAliases(alias string) {
	m.TotalMassFlow.Alias.Alias = alias
	for i := range m.Flows {
		m.Flows[i].Alias.Alias = alias
	}
	m.Pressure.Alias.Alias = alias
	m.Temperature.Alias.Alias = alias
	m.VolumeFraction.Alias.Alias = alias
	if s := m.Solid; s != nil {
		s.Diameter.Alias.Alias = alias
		s.Density.Alias.Alias = alias
		s.GranularTemperature.Alias.Alias = alias
		s.VolatileMatter.Alias.Alias = alias
	}
}

// conditionFields returns the phase-condition fields that participate in
// the parameter lists of m, in list order.
func (m *Mixture) conditionFields() []Field {
	fields := []Field{Pressure, Temperature, VolumeFraction}
	if s := m.Solid; s != nil {
		fields = append(fields, Diameter, Density)
		if s.GranularEnergySolved {
			fields = append(fields, GranularTemperature)
		}
		if s.Type == NC {
			fields = append(fields, VolatileMatter)
		}
	}
	return fields
}

// Param returns the parameter of m for field f. species is used only
// for SpeciesFlow.
func (m *Mixture) Param(f Field, species int) (*Parameter, error) {
	switch f {
	case Pressure:
		return &m.Pressure, nil
	case Temperature:
		return &m.Temperature, nil
	case VolumeFraction:
		return &m.VolumeFraction, nil
	case TotalMassFlow:
		return &m.TotalMassFlow, nil
	case SpeciesFlow:
		if p := m.Flow(species); p != nil {
			return p, nil
		}
		return nil, fmt.Errorf("unitrom: %v mixture has no flow for species %d", m.Phase, species)
	}
	if m.Solid != nil {
		switch f {
		case Diameter:
			return &m.Solid.Diameter, nil
		case Density:
			return &m.Solid.Density, nil
		case GranularTemperature:
			return &m.Solid.GranularTemperature, nil
		case VolatileMatter:
			return &m.Solid.VolatileMatter, nil
		}
	}
	return nil, fmt.Errorf("unitrom: %v mixture has no field %v", m.Phase, f)
}

// Dimensions returns the dimensions of field f in m.
func (m *Mixture) Dimensions(f Field) unit.Dimensions {
	if f == SpeciesFlow && m.ConstMassFractions {
		return unit.Dimless
	}
	return f.Dimensions()
}

// selection chooses which parameters of a mixture are collected
// into a list.
type selection int

const (
	// selectAll collects every parameter a user could set on an inlet.
	selectAll selection = iota
	// selectVaried collects the varied inlet parameters: the ROM inputs.
	selectVaried
	// selectOutputs collects the outlet parameters a ROM predicts.
	selectOutputs
)

// appendKeys appends to keys the addresses of the parameters of m picked
// by sel, using base for the side, boundary and mixture of each key.
func (m *Mixture) appendKeys(keys []ParamKey, base ParamKey, sel selection) []ParamKey {
	add := func(f Field, species int) {
		k := base
		k.Field = f
		k.Species = species
		keys = append(keys, k)
	}
	for _, f := range m.conditionFields() {
		p, _ := m.Param(f, 0)
		if sel == selectAll || p.Varied {
			add(f, 0)
		}
	}
	switch sel {
	case selectAll:
		if m.ConstMassFractions {
			add(TotalMassFlow, 0)
		}
		for _, sf := range m.Flows {
			add(SpeciesFlow, sf.Species)
		}
	case selectVaried:
		if m.ConstMassFractions {
			if m.TotalMassFlow.Varied {
				add(TotalMassFlow, 0)
			}
		} else {
			for _, sf := range m.Flows {
				if sf.Varied {
					add(SpeciesFlow, sf.Species)
				}
			}
		}
	case selectOutputs:
		for _, sf := range m.Flows {
			add(SpeciesFlow, sf.Species)
		}
	}
	return keys
}

// clone returns a deep copy of m.
func (m *Mixture) clone() *Mixture {
	o := *m
	o.Flows = append([]FlowRecord(nil), m.Flows...)
	if m.Solid != nil {
		s := *m.Solid
		o.Solid = &s
	}
	return &o
}
