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

	"github.com/ctessum/unit"
)

// Alias is a name together with an optional alias that qualifies it,
// typically the boundary and phase the named quantity belongs to.
type Alias struct {
	Name  string
	Alias string
}

// FullName returns the name joined to the alias with an underscore,
// or just the name if there is no alias.
func (a Alias) FullName() string {
	if a.Alias == "" {
		return a.Name
	}
	return a.Name + "_" + a.Alias
}

// Parameter is a named scalar with bounds. When Varied is false the
// convention is Min == Max == Default, but this is not enforced.
type Parameter struct {
	Alias
	Varied  bool
	Default float64
	Min     float64
	Max     float64
}

// NewParameter returns an unvaried parameter with all values set to v.
func NewParameter(name string, v float64) Parameter {
	p := Parameter{Alias: Alias{Name: name}}
	p.SetAll(v)
	return p
}

// SetAll sets the default, minimum, and maximum values of p to v.
func (p *Parameter) SetAll(v float64) {
	p.Default = v
	p.Min = v
	p.Max = v
}

// SetRange marks p as varied between min and max.
func (p *Parameter) SetRange(v, min, max float64) {
	p.Varied = true
	p.Default = v
	p.Min = min
	p.Max = max
}

// Field identifies which quantity of a mixture, or which free-standing
// model parameter, a Parameter represents.
type Field int

// These are the fields a ParamKey can address.
const (
	Pressure Field = iota
	Temperature
	VolumeFraction
	Diameter
	Density
	GranularTemperature
	VolatileMatter
	TotalMassFlow
	SpeciesFlow
	Free
)

var fieldNames = [...]string{
	Pressure:            "Pressure",
	Temperature:         "Temperature",
	VolumeFraction:      "VolumeFraction",
	Diameter:            "Diameter",
	Density:             "Density",
	GranularTemperature: "GranularTemperature",
	VolatileMatter:      "VM",
	TotalMassFlow:       "TotalMassFlow",
	SpeciesFlow:         "SpeciesFlow",
	Free:                "Free",
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

var (
	kilogramPerSecond = unit.Dimensions{unit.MassDim: 1, unit.TimeDim: -1}
	meter2PerSecond2  = unit.Dimensions{unit.LengthDim: 2, unit.TimeDim: -2}
)

// Dimensions returns the SI dimensions of values of field f.
// Species flows are mass flow rates here; in a mixture with constant
// mass fractions they are dimensionless fractions instead, which
// (*Mixture).Dimensions accounts for. Free parameters have no fixed
// dimensions and are reported as dimensionless.
func (f Field) Dimensions() unit.Dimensions {
	switch f {
	case Pressure:
		return unit.Pascal
	case Temperature:
		return unit.Kelvin
	case Diameter:
		return unit.Meter
	case Density:
		return unit.KilogramPerMeter3
	case GranularTemperature:
		return meter2PerSecond2
	case TotalMassFlow, SpeciesFlow:
		return kilogramPerSecond
	default:
		return unit.Dimless
	}
}

// Quantity returns the default value of p as a dimensioned quantity.
func (p Parameter) Quantity(d unit.Dimensions) *unit.Unit {
	return unit.New(p.Default, d)
}
