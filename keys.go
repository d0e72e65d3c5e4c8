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

	"github.com/ctessum/unit"
)

// ErrVectorLength is returned when a vector does not have exactly one
// value per parameter.
var ErrVectorLength = errors.New("wrong vector length")

// Side is where a parameter lives in a unit operation.
type Side int

const (
	// Inlet parameters belong to a mixture of an inlet boundary.
	Inlet Side = iota
	// Outlet parameters belong to a mixture of an outlet boundary.
	Outlet
	// FreeInput parameters are in the Inputs list.
	FreeInput
	// FreeOutput parameters are in the Outputs list.
	FreeOutput
)

func (s Side) String() string {
	switch s {
	case Inlet:
		return "inlet"
	case Outlet:
		return "outlet"
	case FreeInput:
		return "input"
	case FreeOutput:
		return "output"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// ParamKey addresses one parameter of a unit operation.
type ParamKey struct {
	Side Side

	// Boundary is the position of the boundary in the inlet or outlet
	// list. For free parameters it is the position in the Inputs or
	// Outputs list.
	Boundary int

	// Mixture is 0 for the gas mixture and i+1 for solid mixture i.
	Mixture int

	Field Field

	// Species is the phase-local species index of a SpeciesFlow.
	Species int
}

func (k ParamKey) String() string {
	switch k.Side {
	case FreeInput, FreeOutput:
		return fmt.Sprintf("%v[%d]", k.Side, k.Boundary)
	}
	s := fmt.Sprintf("%v[%d].%d.%v", k.Side, k.Boundary, k.Mixture, k.Field)
	if k.Field == SpeciesFlow {
		s += fmt.Sprintf("[%d]", k.Species)
	}
	return s
}

func (u *UnitOperation) boundaries(s Side) []*FlowBoundary {
	switch s {
	case Inlet:
		return u.Inlets
	case Outlet:
		return u.Outlets
	default:
		return nil
	}
}

// mixture returns the mixture k refers to.
func (u *UnitOperation) mixture(k ParamKey) (*Mixture, error) {
	bs := u.boundaries(k.Side)
	if k.Boundary < 0 || k.Boundary >= len(bs) {
		return nil, fmt.Errorf("unitrom: no boundary for parameter %v", k)
	}
	m := bs[k.Boundary].Mixture(k.Mixture)
	if m == nil {
		return nil, fmt.Errorf("unitrom: no mixture for parameter %v", k)
	}
	return m, nil
}

// Param returns the parameter k refers to. The returned pointer is
// valid until the topology of u changes.
func (u *UnitOperation) Param(k ParamKey) (*Parameter, error) {
	var list []Parameter
	switch k.Side {
	case FreeInput:
		list = u.Inputs
	case FreeOutput:
		list = u.Outputs
	default:
		m, err := u.mixture(k)
		if err != nil {
			return nil, err
		}
		p, err := m.Param(k.Field, k.Species)
		if err != nil {
			return nil, fmt.Errorf("%v (parameter %v)", err, k)
		}
		return p, nil
	}
	if k.Boundary < 0 || k.Boundary >= len(list) {
		return nil, fmt.Errorf("unitrom: no parameter %v", k)
	}
	return &list[k.Boundary], nil
}

// Dimensions returns the dimensions of the parameter k refers to.
func (u *UnitOperation) Dimensions(k ParamKey) (unit.Dimensions, error) {
	switch k.Side {
	case FreeInput, FreeOutput:
		return Free.Dimensions(), nil
	}
	m, err := u.mixture(k)
	if err != nil {
		return nil, err
	}
	return m.Dimensions(k.Field), nil
}

// UpdateROMVectors rebuilds the ROM input and output vectors.
// The input vector holds the varied inlet parameters followed by the
// varied free inputs. The output vector holds, for each outlet mixture,
// its varied conditions and every species flow, followed by all free
// outputs. It must be called again whenever varied flags or the
// boundary topology change.
func (u *UnitOperation) UpdateROMVectors() {
	u.romInputs = u.romInputs[:0]
	for i, b := range u.Inlets {
		u.romInputs = b.appendKeys(u.romInputs, Inlet, i, selectVaried)
	}
	for i, p := range u.Inputs {
		if p.Varied {
			u.romInputs = append(u.romInputs, ParamKey{Side: FreeInput, Boundary: i, Field: Free})
		}
	}
	u.romOutputs = u.romOutputs[:0]
	for i, b := range u.Outlets {
		u.romOutputs = b.appendKeys(u.romOutputs, Outlet, i, selectOutputs)
	}
	for i := range u.Outputs {
		u.romOutputs = append(u.romOutputs, ParamKey{Side: FreeOutput, Boundary: i, Field: Free})
	}
}

// ROMInputs returns the keys of the ROM input vector.
func (u *UnitOperation) ROMInputs() []ParamKey {
	return append([]ParamKey(nil), u.romInputs...)
}

// ROMOutputs returns the keys of the ROM output vector.
func (u *UnitOperation) ROMOutputs() []ParamKey {
	return append([]ParamKey(nil), u.romOutputs...)
}

// SetInputVector sets the default values of the ROM input vector.
// v must have exactly one value per input.
func (u *UnitOperation) SetInputVector(v []float64) error {
	return u.setVector(u.romInputs, v, "input")
}

// SetOutputVector sets the default values of the ROM output vector.
// v must have exactly one value per output.
func (u *UnitOperation) SetOutputVector(v []float64) error {
	return u.setVector(u.romOutputs, v, "output")
}

func (u *UnitOperation) setVector(keys []ParamKey, v []float64, name string) error {
	if len(v) != len(keys) {
		return fmt.Errorf("unitrom: %s vector has %d values but %d are required: %w", name, len(v), len(keys), ErrVectorLength)
	}
	for i, k := range keys {
		p, err := u.Param(k)
		if err != nil {
			return err
		}
		p.Default = v[i]
	}
	return nil
}

// InputVector returns the default values of the ROM input vector.
func (u *UnitOperation) InputVector() ([]float64, error) {
	return u.vector(u.romInputs)
}

// OutputVector returns the default values of the ROM output vector.
func (u *UnitOperation) OutputVector() ([]float64, error) {
	return u.vector(u.romOutputs)
}

func (u *UnitOperation) vector(keys []ParamKey) ([]float64, error) {
	v := make([]float64, len(keys))
	for i, k := range keys {
		p, err := u.Param(k)
		if err != nil {
			return nil, err
		}
		v[i] = p.Default
	}
	return v, nil
}
