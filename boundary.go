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
	"strconv"
	"strings"
)

// maxBoundaryNameLength is the longest boundary name that exported
// model port names can hold.
const maxBoundaryNameLength = 15

// NormalizeBoundaryName removes underscores and hyphens from name and
// truncates it to 15 characters.
func NormalizeBoundaryName(name string) string {
	name = strings.NewReplacer("_", "", "-", "").Replace(name)
	if len(name) > maxBoundaryNameLength {
		name = name[:maxBoundaryNameLength]
	}
	return name
}

// FlowBoundary is an inlet or outlet of a unit operation.
type FlowBoundary struct {
	// Index is the boundary index in the CFD model.
	Index int
	Name  string

	HasGasPhase   bool
	HasSolidPhase bool

	// Gas is the gas mixture. It must be non-nil when HasGasPhase is true.
	Gas *Mixture

	// Solids holds one mixture per solid phase present at the boundary.
	Solids []*Mixture
}

// NewFlowBoundary returns a boundary with an empty gas mixture and
// no solid mixtures.
func NewFlowBoundary(index int, name string) *FlowBoundary {
	return &FlowBoundary{
		Index:       index,
		Name:        name,
		HasGasPhase: true,
		Gas:         NewGasMixture(),
	}
}

// mixtures calls f for each active mixture of b. pos is 0 for the gas
// mixture and i+1 for b.Solids[i].
func (b *FlowBoundary) mixtures(f func(pos int, m *Mixture)) {
	if b.HasGasPhase && b.Gas != nil {
		f(0, b.Gas)
	}
	if b.HasSolidPhase {
		for i, m := range b.Solids {
			f(i+1, m)
		}
	}
}

// Mixture returns the mixture at position pos: 0 for the gas mixture
// and i+1 for solid mixture i. It returns nil if there is none.
func (b *FlowBoundary) Mixture(pos int) *Mixture {
	if pos == 0 {
		return b.Gas
	}
	if pos < 1 || pos > len(b.Solids) {
		return nil
	}
	return b.Solids[pos-1]
}

// SetAliases assigns each mixture of b the alias "<name>GP" for the gas
// phase and "<name>SP<phase>" for solid phases.
func (b *FlowBoundary) SetAliases() {
	if b.Gas != nil {
		b.Gas.SetAliases(b.Name + "GP")
	}
	for _, m := range b.Solids {
		m.SetAliases(b.Name + "SP" + strconv.Itoa(m.Solid.PhaseIndex))
	}
}

func (b *FlowBoundary) appendKeys(keys []ParamKey, side Side, pos int, sel selection) []ParamKey {
	b.mixtures(func(mix int, m *Mixture) {
		keys = m.appendKeys(keys, ParamKey{Side: side, Boundary: pos, Mixture: mix}, sel)
	})
	return keys
}

func (b *FlowBoundary) clone() *FlowBoundary {
	o := *b
	if b.Gas != nil {
		o.Gas = b.Gas.clone()
	}
	o.Solids = make([]*Mixture, len(b.Solids))
	for i, m := range b.Solids {
		o.Solids[i] = m.clone()
	}
	return &o
}
