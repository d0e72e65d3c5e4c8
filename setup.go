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
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// SetupFormat returns the setup document format implied by the
// extension of path: "json", "toml", or "yaml".
func SetupFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json", nil
	case ".toml":
		return "toml", nil
	case ".yaml", ".yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("unitrom: can't determine setup format of %s", path)
	}
}

// setupDoc is the layout of a setup document. Field names match the
// JSON documents written by the iREVEAL setup GUI.
type setupDoc struct {
	Name                string         `json:"name" toml:"name" yaml:"name"`
	RegMethod           string         `json:"regMethod" toml:"regMethod" yaml:"regMethod"`
	NSample             int            `json:"nSample" toml:"nSample" yaml:"nSample"`
	GasSpeciesList      []speciesDoc   `json:"gasSpeciesList" toml:"gasSpeciesList" yaml:"gasSpeciesList"`
	SolidSpeciesList    [][]speciesDoc `json:"solidSpeciesList" toml:"solidSpeciesList" yaml:"solidSpeciesList"`
	SolidPhaseList      []string       `json:"solidPhaseList" toml:"solidPhaseList" yaml:"solidPhaseList"`
	SolidPhaseTypeList  []int          `json:"solidPhaseTypeList" toml:"solidPhaseTypeList" yaml:"solidPhaseTypeList"`
	InletBoundaryList   []boundaryDoc  `json:"inletBoundaryList" toml:"inletBoundaryList" yaml:"inletBoundaryList"`
	OutletBoundaryList  []boundaryDoc  `json:"outletBoundaryList" toml:"outletBoundaryList" yaml:"outletBoundaryList"`
	InputParameterList  []parameterDoc `json:"inputParameterList" toml:"inputParameterList" yaml:"inputParameterList"`
	OutputParameterList []parameterDoc `json:"outputParameterList" toml:"outputParameterList" yaml:"outputParameterList"`
}

type speciesDoc struct {
	Name    string `json:"name" toml:"name" yaml:"name"`
	Formula string `json:"formula" toml:"formula" yaml:"formula"`
}

type parameterDoc struct {
	Name         string  `json:"name" toml:"name" yaml:"name"`
	IsVaried     bool    `json:"isVaried" toml:"isVaried" yaml:"isVaried"`
	DefaultValue float64 `json:"defaultValue" toml:"defaultValue" yaml:"defaultValue"`
	MinValue     float64 `json:"minValue" toml:"minValue" yaml:"minValue"`
	MaxValue     float64 `json:"maxValue" toml:"maxValue" yaml:"maxValue"`
}

type boundaryDoc struct {
	HasGasPhase   bool         `json:"hasGasPhase" toml:"hasGasPhase" yaml:"hasGasPhase"`
	HasSolidPhase bool         `json:"hasSolidPhase" toml:"hasSolidPhase" yaml:"hasSolidPhase"`
	BoundaryIndex int          `json:"boundaryIndex" toml:"boundaryIndex" yaml:"boundaryIndex"`
	BoundaryName  string       `json:"boundaryName" toml:"boundaryName" yaml:"boundaryName"`
	GasMixture    []mixtureDoc `json:"gasMixture" toml:"gasMixture" yaml:"gasMixture"`
	SolidMixtures []mixtureDoc `json:"solidMixtures" toml:"solidMixtures" yaml:"solidMixtures"`
}

// mixtureDoc holds a gas or solid mixture. The solid-only fields are
// ignored for gas mixtures. Missing parameters keep their defaults.
type mixtureDoc struct {
	HasConstMassFractions bool                    `json:"hasConstMassFractions" toml:"hasConstMassFractions" yaml:"hasConstMassFractions"`
	TotalMassFlow         *parameterDoc           `json:"totalMassFlow" toml:"totalMassFlow" yaml:"totalMassFlow"`
	SpeciesFlowMap        map[string]parameterDoc `json:"speciesFlowMap" toml:"speciesFlowMap" yaml:"speciesFlowMap"`
	Pressure              *parameterDoc           `json:"pressure" toml:"pressure" yaml:"pressure"`
	Temperature           *parameterDoc           `json:"temperature" toml:"temperature" yaml:"temperature"`
	VolumeFraction        *parameterDoc           `json:"volumeFraction" toml:"volumeFraction" yaml:"volumeFraction"`

	PhaseIndex             int           `json:"phaseIndex" toml:"phaseIndex" yaml:"phaseIndex"`
	SolidType              int           `json:"solidType" toml:"solidType" yaml:"solidType"`
	IsGranularEnergySolved bool          `json:"isGranularEnergySolved" toml:"isGranularEnergySolved" yaml:"isGranularEnergySolved"`
	Diameter               *parameterDoc `json:"diameter" toml:"diameter" yaml:"diameter"`
	Density                *parameterDoc `json:"density" toml:"density" yaml:"density"`
	GranularTemperature    *parameterDoc `json:"granularTemperature" toml:"granularTemperature" yaml:"granularTemperature"`
	VM                     *parameterDoc `json:"vm" toml:"vm" yaml:"vm"`
}

func (d parameterDoc) parameter() Parameter {
	return Parameter{
		Alias:   Alias{Name: d.Name},
		Varied:  d.IsVaried,
		Default: d.DefaultValue,
		Min:     d.MinValue,
		Max:     d.MaxValue,
	}
}

// apply overwrites p with d if d is present, keeping the name of p if
// d has none.
func (d *parameterDoc) apply(p *Parameter) {
	if d == nil {
		return
	}
	name := p.Name
	*p = d.parameter()
	if p.Name == "" {
		p.Name = name
	}
}

// LoadSetup reads a unit operation setup document in the given format
// ("json", "toml", or "yaml"). Species names are converted to upper case,
// boundary names are normalized with NormalizeBoundaryName, mixture
// parameters are given boundary and phase aliases, and the ROM vectors
// are built. Catalog problems found by CheckNCSolids are not errors; the
// caller may report them.
func LoadSetup(r io.Reader, format string) (*UnitOperation, error) {
	var doc setupDoc
	var err error
	switch strings.ToLower(format) {
	case "json":
		err = json.NewDecoder(r).Decode(&doc)
	case "toml":
		_, err = toml.DecodeReader(r, &doc)
	case "yaml", "yml":
		err = yaml.NewDecoder(r).Decode(&doc)
	default:
		return nil, fmt.Errorf("unitrom: invalid setup format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("unitrom: decoding %s setup: %v", format, err)
	}
	return doc.unitOperation()
}

func (doc *setupDoc) unitOperation() (*UnitOperation, error) {
	u := NewUnitOperation()
	if doc.Name != "" {
		u.Name = doc.Name
	}
	var err error
	if u.RegressionMethod, err = ParseRegressionMethod(doc.RegMethod); err != nil {
		return nil, err
	}
	if doc.NSample > 0 {
		u.NSample = doc.NSample
	}

	for _, s := range doc.GasSpeciesList {
		if err := u.AddGasSpecies(s.Name, s.Formula); err != nil {
			return nil, fmt.Errorf("unitrom: gas species %s: %w", s.Name, err)
		}
	}
	u.SetSolidPhaseCount(len(doc.SolidSpeciesList))
	for p, catalog := range doc.SolidSpeciesList {
		for _, s := range catalog {
			if err := u.AddSolidSpecies(p, s.Name, s.Formula); err != nil {
				return nil, fmt.Errorf("unitrom: solid phase %d species %s: %w", p, s.Name, err)
			}
		}
	}
	for p := range u.SolidSpecies {
		if p < len(doc.SolidPhaseList) {
			u.SolidPhases[p] = doc.SolidPhaseList[p]
		}
		if p < len(doc.SolidPhaseTypeList) {
			u.SolidTypes[p] = SolidType(doc.SolidPhaseTypeList[p])
		}
	}

	for _, bd := range doc.InletBoundaryList {
		b, err := bd.boundary()
		if err != nil {
			return nil, err
		}
		u.AddInletBoundary(b)
	}
	for _, bd := range doc.OutletBoundaryList {
		b, err := bd.boundary()
		if err != nil {
			return nil, err
		}
		b.SetAliases()
		u.Outlets = append(u.Outlets, b)
	}
	for _, p := range doc.InputParameterList {
		u.AddInputParameter(p.parameter())
	}
	for _, p := range doc.OutputParameterList {
		u.AddOutputParameter(p.parameter())
	}
	u.UpdateROMVectors()
	return u, nil
}

func (bd *boundaryDoc) boundary() (*FlowBoundary, error) {
	b := &FlowBoundary{
		Index:         bd.BoundaryIndex,
		Name:          NormalizeBoundaryName(bd.BoundaryName),
		HasGasPhase:   bd.HasGasPhase,
		HasSolidPhase: bd.HasSolidPhase,
	}
	if len(bd.GasMixture) > 0 {
		b.Gas = NewGasMixture()
		if err := bd.GasMixture[0].apply(b.Gas); err != nil {
			return nil, fmt.Errorf("unitrom: boundary %s gas mixture: %v", b.Name, err)
		}
	}
	for i, md := range bd.SolidMixtures {
		m := NewSolidMixture(md.PhaseIndex, SolidType(md.SolidType))
		if err := md.apply(m); err != nil {
			return nil, fmt.Errorf("unitrom: boundary %s solid mixture %d: %v", b.Name, i, err)
		}
		b.Solids = append(b.Solids, m)
	}
	return b, nil
}

func (md *mixtureDoc) apply(m *Mixture) error {
	md.TotalMassFlow.apply(&m.TotalMassFlow)
	md.Pressure.apply(&m.Pressure)
	md.Temperature.apply(&m.Temperature)
	md.VolumeFraction.apply(&m.VolumeFraction)
	for key, pd := range md.SpeciesFlowMap {
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid species index %q", key)
		}
		p := NewParameter(speciesFlowName(i), 0)
		pd := pd
		pd.apply(&p)
		m.PutFlow(i, p)
	}
	if m.Solid != nil {
		m.Solid.GranularEnergySolved = md.IsGranularEnergySolved
		md.Diameter.apply(&m.Solid.Diameter)
		md.Density.apply(&m.Solid.Density)
		md.GranularTemperature.apply(&m.Solid.GranularTemperature)
		md.VM.apply(&m.Solid.VolatileMatter)
	}
	m.EnableConstMassFractions(md.HasConstMassFractions)
	m.EnableGranularEnergy(md.IsGranularEnergySolved)
	return nil
}
