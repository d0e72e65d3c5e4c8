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

package romutil

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/unitrom"
)

// Balance corrects the cases in the cases file for the unit operation in
// the setup document and writes them to outputPath in the given format
// ("tsv" or "xlsx"). An empty outputPath means stdout.
func Balance(ctx context.Context, setupPath, casesPath, outputPath, format string, workers int,
	reflection float64, method unitrom.Method, stdout io.Writer) error {

	u, err := loadSetup(ctx, setupPath)
	if err != nil {
		return err
	}
	ix, err := indexSetup(u, reflection, method)
	if err != nil {
		return err
	}
	r, err := openInput(ctx, casesPath)
	if err != nil {
		return err
	}
	groups, err := ReadCases(r, len(u.ROMInputs()), len(u.ROMOutputs()))
	r.Close()
	if err != nil {
		return err
	}

	b := &Batch{Index: ix, Workers: workers, Log: logrus.StandardLogger()}
	if err := b.Run(ctx, groups); err != nil {
		return err
	}

	w, err := createOutput(ctx, outputPath, stdout)
	if err != nil {
		return err
	}
	switch format {
	case "xlsx":
		var names []string
		if names, err = vectorNames(u); err == nil {
			err = WriteXLSX(w, groups, names)
		}
	default:
		err = WriteTSV(w, groups)
	}
	if err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Correct enforces the elemental mass balance on one ROM case read from
// the input vector and output vector files and writes the corrected
// output vector to correctedPath, or stdout if it is empty. If the case
// cannot be corrected, the output vector is still written and the
// error is returned.
func Correct(ctx context.Context, setupPath, invecPath, outvecPath, correctedPath string,
	reflection float64, method unitrom.Method, stdout io.Writer) error {

	u, err := loadSetup(ctx, setupPath)
	if err != nil {
		return err
	}
	ix, err := indexSetup(u, reflection, method)
	if err != nil {
		return err
	}
	for _, v := range []struct {
		path string
		read func(io.Reader) error
	}{
		{path: invecPath, read: u.ReadInputVector},
		{path: outvecPath, read: u.ReadOutputVector},
	} {
		r, err := openInput(ctx, v.path)
		if err != nil {
			return err
		}
		err = v.read(r)
		r.Close()
		if err != nil {
			return fmt.Errorf("romutil: reading %s: %w", v.path, err)
		}
	}

	result, balanceErr := ix.EnforceElementalMassBalance()
	if balanceErr != nil {
		logrus.WithField("error", balanceErr).Warn("romutil: output vector not corrected")
	} else {
		logrus.WithFields(logrus.Fields{
			"method":     result.Method,
			"reflected":  result.Reflected,
			"eliminated": result.Eliminated,
			"imbalance":  imbalance(ix, result.ElementFeed),
		}).Info("romutil: output vector corrected")
	}

	w, err := createOutput(ctx, correctedPath, stdout)
	if err != nil {
		return err
	}
	if err := u.WriteOutputVector(w); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return balanceErr
}

// Sampling writes the sampling file for the unit operation in the setup
// document to samplingPath.
func Sampling(ctx context.Context, setupPath, samplingPath string) error {
	u, err := loadSetup(ctx, setupPath)
	if err != nil {
		return err
	}
	w, err := createOutput(ctx, samplingPath, nil)
	if err != nil {
		return err
	}
	if err := u.WriteSamplingFile(w); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"file":    samplingPath,
		"inputs":  len(u.ROMInputs()),
		"outputs": len(u.ROMOutputs()),
	}).Info("romutil: wrote sampling file")
	return nil
}

// Species writes a table of the species of the unit operation in the
// setup document, followed by the molar flow of each element at the
// inlets and outlets and the default value and range of each ROM input.
func Species(ctx context.Context, setupPath string, w io.Writer) error {
	u, err := loadSetup(ctx, setupPath)
	if err != nil {
		return err
	}
	ix, err := u.Index()
	if err != nil {
		return err
	}

	phases := make([][]string, len(ix.AllSpecies))
	for i := range u.GasSpecies {
		phases[i] = append(phases[i], "gas")
	}
	for p, m := range ix.SolidToAll {
		for _, i := range m {
			phases[i] = append(phases[i], u.SolidPhases[p])
		}
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tName\tFormula\tMW [g/mol]\tPhases")
	for i, s := range ix.AllSpecies {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.4f\t%s\n", i, s.Name(), s.Formula(), s.MolecularWeight(), strings.Join(phases[i], ","))
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Element\tInlet [mol/s]\tOutlet [mol/s]")
	in := ix.ElementMoleFlowRate(unitrom.Inlet)
	out := ix.ElementMoleFlowRate(unitrom.Outlet)
	for _, e := range ix.ElementAll {
		fmt.Fprintf(tw, "%v\t%.6g\t%.6g\n", e, in[e]*1000, out[e]*1000)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "ROM input\tDefault\tMin\tMax")
	for _, k := range u.ROMInputs() {
		p, err := u.Param(k)
		if err != nil {
			return err
		}
		d, err := u.Dimensions(k)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%v\t%g\t%g\n", p.FullName(), p.Quantity(d), p.Min, p.Max)
	}
	return tw.Flush()
}
