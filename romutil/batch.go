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
	"bufio"
	"context"
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/unitrom"
	"github.com/tealeg/xlsx"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// Case is one ROM prediction to be corrected.
type Case struct {
	// Group and Number give the position of the case in the cases file,
	// starting at zero.
	Group, Number int

	Inputs, Outputs []float64

	// Result and Err hold the outcome of the correction.
	Result *unitrom.Result
	Err    error

	// Imbalance is the largest relative difference between the feed and
	// outlet flows of any fed element after a successful correction.
	Imbalance float64
}

// ReadCases reads a cases file: the number of groups and the number of
// cases in each group, then nIn input values and nOut output values for
// each case. Line breaks are not significant.
func ReadCases(r io.Reader, nIn, nOut int) ([][]*Case, error) {
	v, err := unitrom.ReadVector(r)
	if err != nil {
		return nil, fmt.Errorf("romutil: reading cases: %v", err)
	}
	if len(v) < 2 {
		return nil, fmt.Errorf("romutil: cases file has no header")
	}
	nGroup, nCase := int(v[0]), int(v[1])
	if float64(nGroup) != v[0] || float64(nCase) != v[1] || nGroup < 0 || nCase < 0 {
		return nil, fmt.Errorf("romutil: invalid cases header %g %g", v[0], v[1])
	}
	n := nIn + nOut
	if want := 2 + nGroup*nCase*n; len(v) != want {
		return nil, fmt.Errorf("romutil: cases file has %d values but %d groups of %d cases with %d inputs and %d outputs need %d",
			len(v)-2, nGroup, nCase, nIn, nOut, want-2)
	}
	v = v[2:]
	groups := make([][]*Case, nGroup)
	for g := range groups {
		groups[g] = make([]*Case, nCase)
		for c := range groups[g] {
			vals := v[(g*nCase+c)*n : (g*nCase+c+1)*n]
			groups[g][c] = &Case{
				Group:   g,
				Number:  c,
				Inputs:  append([]float64(nil), vals[:nIn]...),
				Outputs: append([]float64(nil), vals[nIn:]...),
			}
		}
	}
	return groups, nil
}

// Batch corrects cases concurrently.
type Batch struct {
	// Index is the indexed unit operation the cases belong to. Each
	// worker corrects cases on its own clone of it.
	Index *unitrom.Indexed

	// Workers is the number of cases corrected at once.
	Workers int

	Log logrus.FieldLogger
}

func (b *Batch) log() logrus.FieldLogger {
	if b.Log == nil {
		return logrus.StandardLogger()
	}
	return b.Log
}

// Run corrects every case in groups in place. Cases that cannot be
// corrected are logged, and their Err field is set; they do not stop
// the batch.
func (b *Batch) Run(ctx context.Context, groups [][]*Case) error {
	workers := b.Workers
	if workers < 1 {
		workers = 1
	}
	cases := make(chan *Case)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(cases)
		for _, group := range groups {
			for _, c := range group {
				select {
				case cases <- c:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		return nil
	})
	for i := 0; i < workers; i++ {
		ix := b.Index.Clone()
		g.Go(func() error {
			for c := range cases {
				if err := b.correct(ix, c); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	b.summarize(groups)
	return nil
}

// correct corrects c using ix. Only errors that make the rest of the
// batch meaningless are returned.
func (b *Batch) correct(ix *unitrom.Indexed, c *Case) error {
	u := ix.UnitOperation()
	if err := u.SetInputVector(c.Inputs); err != nil {
		return err
	}
	if err := u.SetOutputVector(c.Outputs); err != nil {
		return err
	}
	c.Result, c.Err = ix.EnforceElementalMassBalance()
	if c.Err != nil {
		b.log().WithFields(logrus.Fields{
			"group": c.Group,
			"case":  c.Number,
			"error": c.Err,
		}).Warn("romutil: case not corrected")
	} else {
		c.Imbalance = imbalance(ix, c.Result.ElementFeed)
	}
	out, err := u.OutputVector()
	if err != nil {
		return err
	}
	c.Outputs = out
	return nil
}

// imbalance returns the largest relative difference between the feed and
// outlet flows of the given elements.
func imbalance(ix *unitrom.Indexed, elements []unitrom.Element) float64 {
	if len(elements) == 0 {
		return 0
	}
	feed := ix.ElementMoleFlowRate(unitrom.Inlet)
	out := ix.ElementMoleFlowRate(unitrom.Outlet)
	d := make([]float64, len(elements))
	for i, e := range elements {
		d[i] = math.Abs(out[e]-feed[e]) / feed[e]
	}
	return floats.Max(d)
}

func (b *Batch) summarize(groups [][]*Case) {
	var n, failed int
	var imbalances []float64
	for _, group := range groups {
		for _, c := range group {
			n++
			if c.Err != nil {
				failed++
			} else {
				imbalances = append(imbalances, c.Imbalance)
			}
		}
	}
	fields := logrus.Fields{
		"cases":  n,
		"failed": failed,
	}
	if len(imbalances) > 0 {
		fields["max_imbalance"] = floats.Max(imbalances)
	}
	b.log().WithFields(fields).Infof("romutil: corrected %s of %s cases",
		humanize.Comma(int64(n-failed)), humanize.Comma(int64(n)))
}

// WriteTSV writes the input and output values of each case on one line,
// separated by tabs, with a blank line between groups.
func WriteTSV(w io.Writer, groups [][]*Case) error {
	bw := bufio.NewWriter(w)
	for g, group := range groups {
		if g > 0 {
			fmt.Fprintln(bw)
		}
		for _, c := range group {
			fmt.Fprintln(bw, unitrom.FormatVector(append(append([]float64(nil), c.Inputs...), c.Outputs...)))
		}
	}
	return bw.Flush()
}

// WriteXLSX writes a spreadsheet with one sheet per group. Each sheet
// has a header row of parameter names followed by one row per case.
func WriteXLSX(w io.Writer, groups [][]*Case, header []string) error {
	f := xlsx.NewFile()
	for g, group := range groups {
		sheet, err := f.AddSheet(fmt.Sprintf("Group %d", g+1))
		if err != nil {
			return fmt.Errorf("romutil: adding sheet: %v", err)
		}
		row := sheet.AddRow()
		for _, h := range header {
			row.AddCell().SetString(h)
		}
		for _, c := range group {
			row := sheet.AddRow()
			for _, v := range c.Inputs {
				row.AddCell().SetFloat(v)
			}
			for _, v := range c.Outputs {
				row.AddCell().SetFloat(v)
			}
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("romutil: writing spreadsheet: %v", err)
	}
	return nil
}

// vectorNames returns the names of the ROM inputs followed by the
// names of the ROM outputs.
func vectorNames(u *unitrom.UnitOperation) ([]string, error) {
	var names []string
	for _, k := range append(u.ROMInputs(), u.ROMOutputs()...) {
		p, err := u.Param(k)
		if err != nil {
			return nil, err
		}
		names = append(names, p.FullName())
	}
	return names, nil
}
