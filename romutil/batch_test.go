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
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spatialmodel/unitrom"
	"github.com/tealeg/xlsx"
)

const gasifierSetup = "../testdata/gasifier.json"

var gasifierOutputs = []float64{1, 0, 4, 0.3, 1.5, 0.005, 10, 0.6, 0, 0, 0.005, 0.05, 0, 0.5, 0, 100}

// gasifierCases returns a cases file with two groups of two cases. The
// last case has no outlet flow and cannot be corrected.
func gasifierCases() string {
	empty := make([]float64, len(gasifierOutputs))
	empty[len(empty)-1] = 100
	var b strings.Builder
	fmt.Fprintln(&b, "2 2")
	for i, c := range []struct{ in, out []float64 }{
		{in: []float64{3, 350, 5, 800}, out: gasifierOutputs},
		{in: []float64{3.5, 350, 5, 800}, out: gasifierOutputs},
		{in: []float64{3, 350, 5.5, 800}, out: gasifierOutputs},
		{in: []float64{3, 350, 5, 800}, out: empty},
	} {
		if i == 2 {
			fmt.Fprintln(&b)
		}
		fmt.Fprintln(&b, unitrom.FormatVector(c.in))
		fmt.Fprintln(&b, unitrom.FormatVector(c.out))
	}
	return b.String()
}

func TestReadCases(t *testing.T) {
	groups, err := ReadCases(strings.NewReader("2 1\n1 2 3\n\n4 5 6\n"), 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 || len(groups[1]) != 1 {
		t.Fatalf("have %d groups", len(groups))
	}
	c := groups[1][0]
	if c.Group != 1 || c.Number != 0 || !reflect.DeepEqual(c.Inputs, []float64{4}) || !reflect.DeepEqual(c.Outputs, []float64{5, 6}) {
		t.Errorf("case: %+v", c)
	}

	for _, bad := range []string{"", "2", "1.5 1 1 2 3", "1 1 1 2", "1 1 1 2 3 4", "1 1 1 x 3"} {
		if _, err := ReadCases(strings.NewReader(bad), 1, 2); err == nil {
			t.Errorf("%q should fail", bad)
		}
	}
}

func runGasifierBatch(t *testing.T, workers int) ([][]*Case, *test.Hook) {
	ctx := context.Background()
	u, err := loadSetup(ctx, gasifierSetup)
	if err != nil {
		t.Fatal(err)
	}
	ix, err := indexSetup(u, unitrom.DefaultReflectionCoefficient, unitrom.Auto)
	if err != nil {
		t.Fatal(err)
	}
	groups, err := ReadCases(strings.NewReader(gasifierCases()), len(u.ROMInputs()), len(u.ROMOutputs()))
	if err != nil {
		t.Fatal(err)
	}
	logger, hook := test.NewNullLogger()
	b := &Batch{Index: ix, Workers: workers, Log: logger}
	if err := b.Run(ctx, groups); err != nil {
		t.Fatal(err)
	}
	return groups, hook
}

func TestBatch(t *testing.T) {
	serial, _ := runGasifierBatch(t, 1)
	parallel, hook := runGasifierBatch(t, 4)

	for g, group := range parallel {
		for i, c := range group {
			if c.Group != g || c.Number != i {
				t.Errorf("case %d.%d is out of order: %d.%d", g, i, c.Group, c.Number)
			}
			if !reflect.DeepEqual(c.Outputs, serial[g][i].Outputs) {
				t.Errorf("case %d.%d: parallel %v, serial %v", g, i, c.Outputs, serial[g][i].Outputs)
			}
			if g == 1 && i == 1 {
				continue
			}
			if c.Err != nil {
				t.Errorf("case %d.%d: %v", g, i, c.Err)
			}
			if c.Imbalance > 1.e-6 {
				t.Errorf("case %d.%d: imbalance %g", g, i, c.Imbalance)
			}
			if reflect.DeepEqual(c.Outputs, gasifierOutputs) {
				t.Errorf("case %d.%d was not corrected", g, i)
			}
		}
	}
	failed := parallel[1][1]
	if !errors.Is(failed.Err, unitrom.ErrInfeasible) {
		t.Errorf("error: have %v, want %v", failed.Err, unitrom.ErrInfeasible)
	}
	if failed.Outputs[len(failed.Outputs)-1] != 100 {
		t.Errorf("uncorrected outputs: %v", failed.Outputs)
	}

	var warnings int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
			if e.Data["group"] != 1 || e.Data["case"] != 1 {
				t.Errorf("warning fields: %v", e.Data)
			}
		}
	}
	if warnings != 1 {
		t.Errorf("have %d warnings, want 1", warnings)
	}
	last := hook.LastEntry()
	if last == nil || last.Level != logrus.InfoLevel || last.Data["failed"] != 1 || last.Data["cases"] != 4 {
		t.Errorf("summary: %v", last)
	}
}

func TestWriteTSV(t *testing.T) {
	groups := [][]*Case{
		{{Inputs: []float64{1}, Outputs: []float64{2, 3.5}}, {Inputs: []float64{4}, Outputs: []float64{5, 6}}},
		{{Inputs: []float64{7}, Outputs: []float64{8, 9}}},
	}
	var b bytes.Buffer
	if err := WriteTSV(&b, groups); err != nil {
		t.Fatal(err)
	}
	want := "1\t2\t3.5\n4\t5\t6\n\n7\t8\t9\n"
	if b.String() != want {
		t.Errorf("have %q, want %q", b.String(), want)
	}
}

func TestWriteXLSX(t *testing.T) {
	groups := [][]*Case{
		{{Inputs: []float64{1}, Outputs: []float64{2, 3.5}}},
		{{Inputs: []float64{7}, Outputs: []float64{8, 9}}},
	}
	var b bytes.Buffer
	if err := WriteXLSX(&b, groups, []string{"a", "b", "c"}); err != nil {
		t.Fatal(err)
	}
	f, err := xlsx.OpenBinary(b.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Sheets) != 2 || f.Sheets[1].Name != "Group 2" {
		t.Fatalf("sheets: %v", f.Sheets)
	}
	rows := f.Sheets[0].Rows
	if len(rows) != 2 || rows[0].Cells[2].Value != "c" {
		t.Fatalf("rows: %v", rows)
	}
	v, err := rows[1].Cells[2].Float()
	if err != nil {
		t.Fatal(err)
	}
	if v != 3.5 {
		t.Errorf("have %g, want 3.5", v)
	}
}
