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
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// SamplingFileName returns path with its extension replaced by ".io".
func SamplingFileName(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".io"
}

// WriteSamplingFile writes the description of the ROM inputs and outputs
// used by sampling programs: the model name, the number of cases, then
// each input with its bounds and each output. Inputs with dimensions are
// followed by a comment giving them. UpdateROMVectors must have been
// called.
func (u *UnitOperation) WriteSamplingFile(w io.Writer) error {
	bw := bufio.NewWriter(w)
	g := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

	fmt.Fprintf(bw, "%s\t//name of reduced order model\n", u.Name)
	fmt.Fprintf(bw, "%d\t//number of cases to run\n", u.NSample)
	fmt.Fprintf(bw, "%d\t//number of input variables\n", len(u.romInputs))
	for _, k := range u.romInputs {
		p, err := u.Param(k)
		if err != nil {
			return err
		}
		d, err := u.Dimensions(k)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "%s\t%s\t%s", p.FullName(), g(p.Min), g(p.Max))
		if ds := d.String(); ds != "" {
			fmt.Fprintf(bw, "\t//%s", ds)
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprintf(bw, "%d\t//number of output variables\n", len(u.romOutputs))
	for _, k := range u.romOutputs {
		p, err := u.Param(k)
		if err != nil {
			return err
		}
		fmt.Fprintln(bw, p.FullName())
	}
	return bw.Flush()
}
