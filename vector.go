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
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ParseVector parses whitespace-separated numbers.
func ParseVector(s string) ([]float64, error) {
	fields := strings.Fields(s)
	v := make([]float64, len(fields))
	for i, f := range fields {
		var err error
		v[i], err = cast.ToFloat64E(f)
		if err != nil {
			return nil, fmt.Errorf("unitrom: vector value %d: %v", i, err)
		}
	}
	return v, nil
}

// ReadVector reads all whitespace-separated numbers from r.
func ReadVector(r io.Reader) ([]float64, error) {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	var v []float64
	for s.Scan() {
		x, err := cast.ToFloat64E(s.Text())
		if err != nil {
			return nil, fmt.Errorf("unitrom: vector value %d: %v", len(v), err)
		}
		v = append(v, x)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("unitrom: reading vector: %v", err)
	}
	return v, nil
}

// FormatVector formats v as tab-separated values.
func FormatVector(v []float64) string {
	var b strings.Builder
	for i, x := range v {
		if i > 0 {
			b.WriteByte('\t')
		}
		b.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	}
	return b.String()
}

// ReadInputVector reads the ROM input vector from r.
func (u *UnitOperation) ReadInputVector(r io.Reader) error {
	v, err := ReadVector(r)
	if err != nil {
		return err
	}
	return u.SetInputVector(v)
}

// ReadOutputVector reads the ROM output vector from r.
func (u *UnitOperation) ReadOutputVector(r io.Reader) error {
	v, err := ReadVector(r)
	if err != nil {
		return err
	}
	return u.SetOutputVector(v)
}

// WriteOutputVector writes the ROM output vector to w on one line.
func (u *UnitOperation) WriteOutputVector(w io.Writer) error {
	v, err := u.OutputVector()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, FormatVector(v))
	return err
}
