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
	"os"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/unitrom"
)

// checkSetup makes sure that the setup location is specified and
// expands any environment variables in it.
func checkSetup(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("romutil: you need to specify a setup document (for example: --setup=gasifier.json)")
	}
	path = os.ExpandEnv(path)
	if _, err := unitrom.SetupFormat(path); err != nil {
		return path, err
	}
	return path, nil
}

// checkInput makes sure that the input file for the named option is
// specified and expands any environment variables in it.
func checkInput(option, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("romutil: you need to specify the %s file", option)
	}
	return os.ExpandEnv(path), nil
}

// checkFormat makes sure the output format is one of the ones supported.
func checkFormat(format string) (string, error) {
	format = strings.ToLower(os.ExpandEnv(format))
	if format != "tsv" && format != "xlsx" {
		return format, fmt.Errorf("romutil: format needs to be set to either tsv or xlsx, but is currently set to `%s`", format)
	}
	return format, nil
}

func checkMethod(method string) (unitrom.Method, error) {
	return unitrom.ParseMethod(strings.ToLower(os.ExpandEnv(method)))
}

// checkReflection makes sure the reflection coefficient turns
// negative flows into flows that are not negative.
func checkReflection(r float64) (float64, error) {
	if r > 0 {
		return r, fmt.Errorf("romutil: reflection coefficient %g must not be positive", r)
	}
	return r, nil
}

// checkWorkers returns the number of CPUs if n is not positive.
func checkWorkers(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// checkSamplingFile fills in a default value for the sampling file path if
// one isn't specified.
func checkSamplingFile(path, setup string) string {
	if path == "" {
		return unitrom.SamplingFileName(setup)
	}
	return os.ExpandEnv(path)
}

// loadSetup reads the setup document at path. Problems with the species
// catalogs of non-conventional solids are logged as warnings.
func loadSetup(ctx context.Context, path string) (*unitrom.UnitOperation, error) {
	format, err := unitrom.SetupFormat(path)
	if err != nil {
		return nil, err
	}
	r, err := openInput(ctx, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	u, err := unitrom.LoadSetup(r, format)
	if err != nil {
		return nil, fmt.Errorf("romutil: loading setup %s: %v", path, err)
	}
	for _, problem := range u.CheckNCSolids() {
		logrus.WithField("setup", path).Warn(problem)
	}
	logrus.WithFields(logrus.Fields{
		"setup":   path,
		"inputs":  len(u.ROMInputs()),
		"outputs": len(u.ROMOutputs()),
	}).Debug("romutil: loaded setup")
	return u, nil
}

// indexSetup indexes u and sets the correction options.
func indexSetup(u *unitrom.UnitOperation, reflection float64, method unitrom.Method) (*unitrom.Indexed, error) {
	ix, err := u.Index()
	if err != nil {
		return nil, err
	}
	ix.ReflectionCoefficient = reflection
	ix.Method = method
	return ix, nil
}
