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
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spatialmodel/unitrom"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

// tempDir returns a directory relative to the working directory so
// that it can also be reached through a file:// blob path.
func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir(".", "romtest")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func writeFile(t *testing.T, path, contents string) {
	if err := ioutil.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestVersion(t *testing.T) {
	var b bytes.Buffer
	Root.SetOut(&b)
	defer Root.SetOut(nil)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if want := "unitrom v" + unitrom.Version + "\n"; b.String() != want {
		t.Errorf("have %q, want %q", b.String(), want)
	}
}

func TestBalanceCmd(t *testing.T) {
	dir := tempDir(t)
	cases := filepath.Join(dir, "cases.txt")
	writeFile(t, cases, gasifierCases())
	out := filepath.Join(dir, "corrected.tsv")

	Cfg.Set("setup", gasifierSetup)
	Cfg.Set("cases", cases)
	Cfg.Set("output", out)
	Cfg.Set("format", "tsv")
	Cfg.Set("workers", 2)
	Root.SetArgs([]string{"balance"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}

	b, err := ioutil.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
	if len(lines) != 5 || lines[2] != "" {
		t.Fatalf("have %d lines: %q", len(lines), lines)
	}
	for i, l := range lines {
		if i == 2 {
			continue
		}
		if n := len(strings.Split(l, "\t")); n != 4+len(gasifierOutputs) {
			t.Errorf("line %d has %d values", i, n)
		}
	}
}

func TestCorrectCmd(t *testing.T) {
	dir := tempDir(t)
	invec := filepath.Join(dir, "invec.txt")
	outvec := filepath.Join(dir, "outvec.txt")
	writeFile(t, invec, "3 350 5 800\n")
	writeFile(t, outvec, unitrom.FormatVector(gasifierOutputs)+"\n")

	Cfg.Set("setup", gasifierSetup)
	Cfg.Set("invec", invec)
	Cfg.Set("outvec", outvec)
	Cfg.Set("corrected", "file://"+filepath.ToSlash(dir)+"/corrected.txt")
	Cfg.Set("method", "auto")
	Root.SetArgs([]string{"correct"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "corrected.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	v, err := unitrom.ReadVector(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(v) != len(gasifierOutputs) {
		t.Fatalf("have %d values, want %d", len(v), len(gasifierOutputs))
	}
	for i, want := range map[int]float64{0: 0.9142127883613582, 2: 4.1184355025392705, 7: 0.6642678986406637, 15: 100} {
		if different(v[i], want, 1.e-6) {
			t.Errorf("value %d: have %g, want %g", i, v[i], want)
		}
	}
}

func TestSamplingCmd(t *testing.T) {
	dir := tempDir(t)
	path := filepath.Join(dir, "gasifier.io")
	Cfg.Set("setup", gasifierSetup)
	Cfg.Set("sampling", path)
	Root.SetArgs([]string{"sampling"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	b, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(b), "gasifier\t//name of reduced order model\n20\t//number of cases to run\n4\t") {
		t.Errorf("sampling file starts with %q", strings.SplitN(string(b), "\n", 2)[0])
	}
}

func TestSpeciesCmd(t *testing.T) {
	var b bytes.Buffer
	Root.SetOut(&b)
	defer Root.SetOut(nil)
	Cfg.Set("setup", gasifierSetup)
	Root.SetArgs([]string{"species"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"CH4", "gas,coal", "Element", "Cl", "Temperature_coalfeed1SP0"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("species table does not contain %q:\n%s", want, b.String())
		}
	}
}

func TestCheckConfig(t *testing.T) {
	if _, err := checkSetup(""); err == nil {
		t.Error("missing setup should fail")
	}
	if _, err := checkSetup("gasifier.txt"); err == nil {
		t.Error("unknown setup format should fail")
	}
	if f, err := checkFormat("XLSX"); err != nil || f != "xlsx" {
		t.Errorf("format: %s, %v", f, err)
	}
	if _, err := checkFormat("csv"); err == nil {
		t.Error("csv format should fail")
	}
	if m, err := checkMethod("Lagrangian"); err != nil || m != unitrom.Lagrangian {
		t.Errorf("method: %v, %v", m, err)
	}
	if _, err := checkReflection(0.5); err == nil {
		t.Error("positive reflection coefficient should fail")
	}
	if n := checkWorkers(0); n != runtime.NumCPU() {
		t.Errorf("workers: have %d, want %d", n, runtime.NumCPU())
	}
	if p := checkSamplingFile("", "dir/gasifier.json"); p != "dir/gasifier.io" {
		t.Errorf("sampling file: %s", p)
	}
}
