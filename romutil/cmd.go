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

// Package romutil holds the command-line interface to unitrom.
package romutil

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/unitrom"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to unitrom.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "setup",
			usage: `
              setup specifies the location of the unit operation setup
              document. The format (JSON, TOML or YAML) is determined by the
              file extension. Locations starting with file://, gs://, or s3://
              are read from blob storage.`,
			shorthand:  "s",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "loglevel",
			usage: `
              loglevel specifies the lowest level of log messages to print:
              debug, info, warning, or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "reflection",
			usage: `
              reflection is the coefficient that negative outlet flows are
              multiplied by before the correction. It must be negative or zero.`,
			defaultVal: unitrom.DefaultReflectionCoefficient,
			flagsets:   []*pflag.FlagSet{balanceCmd.Flags(), correctCmd.Flags()},
		},
		{
			name: "method",
			usage: `
              method specifies how the correction factors are computed:
              "regression" minimizes the squared elemental imbalance,
              "lagrangian" balances every element exactly with the smallest
              correction, and "auto" uses regression only when there are more
              fed elements than product species.`,
			defaultVal: "auto",
			flagsets:   []*pflag.FlagSet{balanceCmd.Flags(), correctCmd.Flags()},
		},
		{
			name: "cases",
			usage: `
              cases specifies the location of the file of uncorrected ROM
              cases. It starts with the number of groups and the number of
              cases in each group, followed by the input vector and output
              vector of each case.`,
			shorthand:  "c",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{balanceCmd.Flags()},
		},
		{
			name: "output",
			usage: `
              output specifies where to write the corrected cases. If it is
              empty, they are written to standard output.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{balanceCmd.Flags()},
		},
		{
			name: "format",
			usage: `
              format specifies the format of the corrected cases: "tsv" for
              tab-separated values with groups separated by blank lines, or
              "xlsx" for a spreadsheet with one sheet per group.`,
			defaultVal: "tsv",
			flagsets:   []*pflag.FlagSet{balanceCmd.Flags()},
		},
		{
			name: "workers",
			usage: `
              workers specifies the number of cases to correct at once.
              Zero means one per CPU.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{balanceCmd.Flags()},
		},
		{
			name: "invec",
			usage: `
              invec specifies the location of the ROM input vector.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{correctCmd.Flags()},
		},
		{
			name: "outvec",
			usage: `
              outvec specifies the location of the uncorrected ROM output vector.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{correctCmd.Flags()},
		},
		{
			name: "corrected",
			usage: `
              corrected specifies where to write the corrected ROM output
              vector. If it is empty, it is written to standard output.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{correctCmd.Flags()},
		},
		{
			name: "sampling",
			usage: `
              sampling specifies where to write the sampling file. If it is
              empty, the setup location with the extension ".io" is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{samplingCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("UNITROM")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})
	logrus.SetOutput(os.Stderr)
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(balanceCmd)
	Root.AddCommand(correctCmd)
	Root.AddCommand(samplingCmd)
	Root.AddCommand(speciesCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the log level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("romutil: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("loglevel"))
	if err != nil {
		return fmt.Errorf("romutil: %v", err)
	}
	logrus.SetLevel(level)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "unitrom",
	Short: "Elemental mass balance correction for unit operation ROMs.",
	Long: `unitrom corrects the outlet species flows predicted by a reduced order
model (ROM) of a unit operation, such as a gasifier, so that the molar flow of
every chemical element entering the unit equals the flow leaving it.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'UNITROM_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of unitrom.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "unitrom v%s\n", unitrom.Version)
	},
	DisableAutoGenTag: true,
}

// balanceCmd corrects a file of ROM cases.
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Correct a batch of ROM cases.",
	Long: `balance reads the unit operation setup and a file of uncorrected ROM
cases, enforces the elemental mass balance on each case, and writes the
input vector and corrected output vector of each case. Cases that cannot
be corrected are logged and written with their flows after negative flows
are reflected and flows of species containing unfed elements are removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		setup, err := checkSetup(Cfg.GetString("setup"))
		if err != nil {
			return err
		}
		format, err := checkFormat(Cfg.GetString("format"))
		if err != nil {
			return err
		}
		method, err := checkMethod(Cfg.GetString("method"))
		if err != nil {
			return err
		}
		reflection, err := checkReflection(Cfg.GetFloat64("reflection"))
		if err != nil {
			return err
		}
		cases, err := checkInput("cases", Cfg.GetString("cases"))
		if err != nil {
			return err
		}
		return Balance(cmd.Context(), setup, cases, os.ExpandEnv(Cfg.GetString("output")), format,
			checkWorkers(Cfg.GetInt("workers")), reflection, method, cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}

// correctCmd corrects a single ROM output vector.
var correctCmd = &cobra.Command{
	Use:   "correct",
	Short: "Correct one ROM output vector.",
	Long: `correct reads the unit operation setup, a ROM input vector, and a ROM
output vector, enforces the elemental mass balance, and writes the corrected
output vector on one line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		setup, err := checkSetup(Cfg.GetString("setup"))
		if err != nil {
			return err
		}
		method, err := checkMethod(Cfg.GetString("method"))
		if err != nil {
			return err
		}
		reflection, err := checkReflection(Cfg.GetFloat64("reflection"))
		if err != nil {
			return err
		}
		invec, err := checkInput("invec", Cfg.GetString("invec"))
		if err != nil {
			return err
		}
		outvec, err := checkInput("outvec", Cfg.GetString("outvec"))
		if err != nil {
			return err
		}
		return Correct(cmd.Context(), setup, invec, outvec, os.ExpandEnv(Cfg.GetString("corrected")),
			reflection, method, cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}

// samplingCmd writes the sampling file.
var samplingCmd = &cobra.Command{
	Use:   "sampling",
	Short: "Write the sampling file.",
	Long: `sampling writes the file used by sampling programs to design the
high-fidelity cases a ROM is built from: the model name, the number of cases,
each ROM input with its bounds, and each ROM output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		setup, err := checkSetup(Cfg.GetString("setup"))
		if err != nil {
			return err
		}
		return Sampling(cmd.Context(), setup, checkSamplingFile(Cfg.GetString("sampling"), setup))
	},
	DisableAutoGenTag: true,
}

// speciesCmd prints the species and element index.
var speciesCmd = &cobra.Command{
	Use:   "species",
	Short: "Print the species and elements of a unit operation.",
	Long: `species prints every species of the unit operation with its formula,
molecular weight, and the phases it occurs in, followed by the molar flow
of each element at the inlets and outlets using the default values in the
setup document, and each ROM input with its default value, dimensions,
and bounds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		setup, err := checkSetup(Cfg.GetString("setup"))
		if err != nil {
			return err
		}
		return Species(cmd.Context(), setup, cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}
