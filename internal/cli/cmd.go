// Package cli implements the fractrace command-line interface.
package cli

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fracnet/fractrace"
)

// Version is the version of the fractrace command.
const Version = "0.3.0"

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log is the logger used by all commands.
var Log = logrus.New()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
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
			name: "tolerance",
			usage: `
              tolerance is the distance below which two points are
              treated as the same point, in the units of the input
              coordinates.`,
			defaultVal: fractrace.DefaultTolerance,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "join",
			usage: `
              join specifies whether traces whose ends meet should be
              joined into a single trace before the analysis.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "loglevel",
			usage: `
              loglevel is the minimum level of the log messages printed
              to standard error: debug, info, warn or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "traces",
			usage: `
              traces is the path to the MVE file holding the digitized
              fracture traces.`,
			shorthand:  "t",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{lengthsCmd.Flags(), intersectionsCmd.Flags(), p21Cmd.Flags()},
		},
		{
			name: "grid",
			usage: `
              grid is the path to the MVE file holding the sample points
              at which densities are computed.`,
			shorthand:  "g",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{intersectionsCmd.Flags(), p21Cmd.Flags()},
		},
		{
			name: "radius",
			usage: `
              radius is the radius of the circular scan-line around each
              sample point. It must be positive.`,
			shorthand:  "r",
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{intersectionsCmd.Flags(), p21Cmd.Flags()},
		},
		{
			name: "output",
			usage: `
              output is the path of the file the results are written to.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{lengthsCmd.Flags(), intersectionsCmd.Flags(), p21Cmd.Flags()},
		},
		{
			name: "points",
			usage: `
              points is an optional path of a file to which the
              intersection points themselves are written.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{intersectionsCmd.Flags()},
		},
		{
			name: "circlepoints",
			usage: `
              circlepoints is the number of corners of the polygon that
              approximates each scan-line circle.`,
			defaultVal: fractrace.DefaultCirclePoints,
			flagsets:   []*pflag.FlagSet{p21Cmd.Flags()},
		},
		{
			name: "workers",
			usage: `
              workers is the number of analyses run in parallel. Zero
              uses one worker per available CPU.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{intersectionsCmd.Flags(), p21Cmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("FRACTRACE")
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
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
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

	Log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(lengthsCmd)
	Root.AddCommand(intersectionsCmd)
	Root.AddCommand(p21Cmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets up logging.
func setConfig(cmd *cobra.Command) error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("fractrace: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("loglevel"))
	if err != nil {
		return fmt.Errorf("fractrace: invalid loglevel: %v", err)
	}
	Log.SetLevel(level)
	Log.SetOutput(cmd.ErrOrStderr())
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "fractrace",
	Short: "Fracture trace network analysis.",
	Long: `fractrace analyzes networks of fracture traces digitized in map view:
trace lengths, trace intersections and P21 fracture density measured with
circular scan-lines. Traces and sample points are read from and results are
written to tab-separated MVE point files.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'FRACTRACE_var' where 'var'
is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return setConfig(cmd) },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of fractrace.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fractrace v%s\n", Version)
	},
	DisableAutoGenTag: true,
}

var lengthsCmd = &cobra.Command{
	Use:   "lengths",
	Short: "Compute trace lengths",
	Long: `lengths computes the map view length of every trace in the --traces
file and writes one Name, Id, TraceLength row per trace to --output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}
		return Lengths(cmd.Context(), cfg)
	},
	DisableAutoGenTag: true,
}

var intersectionsCmd = &cobra.Command{
	Use:   "intersections",
	Short: "Count trace intersections around sample points",
	Long: `intersections finds the points where the traces in the --traces file
cross each other and counts, for each sample point in the --grid file, the
intersections closer than --radius. The sample points are written to --output
with the count as an additional column. If --points is given, the intersection
points are written to that file as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(true)
		if err != nil {
			return err
		}
		return Intersections(cmd.Context(), cfg)
	},
	DisableAutoGenTag: true,
}

var p21Cmd = &cobra.Command{
	Use:   "p21",
	Short: "Compute P21 fracture density around sample points",
	Long: `p21 measures, for each sample point in the --grid file, the length of
the traces in the --traces file that lies inside a circle of --radius around
the point, divided by the area of the circle. The sample points are written
to --output with the density as an additional column.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(true)
		if err != nil {
			return err
		}
		return P21(cmd.Context(), cfg)
	},
	DisableAutoGenTag: true,
}

// checkPath returns an error naming the option if path is empty.
func checkPath(option, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("fractrace: the --%s option must be set", option)
	}
	return path, nil
}
