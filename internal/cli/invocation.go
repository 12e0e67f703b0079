// Package cli parses envirocheck command lines and runs them against the
// regulation store, the dataset workbench and the analytics service.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"envirocheck/pkg/schema"
)

const (
	ExitSuccess           = 0
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitInternalError     = 4
)

// Command names a subcommand, with nested commands joined by a space.
type Command string

const (
	CommandGenerate         Command = "generate"
	CommandAssess           Command = "assess"
	CommandSeedEncode       Command = "seed encode"
	CommandSeedInspect      Command = "seed inspect"
	CommandStandardsList    Command = "standards list"
	CommandStandardsReset   Command = "standards reset"
	CommandStandardsExport  Command = "standards export"
	CommandStandardsImport  Command = "standards import"
	CommandStandardsHistory Command = "standards history"
	CommandReport           Command = "report"
	CommandForecast         Command = "forecast"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

const defaultForecastPeriods = 6

// Invocation is a parsed command line. Zero values of Samples and Margin
// mean "use the configured default". Seed applies only when SeedSet is true,
// so an empty seed can be requested.
type Invocation struct {
	Command   Command
	Standard  string
	Seed      string
	SeedSet   bool
	Samples   int
	Margin    float64
	Random    bool
	Format    string
	Out       string
	Parameter string
	Periods   int
	Arg       string // Seed to inspect, or file to export to / import from
}

// InvocationError is a command line that cannot be run.
type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

// Usage describes the accepted command lines.
const Usage = `usage: envirocheck <command> [flags]

commands:
  generate  [-standard ID] [-seed S] [-samples N] [-random] [-format table|json|csv]
  assess    [-standard ID] [-seed S] [-samples N] [-margin M] [-format table|json]
  seed encode  [-standard ID] [-seed S] [-samples N]
  seed inspect SEED
  standards list | reset | history
  standards export FILE
  standards import FILE
  report    [-standard ID] [-seed S] [-samples N] [-margin M] [-format csv|json] [-out FILE]
  forecast  -parameter ID [-periods P] [-standard ID] [-seed S] [-samples N]
`

// ParseInvocation parses args (without the program name) into an Invocation.
// It does not read the environment or touch the filesystem.
func ParseInvocation(args []string) (Invocation, error) {
	if len(args) == 0 {
		return Invocation{}, invalidInvocationf("missing command\n%s", Usage)
	}

	cmd, rest, err := splitCommand(args)
	if err != nil {
		return Invocation{}, err
	}

	inv := Invocation{Command: cmd}
	fs := flag.NewFlagSet(string(cmd), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var positional int
	switch cmd {
	case CommandGenerate:
		datasetFlags(fs, &inv)
		fs.BoolVar(&inv.Random, "random", false, "Replace the seed with a random one.")
		fs.StringVar(&inv.Format, "format", FormatTable, "Output format: table|json|csv")
	case CommandAssess:
		datasetFlags(fs, &inv)
		fs.Float64Var(&inv.Margin, "margin", 0, "Safety margin in (0, 1].")
		fs.StringVar(&inv.Format, "format", FormatTable, "Output format: table|json")
	case CommandSeedEncode:
		datasetFlags(fs, &inv)
	case CommandReport:
		datasetFlags(fs, &inv)
		fs.Float64Var(&inv.Margin, "margin", 0, "Safety margin in (0, 1].")
		fs.StringVar(&inv.Format, "format", FormatCSV, "Output format: csv|json")
		fs.StringVar(&inv.Out, "out", "", "Output file. Defaults to stdout.")
	case CommandForecast:
		datasetFlags(fs, &inv)
		fs.StringVar(&inv.Parameter, "parameter", "", "Parameter ID to forecast. Required.")
		fs.IntVar(&inv.Periods, "periods", defaultForecastPeriods, "Number of periods to forecast.")
	case CommandSeedInspect, CommandStandardsExport, CommandStandardsImport:
		positional = 1
	}

	if err := fs.Parse(rest); err != nil {
		return Invocation{}, invalidInvocationf("%s: %v", cmd, err)
	}
	if fs.NArg() != positional {
		if positional == 0 {
			return Invocation{}, invalidInvocationf("%s: unexpected arguments: %q", cmd, strings.Join(fs.Args(), " "))
		}
		return Invocation{}, invalidInvocationf("%s: expected exactly one argument", cmd)
	}
	if positional == 1 {
		inv.Arg = fs.Arg(0)
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	inv.SeedSet = set["seed"]

	if err := validateInvocation(inv, set); err != nil {
		return Invocation{}, err
	}
	return inv, nil
}

func splitCommand(args []string) (Command, []string, error) {
	switch args[0] {
	case "generate", "assess", "report", "forecast":
		return Command(args[0]), args[1:], nil
	case "seed", "standards":
		if len(args) < 2 {
			return "", nil, invalidInvocationf("%s: missing subcommand", args[0])
		}
		cmd := Command(args[0] + " " + args[1])
		switch cmd {
		case CommandSeedEncode, CommandSeedInspect,
			CommandStandardsList, CommandStandardsReset, CommandStandardsExport,
			CommandStandardsImport, CommandStandardsHistory:
			return cmd, args[2:], nil
		}
		return "", nil, invalidInvocationf("%s: unknown subcommand %q", args[0], args[1])
	case "help", "-h", "-help", "--help":
		return "", nil, invalidInvocationf("%s", Usage)
	}
	return "", nil, invalidInvocationf("unknown command %q\n%s", args[0], Usage)
}

func datasetFlags(fs *flag.FlagSet, inv *Invocation) {
	fs.StringVar(&inv.Standard, "standard", "", "Standard ID. Defaults to the first stored standard.")
	fs.StringVar(&inv.Seed, "seed", "", "Dataset seed: any text, or an encoded dataset.")
	fs.IntVar(&inv.Samples, "samples", 0, "Samples per parameter (1-20).")
}

func validateInvocation(inv Invocation, set map[string]bool) error {
	if set["samples"] {
		if err := schema.ValidateSampleCount(inv.Samples); err != nil {
			return invalidInvocationf("-samples: %v", err)
		}
	}
	if set["margin"] && !(inv.Margin > 0 && inv.Margin <= 1) {
		return invalidInvocationf("-margin must be in (0, 1]")
	}
	if inv.Random && set["seed"] {
		return invalidInvocationf("-random and -seed are mutually exclusive")
	}

	switch inv.Command {
	case CommandGenerate:
		if err := checkFormat(inv.Format, FormatTable, FormatJSON, FormatCSV); err != nil {
			return err
		}
	case CommandAssess:
		if err := checkFormat(inv.Format, FormatTable, FormatJSON); err != nil {
			return err
		}
	case CommandReport:
		if err := checkFormat(inv.Format, FormatCSV, FormatJSON); err != nil {
			return err
		}
	case CommandForecast:
		if inv.Parameter == "" {
			return invalidInvocationf("forecast: -parameter is required")
		}
		if inv.Periods < 1 {
			return invalidInvocationf("forecast: -periods must be at least 1")
		}
	case CommandSeedInspect, CommandStandardsExport, CommandStandardsImport:
		if inv.Arg == "" {
			return invalidInvocationf("%s: argument must not be empty", inv.Command)
		}
	}
	return nil
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return invalidInvocationf("-format must be one of %s (got %q)", strings.Join(allowed, "|"), format)
}
