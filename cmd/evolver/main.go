// The evolver command runs contract network evolution scenarios: built-in
// drone scenarios by name, or scenario files in the YAML format of
// pkg/config.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/contractnet/evolver/internal/config"
	"github.com/contractnet/evolver/internal/engine"
	"github.com/contractnet/evolver/internal/scenario"
	"github.com/contractnet/evolver/internal/solver"
	pkgconfig "github.com/contractnet/evolver/pkg/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type options struct {
	configFile   string
	scenarioFile string
	verbosity    int

	settings *config.Settings
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "evolver",
		Short:        "Contract network fixpoint evolution engine",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := config.NewViper()
			if cmd.Flags().Changed("v") {
				v.Set("verbosity", opts.verbosity)
			}
			settings, err := config.Load(v, opts.configFile)
			if err != nil {
				return err
			}
			opts.settings = settings
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to a settings file")
	root.PersistentFlags().IntVar(&opts.verbosity, "v", 0, "log verbosity (0 info, 1 debug, 2 trace)")

	root.AddCommand(newListCmd())
	root.AddCommand(newRunCmd(opts))
	return root
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range scenario.Names() {
				scen, err := scenario.ByName(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", name, scen.Description)
			}
			return nil
		},
	}
}

func newRunCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "Run a scenario to fixpoint and print the evolved contracts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scen, err := resolveScenario(args, opts.scenarioFile)
			if err != nil {
				return err
			}

			logger, flush, err := newLogger(opts.settings.Verbosity)
			if err != nil {
				return err
			}
			defer flush()
			ctx := logr.NewContext(cmd.Context(), logger)

			eng := engine.New(
				solver.New(solver.Options{MaxNodes: opts.settings.SolverNodeCap}),
				engine.Options{
					MaxIterations: opts.settings.MaxIterations,
					Merge:         engine.MergePolicy(opts.settings.MergePolicy),
				},
			)

			result, err := eng.Evolve(ctx, scen)
			if err != nil {
				var failure *engine.FailureError
				if errors.As(err, &failure) {
					fmt.Fprintln(cmd.OutOrStdout(), failure.Report.Render())
				}
				return err
			}

			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.scenarioFile, "file", "f", "", "run a scenario file instead of a built-in")
	return cmd
}

func resolveScenario(args []string, file string) (*scenario.Scenario, error) {
	switch {
	case file != "" && len(args) > 0:
		return nil, fmt.Errorf("pass either a scenario name or --file, not both")
	case file != "":
		spec, err := pkgconfig.Load(file)
		if err != nil {
			return nil, err
		}
		return scenario.FromSpec(spec)
	case len(args) == 1:
		return scenario.ByName(args[0])
	default:
		return nil, fmt.Errorf("pass a scenario name (see \"evolver list\") or --file")
	}
}

func newLogger(verbosity int) (logr.Logger, func(), error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	z, err := cfg.Build()
	if err != nil {
		return logr.Logger{}, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return zapr.NewLogger(z), func() { _ = z.Sync() }, nil
}

func printResult(w io.Writer, result *engine.Result) {
	fmt.Fprintf(w, "run %s: %s after %d iteration(s)\n\n", result.RunID, result.Outcome, result.Iterations)

	names := make([]string, 0, len(result.Contracts))
	for name := range result.Contracts {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "evolved contracts:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %s\n", name, result.Contracts[name])
	}

	if len(result.Snapshots) > 0 {
		last := result.Snapshots[len(result.Snapshots)-1]
		fmt.Fprintln(w, "\nfinal deviation from baseline:")
		for _, record := range last.Records {
			if record.IsZero() {
				continue
			}
			fmt.Fprintf(w, "  %-20s ΔA_rel %d/%.3g  ΔA_str %d/%.3g  ΔG_rel %d/%.3g  ΔG_str %d/%.3g\n",
				record.Component,
				record.AssumptionRelaxed.Count, record.AssumptionRelaxed.Magnitude,
				record.AssumptionStrengthened.Count, record.AssumptionStrengthened.Magnitude,
				record.GuaranteeRelaxed.Count, record.GuaranteeRelaxed.Magnitude,
				record.GuaranteeStrengthened.Count, record.GuaranteeStrengthened.Magnitude)
		}
	}

	if len(result.Violations) > 0 {
		fmt.Fprintln(w, "\nwell-formedness violations:")
		for _, v := range result.Violations {
			fmt.Fprintf(w, "  %s: %s\n", v.Edge, v.Reason)
		}
	} else {
		fmt.Fprintln(w, "\nall interfaces well-formed")
	}
}
