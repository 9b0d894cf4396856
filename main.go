package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saworbit/linecheck/internal/logging"
	"github.com/saworbit/linecheck/internal/metrics"
	"github.com/saworbit/linecheck/internal/version"
	"github.com/saworbit/linecheck/pkg/compare"
	"github.com/saworbit/linecheck/pkg/config"
	"github.com/saworbit/linecheck/pkg/greeter"
	"github.com/saworbit/linecheck/pkg/scenario"
	"github.com/saworbit/linecheck/pkg/stream"
	"github.com/saworbit/linecheck/pkg/textfile"
	"github.com/saworbit/linecheck/pkg/transform"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(config.LoadFromEnv())
	err := root.ExecuteContext(ctx)
	logging.Sync()
	if err != nil {
		stop()
		logging.Default().Fatal(err)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "linecheck",
		Short:         "linecheck - transform text files and verify them against fixtures",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			logging.SetLevel(cfg.LogLevel)
			metrics.SetBuildInfo(version.Version)
			if cfg.MetricsAddr != "" {
				startMetrics(cmd.Context(), cfg.MetricsAddr)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Serve Prometheus metrics on this address (empty disables)")
	root.PersistentFlags().StringVar(&cfg.HashAlgo, "hash", cfg.HashAlgo, "Content id algorithm (sha256 or blake3)")

	root.AddCommand(
		newHelloCmd(cfg),
		newTransformCmd(cfg),
		newCompareCmd(cfg),
		newVerifyCmd(cfg),
		newStreamCmd(cfg),
		newWatchCmd(cfg),
	)
	return root
}

func startMetrics(ctx context.Context, addr string) {
	logger := logging.Named("metrics")
	go func() {
		if err := metrics.Serve(ctx, addr, logger); err != nil {
			logger.Errorw("metrics server stopped", "addr", addr, "error", err)
		}
	}()
}

func newHelloCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "hello",
		Short: "Print the greeting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return greeter.New(cmd.OutOrStdout(), greeter.WithGreeting(cfg.Greeting)).Hello()
		},
	}
}

func newTransformCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform --in <file> --out <file>",
		Short: "Read the input file and write the literal to the output file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := newTransformer(cfg)
			if err != nil {
				return err
			}
			report, err := t.Run(cfg.InputPath, cfg.OutputPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %q to %s (%d input lines)\n",
				report.Written, report.OutputPath, report.InputLines)
			return nil
		},
	}

	addInputFlags(cmd, cfg)
	addOutputFlags(cmd, cfg)
	return cmd
}

func newCompareCmd(cfg *config.Config) *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "compare --expected <file> --actual <file>",
		Short: "Compare the first line of two files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := newComparator(cfg).Compare(cfg.ExpectedPath, cfg.OutputPath)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), cfg.ExpectedPath, res, showDiff)
			return res.Err()
		},
	}

	cmd.Flags().StringVar(&cfg.ExpectedPath, "expected", cfg.ExpectedPath, "Expected output fixture")
	cmd.Flags().StringVar(&cfg.OutputPath, "actual", cfg.OutputPath, "File to check")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Print a unified diff when the files differ")
	return cmd
}

func newVerifyCmd(cfg *config.Config) *cobra.Command {
	var suitePath string
	var workDir string
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "verify [--suite <archive.txtar>]",
		Short: "Transform the input and compare the output with the expected file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner(cfg)
			if err != nil {
				return err
			}

			scenarios := []scenario.Scenario{{
				Name:         "default",
				InputPath:    cfg.InputPath,
				OutputPath:   cfg.OutputPath,
				ExpectedPath: cfg.ExpectedPath,
			}}
			if suitePath != "" {
				if workDir == "" {
					workDir, err = os.MkdirTemp("", "linecheck-")
					if err != nil {
						return fmt.Errorf("create work dir: %w", err)
					}
				}
				scenarios, err = scenario.LoadArchive(suitePath, workDir)
				if err != nil {
					return err
				}
			}

			outcomes, err := runner.RunAll(cmd.Context(), scenarios)
			for _, o := range outcomes {
				printResult(cmd.OutOrStdout(), o.Scenario.Name, o.Result, showDiff)
			}
			return err
		},
	}

	addInputFlags(cmd, cfg)
	addOutputFlags(cmd, cfg)
	cmd.Flags().StringVar(&cfg.ExpectedPath, "expected", cfg.ExpectedPath, "Expected output fixture")
	cmd.Flags().StringVar(&suitePath, "suite", "", "txtar archive of scenarios to run instead of --in/--out/--expected")
	cmd.Flags().StringVar(&workDir, "work", "", "Directory to extract suite scenarios into (default: a temp dir)")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Print a unified diff when the files differ")
	return cmd
}

func newStreamCmd(cfg *config.Config) *cobra.Command {
	var outPath string
	var printRecords bool

	cmd := &cobra.Command{
		Use:   "stream --in <file> [--out <file>]",
		Short: "Stream input lines through the prefix, print and write handlers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			handlers := []stream.Handler{stream.Prepend(cfg.StreamPrefix)}
			if printRecords {
				handlers = append(handlers, stream.Print(cmd.OutOrStdout()))
			}
			if outPath != "" {
				if err := textfile.EnsureParent(outPath, cfg.CreateParents); err != nil {
					return err
				}
				handlers = append(handlers, stream.WriteToDisk(outPath))
			}

			op := stream.NewOperator(stream.FileSource{Path: cfg.InputPath}, logging.Named("stream"), handlers...)
			_, err := op.Execute(cmd.Context())
			return err
		},
	}

	addInputFlags(cmd, cfg)
	cmd.Flags().StringVar(&outPath, "out", "", "Also write the records to this file")
	cmd.Flags().StringVar(&cfg.StreamPrefix, "prefix", cfg.StreamPrefix, "Prefix added to every record")
	cmd.Flags().BoolVar(&printRecords, "print", true, "Print every record to stdout")
	cmd.Flags().BoolVar(&cfg.CreateParents, "mkdir", cfg.CreateParents, "Create the output directory if it is missing")
	return cmd
}

func newWatchCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch --in <file> --out <file> --expected <file>",
		Short: "Re-run the verification whenever the input or expected file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner(cfg)
			if err != nil {
				return err
			}
			s := scenario.Scenario{
				Name:         "watch",
				InputPath:    cfg.InputPath,
				OutputPath:   cfg.OutputPath,
				ExpectedPath: cfg.ExpectedPath,
			}
			err = runWatch(cmd.Context(), cmd.OutOrStdout(), runner, s, cfg.WatchDebounce, logging.Named("watch"))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	addInputFlags(cmd, cfg)
	addOutputFlags(cmd, cfg)
	cmd.Flags().StringVar(&cfg.ExpectedPath, "expected", cfg.ExpectedPath, "Expected output fixture")
	cmd.Flags().DurationVar(&cfg.WatchDebounce, "debounce", cfg.WatchDebounce, "Wait this long after a change before re-running")
	return cmd
}

func addInputFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVar(&cfg.InputPath, "in", cfg.InputPath, "Input text file")
}

func addOutputFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVar(&cfg.OutputPath, "out", cfg.OutputPath, "Output file, overwritten on every run")
	cmd.Flags().StringVar(&cfg.Literal, "literal", cfg.Literal, "Value written to the output file")
	cmd.Flags().BoolVar(&cfg.CreateParents, "mkdir", cfg.CreateParents, "Create the output directory if it is missing")
}

func newTransformer(cfg *config.Config) (*transform.Transformer, error) {
	opts, err := transformOptions(cfg)
	if err != nil {
		return nil, err
	}
	return transform.New(opts...), nil
}

func transformOptions(cfg *config.Config) ([]transform.Option, error) {
	rule, err := cfg.NewRule()
	if err != nil {
		return nil, err
	}
	return []transform.Option{
		transform.WithRule(rule),
		transform.WithCreateParents(cfg.CreateParents),
		transform.WithLogger(logging.Named("transform")),
	}, nil
}

func newComparator(cfg *config.Config) *compare.Comparator {
	return compare.New(compare.WithHashAlgo(cfg.HashAlgo), compare.WithLogger(logging.Named("compare")))
}

func newRunner(cfg *config.Config) (*scenario.Runner, error) {
	opts, err := transformOptions(cfg)
	if err != nil {
		return nil, err
	}
	return scenario.NewRunner(newComparator(cfg), logging.Named("scenario"), opts...), nil
}

func printResult(w io.Writer, name string, res compare.Result, showDiff bool) {
	if res.Pass {
		fmt.Fprintf(w, "PASS %s\n", name)
	} else {
		fmt.Fprintf(w, "FAIL %s: %v\n", name, res.Err())
	}
	if showDiff && res.Diff != "" {
		fmt.Fprint(w, res.Diff)
	}
}
