// Package main implements the aivigen CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"aivigen/internal/config"
	"aivigen/internal/driver"
	"aivigen/internal/observ"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate smoke tests for every exported stdlib symbol",
	Long: `Generate scans the definition directory, rebuilds the declaration model
of every embedded module and writes one smoke test per export plus the
domain-derived suffix and literal cases.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	addGenerateFlags(generateCmd.Flags())
}

func addGenerateFlags(flags *pflag.FlagSet) {
	flags.String("source", "", "definition-file directory (overrides config)")
	flags.String("out", "", "output root (overrides config)")
	flags.Bool("check", false, "verify the output tree is current, write nothing")
	flags.Bool("incremental", false, "skip inputs unchanged since the last recorded run")
	flags.Bool("prune", false, "remove recorded outputs this run did not produce")
	flags.String("report", "", "write a YAML run report to this path")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	sourceFlag, err := flags.GetString("source")
	if err != nil {
		return fmt.Errorf("failed to get source flag: %w", err)
	}
	outFlag, err := flags.GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	checkFlag, err := flags.GetBool("check")
	if err != nil {
		return fmt.Errorf("failed to get check flag: %w", err)
	}
	incrementalFlag, err := flags.GetBool("incremental")
	if err != nil {
		return fmt.Errorf("failed to get incremental flag: %w", err)
	}
	pruneFlag, err := flags.GetBool("prune")
	if err != nil {
		return fmt.Errorf("failed to get prune flag: %w", err)
	}
	reportFlag, err := flags.GetString("report")
	if err != nil {
		return fmt.Errorf("failed to get report flag: %w", err)
	}
	if checkFlag && incrementalFlag {
		return fmt.Errorf("--check and --incremental are mutually exclusive")
	}

	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.Discover(configPath, ".")
	if err != nil {
		return err
	}

	opts := driver.NewOptions(cfg)
	if sourceFlag != "" {
		opts.SourceDir = sourceFlag
	}
	if outFlag != "" {
		opts.OutputDir = outFlag
	}
	opts.Check = checkFlag
	opts.Incremental = incrementalFlag
	opts.Prune = pruneFlag
	opts.ReportPath = reportFlag
	opts.Logger = logger

	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	timer := observ.NewTimer()
	opts.Timer = timer

	res, err := driver.Generate(cmd.Context(), opts)
	if timings {
		_, _ = fmt.Fprint(os.Stderr, timer.Summary())
	}
	if err != nil {
		if errors.Is(err, driver.ErrOutOfDate) {
			for _, p := range res.Drift {
				_, _ = fmt.Fprintf(os.Stderr, "stale: %s\n", p)
			}
		}
		return err
	}

	if checkFlag {
		if !quiet {
			_, _ = fmt.Fprintf(os.Stdout, "output tree up to date (%d files)\n", res.Files)
		}
		return nil
	}

	if !quiet {
		for _, p := range res.Pruned {
			_, _ = fmt.Fprintf(os.Stdout, "pruned %s\n", p)
		}
	}
	// Единственная строка успешного прогона.
	_, _ = fmt.Fprintf(os.Stdout, "generated %s export tests under %s\n",
		color.GreenString("%d", res.Generated), opts.OutputDir)
	return nil
}
