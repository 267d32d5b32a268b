package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aivigen/internal/config"
	"aivigen/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [flags]",
	Short: "Remove the generated output tree and its manifest",
	Long:  "Remove the generated test tree and the cached generation manifest recorded for it.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().String("out", "", "output root (overrides config)")
}

func runClean(cmd *cobra.Command, args []string) error {
	outFlag, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.Discover(configPath, ".")
	if err != nil {
		return err
	}
	outDir := cfg.Output.Dir
	if outFlag != "" {
		outDir = outFlag
	}

	info, err := os.Stat(outDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			_, _ = fmt.Fprintf(os.Stdout, "output tree not found\n")
			return driver.RemoveManifest(outDir)
		}
		return fmt.Errorf("failed to stat %q: %w", outDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", outDir)
	}
	if err := os.RemoveAll(outDir); err != nil {
		return fmt.Errorf("failed to remove %q: %w", outDir, err)
	}
	if err := driver.RemoveManifest(outDir); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "removed %s\n", outDir)
	return nil
}
