package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dgramop/openpid-docgen/pkg/book"
	"github.com/dgramop/openpid-docgen/pkg/diagram"
	"github.com/dgramop/openpid-docgen/pkg/specparse"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		specPath  string
		outputDir string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "openpid-docgen",
		Short: "Generate device interface documentation from an OpenPID spec",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(newLogger(verbose), specPath, outputDir)
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "OpenPID spec file (.toml or .yaml)")
	cmd.Flags().StringVar(&outputDir, "output", "", "Output directory for the generated book")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	_ = cmd.MarkFlagRequired("spec")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().
		Timestamp().
		Str("app", "openpid-docgen").
		Str("run_id", uuid.NewString()).
		Logger()
}

func run(log zerolog.Logger, specPath, outputDir string) error {
	pid, err := specparse.LoadSpec(specPath)
	if err != nil {
		return fmt.Errorf("loading spec: %w", err)
	}
	log.Info().
		Str("device", pid.DeviceInfo.Name).
		Int("tx_payloads", len(pid.Payloads.Tx)).
		Int("rx_payloads", len(pid.Payloads.Rx)).
		Msg("spec loaded")

	if err := book.Document(pid, outputDir, diagram.D2{}, book.MdBook{}, log); err != nil {
		return err
	}

	log.Info().Str("output", outputDir).Msg("documentation generated")
	return nil
}
