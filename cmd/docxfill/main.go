// Command docxfill renders a DOCX template against a JSON payload.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docxfill/go-docxfill/pkg/docxfill"
)

var version = "0.9.1"

var (
	flagOutput    string
	flagStrict    bool
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:           "docxfill",
	Short:         "Fill DOCX templates from JSON data",
	Long:          "docxfill replaces {{dot.path}} placeholders in a DOCX template with values from a JSON payload and renders array values as formatted tables.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var renderCmd = &cobra.Command{
	Use:   "render <template.docx> <data.json>",
	Short: "Render a template with data",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := docxfill.ConfigFromEnvironment()
		if cmd.Flags().Changed("strict") {
			cfg.Strict = flagStrict
		}
		if flagLogLevel != "" {
			cfg.LogLevel = flagLogLevel
		}
		if flagLogFormat != "" {
			cfg.LogFormat = flagLogFormat
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		docxfill.ConfigureLogging(os.Stderr, cfg)

		raw, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}
		data, err := docxfill.ParseData(raw)
		if err != nil {
			return err
		}

		output := flagOutput
		if output == "" {
			output = "output.docx"
		}
		engine := docxfill.NewWithConfig(cfg)
		if err := engine.RenderFile(args[0], output, data); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), output)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "docxfill version %s\n", version)
	},
}

func init() {
	renderCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file (default output.docx)")
	renderCmd.Flags().BoolVar(&flagStrict, "strict", false, "fail when placeholders do not resolve")
	renderCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error, off")
	renderCmd.Flags().StringVar(&flagLogFormat, "log-format", "", "log format: console or json")
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
