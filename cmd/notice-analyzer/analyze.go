package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/joseph-ayodele/notice-analyzer/internal/entity"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a single notice and print the structured result",
	Long: `Analyze acquires the text of one document (text layer, OCR, or plain text),
identifies its language, translates it if needed and prints the extracted
fields. With --stdin the text is read from standard input instead.

A missing or unreadable document still prints a result: its metadata language
is "unknown" and the text explains what went wrong.`,
	Args: func(cmd *cobra.Command, args []string) error {
		stdin, _ := cmd.Flags().GetBool("stdin")
		if stdin {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		format, _ := cmd.Flags().GetString("format")
		stdin, _ := cmd.Flags().GetBool("stdin")

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.close()

		var res entity.AnalysisResult
		if stdin {
			text, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			res = a.analyzer.AnalyzeText(ctx, string(text))
		} else {
			out := a.analyzer.Process(ctx, args[0])
			a.save(ctx, out)
			res = out.Result
		}
		return printResult(cmd.OutOrStdout(), format, res)
	},
}

func printResult(w io.Writer, format string, res entity.AnalysisResult) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func init() {
	analyzeCmd.Flags().String("format", "json", "output format: json or yaml")
	analyzeCmd.Flags().Bool("stdin", false, "read already-recognised text from stdin")

	rootCmd.AddCommand(analyzeCmd)
}
