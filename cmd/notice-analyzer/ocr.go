package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var ocrCmd = &cobra.Command{
	Use:   "ocr <file>",
	Short: "Print the recognised text of a document without extracting fields",
	Long: `OCR runs only the text-acquisition stage (text layer, rasterise + OCR, or
plain read) and prints the text followed by how it was obtained. Useful for
checking tesseract and language pack setup.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.close()

		start := time.Now()
		res, err := a.source.Extract(ctx, args[0])
		dur := time.Since(start)
		if err != nil {
			logger.Error("text extraction failed", "path", args[0], "error", err, "duration_ms", dur.Milliseconds())
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.Text)
		fmt.Fprintf(cmd.ErrOrStderr(), "method=%s source=%s pages=%d lang=%s confidence=%.2f duration=%s\n",
			res.Method, res.SourceType, res.Pages, res.Language, res.Confidence, dur.Round(time.Millisecond))
		for _, w := range res.Warnings {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ocrCmd)
}
