package main

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/leaselens/internal/analyzer"
	"github.com/jackzampolin/leaselens/internal/api"
)

var analyzeCSVPath string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a lease document",
	Long: `Analyze a single lease document and print the structured record.

The document is sent to the configured model provider for extraction, then
sanitized and validated before the record is printed. Use --csv to also
write the record as a CSV artifact.

Examples:
  leaselens analyze lease.pdf
  leaselens analyze lease.pdf --csv lease_analysis.csv
  leaselens analyze scan.png --provider openai -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := resolveClient(mgr, logger)
		if err != nil {
			return err
		}

		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read document: %w", err)
		}

		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if mimeType == "" {
			mimeType = http.DetectContentType(data)
		}

		a := analyzer.New(client, logger)
		rec, err := a.Run(ctx, analyzer.Document{
			Name:     filepath.Base(path),
			MIMEType: mimeType,
			Data:     data,
		})
		if err != nil {
			return fmt.Errorf("%s", a.LastError())
		}

		if analyzeCSVPath != "" {
			f, err := os.Create(analyzeCSVPath)
			if err != nil {
				return fmt.Errorf("failed to create csv file: %w", err)
			}
			defer f.Close()
			if err := rec.WriteCSV(f); err != nil {
				return fmt.Errorf("failed to write csv: %w", err)
			}
			logger.Info("wrote csv artifact", "path", analyzeCSVPath)
		}

		return api.Output(rec)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCSVPath, "csv", "", "also write the record as CSV to this path")

	rootCmd.AddCommand(analyzeCmd)
}
