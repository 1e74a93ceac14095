package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/leaselens/internal/export"
	"github.com/jackzampolin/leaselens/internal/report"
)

var exportOutPath string

var exportCmd = &cobra.Command{
	Use:   "export <capture.png>",
	Short: "Paginate a captured report into a PDF",
	Long: `Assemble a multi-page PDF from a captured report raster.

The capture is a single tall PNG of the fully expanded report, as produced
by an external renderer. It is sliced at page boundaries and each slice
becomes one page of the output document.

Examples:
  leaselens export report.png
  leaselens export report.png --out lease_analysis.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		out, err := os.Create(exportOutPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()

		exporter := export.NewPDFExporter(cfg.PageSize(), cfg.Export.PixelWidth, logger)
		rep := report.New()
		if err := exporter.Export(ctx, rep, report.FileCapture{Path: args[0]}, out); err != nil {
			return err
		}

		logger.Info("wrote pdf", "path", exportOutPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOutPath, "out", "lease_analysis.pdf", "output PDF path")

	rootCmd.AddCommand(exportCmd)
}
