package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/JonMunkholm/barcodegen/internal/core"
	"github.com/spf13/cobra"
)

var (
	inputFile   string
	barcodeType string
	outputFile  string
	imageDir    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render barcodes and write them as a barcodes.json document",
	Long: `Render a barcode for every data row of the input and write the
{ "barcodes": [...] } document. Use --out - to write to stdout and --images
to also keep the PNG files in a directory.`,
	Example: `  barcodegen generate -f materials.xlsx
  barcodegen generate -f materials.csv -t code128B -o - --images ./barcode_images`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&inputFile, "file", "f", "", "spreadsheet to read, .xlsx or .csv (required)")
	generateCmd.Flags().StringVarP(&barcodeType, "type", "t", "EAN-13", "barcode type: EAN-13 or code128B")
	generateCmd.Flags().StringVarP(&outputFile, "out", "o", core.DownloadFileName, "output file, - for stdout")
	generateCmd.Flags().StringVar(&imageDir, "images", "", "directory to keep the rendered PNG files in")

	generateCmd.MarkFlagRequired("file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg.Barcode.PersistImages = imageDir != ""
	if imageDir != "" {
		cfg.Barcode.ImageDir = imageDir
	}

	service, err := core.NewService(cfg, nil)
	if err != nil {
		return err
	}

	f, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	barcodes, err := service.Generate(ctx, core.GenerateRequest{
		FileName:    filepath.Base(inputFile),
		File:        f,
		BarcodeType: barcodeType,
	})
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), core.FormatUserError(err))
		return err
	}

	env, err := core.NewEnvelope(barcodes)
	if err != nil {
		return err
	}
	if err := writeEnvelope(cmd.OutOrStdout(), env); err != nil {
		return err
	}

	// Images are written in the background; keep them before exiting.
	if err := service.WaitForImages(ctx); err != nil {
		return fmt.Errorf("wait for images: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "generated %d barcodes in %s\n", len(barcodes), time.Since(start).Round(time.Millisecond))
	return nil
}

// writeEnvelope writes env to outputFile, or to stdout for "-".
func writeEnvelope(stdout io.Writer, env core.Envelope) (err error) {
	if outputFile == "-" {
		_, err = env.WriteTo(stdout)
		return err
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()

	_, err = env.WriteTo(out)
	return err
}
