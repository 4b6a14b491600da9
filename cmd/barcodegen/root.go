package main

import (
	"log/slog"

	"github.com/JonMunkholm/barcodegen/internal/config"
	"github.com/JonMunkholm/barcodegen/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "barcodegen",
	Short: "Generate barcode images from a material spreadsheet",
	Long: `barcodegen reads the first sheet of an .xlsx workbook (or a .csv file)
with material code, material name and barcode columns, and renders an EAN-13
or Code 128 barcode for every row.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(generateCmd)
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found", "error", err)
	}
}
