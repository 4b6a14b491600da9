// Command barcodegen generates barcodes from a spreadsheet without the web server.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
