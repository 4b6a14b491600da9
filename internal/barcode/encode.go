package barcode

import "encoding/base64"

// EncodeBase64 returns the standard base64 form of raster bytes for JSON transport.
func EncodeBase64(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}
