// Package core provides the business logic for barcode sheet generation.
//
// It has no HTTP dependencies and is shared by the web server and the
// barcodegen command.
//
// # Flow
//
// [Service.Generate] takes one uploaded spreadsheet through these steps:
//
//  1. A slot is taken from the [UploadLimiter].
//  2. The sheet package reads the first worksheet (or CSV) into rows.
//  3. The [Pipeline] validates every row in order, stopping at the first
//     row the normalizer rejects, then renders the validated rows on a
//     bounded worker pool and restores row order.
//  4. Each image is base64 encoded into a [RenderedBarcode]; a copy is
//     handed to the [ImageStore] when persistence is enabled.
//  5. The outcome is recorded as a [Run] in the [RunStore].
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with [MapError].
// Codes by category:
//
//   - BAR001-BAR003: barcode validation and rendering
//   - FILE001-FILE004: upload and spreadsheet problems
//   - DL001-DL002: download payload problems
//   - UPL002-UPL005: concurrency, cancellation and timeouts
package core
