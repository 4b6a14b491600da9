package core

// error_messages.go maps technical errors to user-facing messages with codes
// for support reference.
//
// # Barcode Errors (BAR001-BAR099)
//
//	BAR001 - Too short: an EAN-13 cell has fewer than 12 characters.
//	         The message names the sheet row.
//	BAR002 - Invalid length: the digits of an EAN-13 cell are neither 12 nor 13.
//	BAR003 - Render failure: the barcode could not be drawn, usually because
//	         of characters outside the format's character set.
//
// BAR002 and BAR003 share the generic processing message; the row and the
// technical cause are only logged.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large or malformed multipart form
//	FILE002 - File is not a readable xlsx/csv spreadsheet
//	FILE004 - No file was uploaded
//
// # Download Errors (DL001-DL099)
//
//	DL001 - Download requested without barcode data
//	DL002 - Download body is not valid JSON
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - Too many generation requests in progress
//	UPL004 - Request cancelled
//	UPL005 - Request timed out
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests from one client
//
// # Default Error (ERR000)
//
// Sentinel errors are matched with errors.Is first. Anything else falls back
// to case-insensitive substring patterns, first match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/barcodegen/internal/barcode"
	"github.com/JonMunkholm/barcodegen/internal/sheet"
)

var (
	// ErrNoFileProvided is returned when an upload has no file part.
	ErrNoFileProvided = errors.New("no file provided")

	// ErrFileTooLarge is returned when the upload exceeds the size limit or
	// the multipart form cannot be parsed.
	ErrFileTooLarge = errors.New("file too large or invalid form")

	// ErrNoBarcodeData is returned when the download endpoint gets no barcodes.
	ErrNoBarcodeData = errors.New("no barcodes data provided for download")
)

// processingFailed is the generic message for failures whose detail stays server-side.
const processingFailed = "Error processing the file."

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// sentinelMessage pairs a sentinel error with its user message.
type sentinelMessage struct {
	err error
	msg UserMessage
}

var sentinelMessages = []sentinelMessage{
	{barcode.ErrInvalidLength, UserMessage{
		Message: processingFailed,
		Action:  "EAN-13 barcodes must contain 12 or 13 digits",
		Code:    "BAR002",
	}},
	{barcode.ErrUnsupportedCharacters, UserMessage{
		Message: processingFailed,
		Action:  "Check the barcode column for characters the format cannot encode",
		Code:    "BAR003",
	}},
	{barcode.ErrRenderFailure, UserMessage{
		Message: processingFailed,
		Action:  "Check the barcode column for characters the format cannot encode",
		Code:    "BAR003",
	}},
	{sheet.ErrInvalidSpreadsheet, UserMessage{
		Message: "The file is not a readable spreadsheet",
		Action:  "Upload an .xlsx workbook or a .csv file",
		Code:    "FILE002",
	}},
	{ErrFileTooLarge, UserMessage{
		Message: "File too large or invalid upload form",
		Action:  "Upload a smaller file using the uploadedFile field",
		Code:    "FILE001",
	}},
	{ErrNoFileProvided, UserMessage{
		Message: "No file was uploaded.",
		Action:  "Please select a spreadsheet to upload",
		Code:    "FILE004",
	}},
	{ErrNoBarcodeData, UserMessage{
		Message: "No barcodes data provided for download.",
		Action:  "Generate barcodes before downloading",
		Code:    "DL001",
	}},
	{ErrInvalidPayload, UserMessage{
		Message: "The barcode data is not valid JSON",
		Action:  "Send the list returned by the upload as { \"barcodes\": [...] }",
		Code:    "DL002",
	}},
	{ErrTooManyUploads, UserMessage{
		Message: "Too many uploads in progress",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "UPL005",
	}},
}

// errorPattern maps a message substring to a user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
	{"request body too large", UserMessage{
		Message: "File too large or invalid upload form",
		Action:  "Upload a smaller file",
		Code:    "FILE001",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB004",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for nil.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if errors.Is(err, barcode.ErrTooShortForFormat) {
		return tooShortMessage(err)
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// tooShortMessage names the offending sheet row.
func tooShortMessage(err error) UserMessage {
	msg := UserMessage{
		Message: "Barcode must be at least 12 characters",
		Action:  "Fix the barcode in that row and upload again",
		Code:    "BAR001",
	}
	var rowErr *barcode.RowError
	if errors.As(err, &rowErr) {
		msg.Message = fmt.Sprintf("%s (row: %d)", msg.Message, rowErr.Row)
	}
	return msg
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
