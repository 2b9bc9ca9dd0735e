// Package export serializes tabular records into downloadable artifacts.
package export

import (
	"errors"
	"fmt"
	"strings"
)

// MIME types of every artifact the service produces.
const (
	MIMEPDF  = "application/pdf"
	MIMEHTML = "text/html"
	MIMEJSON = "application/json"
	MIMECSV  = "text/csv"
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ErrUnsupportedFormat is matched by every unsupported-format error, for the
// exporters here and for the report renderers.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Blob is a rendered artifact tagged with its MIME type.
type Blob struct {
	Data     []byte
	MIMEType string
	Filename string
}

// Text returns the blob content as a string.
func (b Blob) Text() string {
	return string(b.Data)
}

// Size of the blob in bytes.
func (b Blob) Size() int64 {
	return int64(len(b.Data))
}

// Format is a raw data export format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatExcel Format = "excel"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatCSV, FormatJSON, FormatExcel}

// Extension returns the file extension for f.
func (f Format) Extension() string {
	if f == FormatExcel {
		return "xlsx"
	}
	return string(f)
}

// ParseFormat validates a user supplied format name. "xlsx" is accepted as
// an alias of excel.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatExcel:
		return f, nil
	case "xlsx":
		return FormatExcel, nil
	}
	return "", &UnsupportedFormatError{Format: s}
}

// UnsupportedFormatError is returned for an export format that has no writer.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("export: unsupported format %q (supported: csv, json, excel)", e.Format)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// Assemble serializes records in the requested format.
func Assemble(records []Record, format Format) (Blob, error) {
	switch format {
	case FormatCSV:
		return ToCSV(records)
	case FormatJSON:
		return ToJSON(records)
	case FormatExcel:
		return ToExcel(records)
	}
	return Blob{}, &UnsupportedFormatError{Format: string(format)}
}
