// Package export renders named table views into downloadable payloads and
// runs export jobs asynchronously against a blob store.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"claimcore/internal/core"
)

// Format selects the payload encoding for an export.
type Format string

const (
	// FormatCSV renders one CSV file, or a zip archive of CSV files when the
	// export carries more than one view.
	FormatCSV Format = "csv"
	// FormatWorkbook renders a zip archive with one CSV sheet per view,
	// mirroring a spreadsheet with named sheets.
	FormatWorkbook Format = "workbook"
	// FormatJSON renders all views as a single JSON document.
	FormatJSON Format = "json"
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatCSV, FormatWorkbook, FormatJSON}
}

// ValidFormat reports whether f is a supported format.
func ValidFormat(f Format) bool {
	for _, known := range Formats() {
		if f == known {
			return true
		}
	}
	return false
}

// Payload is a rendered export ready for storage or download.
type Payload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Materialize renders the views into the requested format. The filename
// embeds the generation timestamp.
func Materialize(format Format, views []core.TableView, now time.Time) (Payload, error) {
	if len(views) == 0 {
		return Payload{}, fmt.Errorf("no views to export")
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return Payload{}, fmt.Errorf("marshal json: %w", err)
		}
		return Payload{Filename: exportFilename("json", now), ContentType: "application/json", Data: data}, nil
	case FormatCSV:
		if len(views) == 1 {
			data, err := renderCSV(views[0])
			if err != nil {
				return Payload{}, err
			}
			return Payload{Filename: exportFilename("csv", now), ContentType: "text/csv", Data: data}, nil
		}
		data, err := renderArchive(views)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Filename: exportFilename("zip", now), ContentType: "application/zip", Data: data}, nil
	case FormatWorkbook:
		data, err := renderArchive(views)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Filename: exportFilename("zip", now), ContentType: "application/zip", Data: data}, nil
	default:
		return Payload{}, fmt.Errorf("unsupported export format %s", format)
	}
}

func renderCSV(view core.TableView) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(view.Columns); err != nil {
		return nil, err
	}
	for _, row := range view.Rows {
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderArchive(views []core.TableView) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, view := range views {
		sheet, err := zw.Create(view.Name + ".csv")
		if err != nil {
			return nil, err
		}
		data, err := renderCSV(view)
		if err != nil {
			return nil, err
		}
		if _, err := sheet.Write(data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportFilename(ext string, now time.Time) string {
	return fmt.Sprintf("claims_export_%s.%s", now.UTC().Format("20060102_150405"), ext)
}
