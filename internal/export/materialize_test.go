package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"testing"
	"time"

	"claimcore/internal/core"
)

var exportClock = time.Date(2025, 3, 1, 10, 30, 45, 0, time.UTC)

func sampleView(name string) core.TableView {
	return core.TableView{
		Name:    name,
		Columns: []string{"claim_id", "claimed_amount"},
		Rows: [][]string{
			{"CL000001", "4200.00"},
			{"CL000002", "980.50"},
		},
	}
}

func TestMaterializeSingleViewCSV(t *testing.T) {
	payload, err := Materialize(FormatCSV, []core.TableView{sampleView("claims")}, exportClock)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if payload.Filename != "claims_export_20250301_103045.csv" {
		t.Fatalf("filename = %s", payload.Filename)
	}
	if payload.ContentType != "text/csv" {
		t.Fatalf("content type = %s", payload.ContentType)
	}
	want := "claim_id,claimed_amount\nCL000001,4200.00\nCL000002,980.50\n"
	if string(payload.Data) != want {
		t.Fatalf("csv = %q, want %q", payload.Data, want)
	}
}

func TestMaterializeMultiViewCSVBecomesArchive(t *testing.T) {
	views := []core.TableView{sampleView("claims"), sampleView("owners")}
	payload, err := Materialize(FormatCSV, views, exportClock)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if payload.Filename != "claims_export_20250301_103045.zip" {
		t.Fatalf("filename = %s", payload.Filename)
	}
	if payload.ContentType != "application/zip" {
		t.Fatalf("content type = %s", payload.ContentType)
	}

	zr, err := zip.NewReader(bytes.NewReader(payload.Data), int64(len(payload.Data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("archive entries = %d, want 2", len(zr.File))
	}
	if zr.File[0].Name != "claims.csv" || zr.File[1].Name != "owners.csv" {
		t.Fatalf("entry names = %s, %s", zr.File[0].Name, zr.File[1].Name)
	}
	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("claim_id,claimed_amount\n")) {
		t.Fatalf("entry content = %q", data)
	}
}

func TestMaterializeWorkbookAlwaysArchives(t *testing.T) {
	payload, err := Materialize(FormatWorkbook, []core.TableView{sampleView("claims")}, exportClock)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if payload.ContentType != "application/zip" {
		t.Fatalf("content type = %s", payload.ContentType)
	}
	if _, err := zip.NewReader(bytes.NewReader(payload.Data), int64(len(payload.Data))); err != nil {
		t.Fatalf("workbook not a zip: %v", err)
	}
}

func TestMaterializeJSON(t *testing.T) {
	payload, err := Materialize(FormatJSON, []core.TableView{sampleView("claims")}, exportClock)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if payload.Filename != "claims_export_20250301_103045.json" {
		t.Fatalf("filename = %s", payload.Filename)
	}
	var decoded []core.TableView
	if err := json.Unmarshal(payload.Data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Name != "claims" || len(decoded[0].Rows) != 2 {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestMaterializeRejectsEmptyAndUnknown(t *testing.T) {
	if _, err := Materialize(FormatCSV, nil, exportClock); err == nil {
		t.Fatalf("empty views should fail")
	}
	if _, err := Materialize(Format("parquet"), []core.TableView{sampleView("claims")}, exportClock); err == nil {
		t.Fatalf("unknown format should fail")
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range Formats() {
		if !ValidFormat(f) {
			t.Fatalf("%s should be valid", f)
		}
	}
	if ValidFormat("xlsx") {
		t.Fatalf("xlsx should be invalid")
	}
}
