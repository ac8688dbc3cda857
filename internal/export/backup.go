package export

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"asdgest/internal/core"
)

// Fixed entry and sheet names of the routine backup archive. These are part
// of the interchange contract with the persistence mirror and must not drift.
const (
	FileRicevute  = "ricevute_asd_ssd.xlsx"
	FilePrimaNota = "prima_nota_asd_ssd.xlsx"
	FileSoci      = "soci_asd_ssd.xlsx"
	FileBackup    = "backup_asd_ssd.zip"

	SheetRicevute  = "Ricevute"
	SheetPrimaNota = "PrimaNota"
	SheetSoci      = "Soci"
)

// Sheet names of the annual report workbook.
const (
	SheetPerTipologia = "Per_Tipologia"
	SheetPerCentro    = "Per_CentroCosto"
	SheetDettaglio    = "Dettaglio_PrimaNota"
)

// BackupArchive bundles the receipts and prima nota tables into a ZIP with
// fixed entry names and order. Given identical tables the archive content is
// identical, so backups are reproducible.
func BackupArchive(ricevute, primaNota core.Table) ([]byte, error) {
	excelRicevute, err := ExcelBytes(ricevute, SheetRicevute)
	if err != nil {
		return nil, fmt.Errorf("ricevute sheet: %w", err)
	}
	excelPrimaNota, err := ExcelBytes(primaNota, SheetPrimaNota)
	if err != nil {
		return nil, fmt.Errorf("prima nota sheet: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := []struct {
		name string
		data []byte
	}{
		{FileRicevute, excelRicevute},
		{FilePrimaNota, excelPrimaNota},
	}
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			return nil, fmt.Errorf("create archive entry %q: %w", e.name, err)
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, fmt.Errorf("write archive entry %q: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

// AnnualReport builds the report workbook: the two inflow breakdowns for the
// selected year plus the year's raw prima nota detail, one sheet each.
func AnnualReport(perTipo, perCentro, dettaglio core.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetPerTipologia); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheet(f, SheetPerTipologia, perTipo); err != nil {
		return nil, err
	}
	for _, s := range []struct {
		name  string
		table core.Table
	}{
		{SheetPerCentro, perCentro},
		{SheetDettaglio, dettaglio},
	} {
		if _, err := f.NewSheet(s.name); err != nil {
			return nil, fmt.Errorf("add sheet %q: %w", s.name, err)
		}
		if err := writeSheet(f, s.name, s.table); err != nil {
			return nil, err
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
