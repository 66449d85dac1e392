package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"outreach/internal/services/api/export/domain"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Individuals"

// record renders r as text cells in column order
func record(r domain.Row) []string {
	seen := ""
	if r.LastSeen != nil {
		seen = r.LastSeen.UTC().Format(time.RFC3339)
	}
	return []string{r.Name, num(r.Height), num(r.Weight), r.SkinColor, strconv.Itoa(r.UrgencyScore), seen}
}

func num(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// WriteCSV writes the header and rows. Cells are quoted as needed
func WriteCSV(w io.Writer, rows []domain.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.Columns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(record(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a one sheet workbook with a frozen header row. Numbers stay numeric
func WriteXLSX(w io.Writer, rows []domain.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	header := make([]any, len(domain.Columns))
	for i, c := range domain.Columns {
		header[i] = excelize.Cell{Value: c}
	}
	if err := sw.SetPanes(&excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("header row: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		vals := []any{r.Name, "", "", r.SkinColor, r.UrgencyScore, ""}
		if r.Height != nil {
			vals[1] = *r.Height
		}
		if r.Weight != nil {
			vals[2] = *r.Weight
		}
		if r.LastSeen != nil {
			vals[5] = r.LastSeen.UTC().Format(time.RFC3339)
		}
		if err := sw.SetRow(cell, vals); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	return f.Write(w)
}
