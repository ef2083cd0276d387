package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"brainmapp/domain/results"
	"brainmapp/domain/surface"
	"brainmapp/internal/overlap"
	"brainmapp/internal/statmap"
)

const (
	overlapSheet    = "Overlap"
	selectionsSheet = "Selections"
	summarySheet    = "Summary"
)

var categoryNames = map[results.Category]string{
	results.OnlyA:  "Unique to A",
	results.OnlyB:  "Unique to B",
	results.Shared: "Overlap",
}

// WriteOverlapReport writes the overlap summary of res as an XLSX workbook.
func WriteOverlapReport(w io.Writer, res *overlap.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", overlapSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Category", "Description", "Left vertices", "Right vertices", "Total vertices", "Percent"},
	}
	for _, cat := range results.Categories {
		rows = append(rows, []interface{}{
			int(cat),
			categoryNames[cat],
			res.Counts[surface.Left][cat],
			res.Counts[surface.Right][cat],
			res.Summary.Counts[cat],
			res.Summary.Percent[cat],
		})
	}
	if err := writeRows(f, overlapSheet, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(selectionsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	selections := [][]interface{}{
		{"Map", "Model", "Term"},
		{"A", res.A.Model.String(), res.A.Term},
		{"B", res.B.Model.String(), res.B.Term},
	}
	if err := writeRows(f, selectionsSheet, selections); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}

// WriteSummaryReport writes the cluster and beta summary of a loaded selection.
func WriteSummaryReport(w io.Writer, res *statmap.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Model", res.Selection.Model.String()},
		{"Term", res.Selection.Term},
		{"Stack", res.Stack},
		{"Hemisphere", "Clusters", "Min beta", "Max beta", "Mean beta"},
	}
	for _, hemi := range surface.Hemispheres {
		hm := res.Maps[hemi]
		rows = append(rows, []interface{}{string(hemi), hm.ClusterCount, cell(hm.Min), cell(hm.Max), cell(hm.Mean)})
	}
	rows = append(rows, []interface{}{"both", res.Summary.TotalClusters(),
		cell(res.Summary.Min), cell(res.Summary.Max), cell(res.Summary.Mean)})

	if err := writeRows(f, summarySheet, rows); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}

func cell(v results.OptionalFloat) interface{} {
	if !v.Valid {
		return "undefined"
	}
	return v.Value
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
