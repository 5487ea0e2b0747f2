// Package exporter writes the asset inventory of a generator run to a report
// file. The format follows the file extension: .csv, .json or .xlsx.
package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"iconforge/internal/generator"
)

var headers = []string{"Path", "Size", "Kind", "Backend", "Bytes", "SHA256"}

// Export writes the run's assets to filePath, picking the format from the
// extension. Unknown extensions are an error.
func Export(res *generator.Result, filePath string) error {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		return exportCSV(res, filePath)
	case ".json":
		return exportJSON(res, filePath)
	case ".xlsx":
		return exportExcel(res, filePath)
	default:
		return fmt.Errorf("unsupported report format %q (use .csv, .json or .xlsx)", filepath.Ext(filePath))
	}
}

func exportCSV(res *generator.Result, filePath string) error {
	f, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	_ = w.Write(headers)
	for _, a := range res.Assets {
		_ = w.Write(assetRow(a))
	}
	return w.Error()
}

func exportJSON(res *generator.Result, filePath string) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return os.WriteFile(filePath, data, 0644)
}

func exportExcel(res *generator.Result, filePath string) error {
	f := excelize.NewFile()
	sheetName := "Assets"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}
	f.DeleteSheet("Sheet1")

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}
	for row, a := range res.Assets {
		for col, v := range assetRow(a) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}
	return f.SaveAs(filePath)
}

func assetRow(a generator.Asset) []string {
	return []string{
		a.Path,
		strconv.Itoa(a.Size),
		a.Kind,
		a.Backend,
		strconv.FormatInt(a.Bytes, 10),
		a.SHA256,
	}
}
