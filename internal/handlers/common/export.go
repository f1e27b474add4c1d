// Package common holds helpers shared by the list handlers.
package common

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export writes rows, a slice of structs with csv tags, as a CSV or Excel
// attachment named after name. format is "csv" (default) or "xlsx".
func Export(w http.ResponseWriter, format, name string, rows any) {
	text, err := gocsv.MarshalString(rows)
	if err != nil {
		zap.S().Errorw("encode export", "name", name, "error", err)
		http.Error(w, "Failed to encode export", 500)
		return
	}
	filename := strings.ToLower(name)
	if format != "xlsx" {
		attach(w, "text/csv", filename+".csv")
		w.Write([]byte(text))
		return
	}

	records, err := csv.NewReader(strings.NewReader(text)).ReadAll()
	if err != nil || len(records) == 0 {
		http.Error(w, "Failed to encode export", 500)
		return
	}
	var buf bytes.Buffer
	if err := workbook(&buf, name, records[0], records[1:]); err != nil {
		zap.S().Errorw("build workbook", "name", name, "error", err)
		http.Error(w, "Failed to build Excel file", 500)
		return
	}
	attach(w, xlsxContentType, filename+".xlsx")
	w.Write(buf.Bytes())
}

func attach(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
}

// workbook renders one sheet with a bold grey header row.
func workbook(buf *bytes.Buffer, sheet string, headers []string, data [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 18)
	}
	for r, row := range data {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheet, cell, value)
		}
	}
	f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	return f.Write(buf)
}
