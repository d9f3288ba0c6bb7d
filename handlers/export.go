package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"ID", "Data/Hora", "Latitude", "Longitude", "Gasolina", "Etanol", "Diesel", "Calibragem"}

// ExportXLSX downloads the full history as a spreadsheet, newest first.
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Store.FetchAll()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Registros"
	f.SetSheetName("Sheet1", sheet)

	header := make([]interface{}, len(exportHeader))
	for i, hcol := range exportHeader {
		header[i] = hcol
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		http.Error(w, "failed to generate spreadsheet", http.StatusInternalServerError)
		return
	}

	for i, o := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			o.ID, o.DataHora.String(), o.Latitude, o.Longitude,
			metricCell(o.Gasolina), metricCell(o.Etanol),
			metricCell(o.Diesel), metricCell(o.Calibragem),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			http.Error(w, "failed to generate spreadsheet", http.StatusInternalServerError)
			return
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		http.Error(w, "failed to write spreadsheet", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("registros_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ExportCSV downloads the full history as CSV, newest first.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Store.FetchAll()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Write(exportHeader)
	for _, o := range rows {
		cw.Write([]string{
			strconv.FormatUint(uint64(o.ID), 10),
			o.DataHora.String(),
			strconv.FormatFloat(o.Latitude, 'f', -1, 64),
			strconv.FormatFloat(o.Longitude, 'f', -1, 64),
			metricString(o.Gasolina),
			metricString(o.Etanol),
			metricString(o.Diesel),
			metricString(o.Calibragem),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		http.Error(w, "failed to generate CSV", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("registros_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// metricCell keeps NULL metrics as empty cells instead of zeros.
func metricCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func metricString(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
