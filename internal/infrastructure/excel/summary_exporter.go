// Package excel genera libros XLSX con los reportes del almacén.
package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/almacen-obra/internal/application/dto"
	"github.com/jhoicas/almacen-obra/internal/application/store"
)

var _ store.SummaryExporter = (*SummaryExporter)(nil)

// SummaryExporter implementa store.SummaryExporter usando excelize.
type SummaryExporter struct{}

// NewSummaryExporter construye el exportador.
func NewSummaryExporter() *SummaryExporter { return &SummaryExporter{} }

const sheetName = "Existencias"

// SummaryWorkbook genera el libro de resumen de disponibilidad y devuelve sus bytes.
func (e *SummaryExporter) SummaryWorkbook(rows []dto.SummaryRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("excel: crear hoja: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("excel: borrar hoja por defecto: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00467F"}},
	})
	if err != nil {
		return nil, fmt.Errorf("excel: crear estilo: %w", err)
	}

	headers := []string{"Material", "Precio unitario", "Disponible", "Valor total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("excel: escribir cabecera: %w", err)
		}
	}
	if err := f.SetCellStyle(sheetName, "A1", "D1", headerStyle); err != nil {
		return nil, fmt.Errorf("excel: aplicar estilo: %w", err)
	}

	for i, row := range rows {
		r := i + 2
		unitPrice, _ := row.UnitPrice.Float64()
		available, _ := row.Available.Float64()
		total, _ := row.Total.Float64()
		values := []any{row.Item, unitPrice, available, total}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, r)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("excel: escribir fila %d: %w", r, err)
			}
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 35); err != nil {
		return nil, fmt.Errorf("excel: ancho de columna: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "D", 16); err != nil {
		return nil, fmt.Errorf("excel: ancho de columna: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel: serializar libro: %w", err)
	}
	return buf.Bytes(), nil
}
