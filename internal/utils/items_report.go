package utils

import (
	"bytes"
	"fmt"

	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/models"

	"github.com/xuri/excelize/v2"
)

// ItemsReport renders a tenant's catalog as an xlsx workbook.
func ItemsReport(items []models.Item) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Itens"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}

	headers := []string{"ID", "Título", "Categoria", "Quantidade", "Urgência", "Status", "Data limite", "Criado em", "Finalizado em"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	const dateLayout = "2006-01-02"
	for rowIdx, item := range items {
		rowNum := rowIdx + 2 // headers occupy row 1

		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), item.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), item.Title)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), item.Category)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), item.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), item.Urgency)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), item.Status)
		if item.NeededBy != nil {
			f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), item.NeededBy.Format(dateLayout))
		}
		f.SetCellValue(sheet, fmt.Sprintf("H%d", rowNum), item.CreatedAt.Format(dateLayout))
		if item.FinalizedAt != nil {
			f.SetCellValue(sheet, fmt.Sprintf("I%d", rowNum), item.FinalizedAt.Format(dateLayout))
		}
	}

	for i := 1; i <= len(headers); i++ {
		colName, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(sheet, colName, colName, 18)
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.WriteToBuffer()
}
