package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/devogs/epic-events-crm/internal/model"
)

type ExcelGenerator struct{}

func NewExcelGenerator() *ExcelGenerator {
	return &ExcelGenerator{}
}

func (g *ExcelGenerator) Generate(book model.ContractBook) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Contracts"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Contract book")
	set("A2", "Generated for")
	set("B2", book.GeneratedFor)
	set("A3", "Generated at")
	set("B3", formatDateTime(book.GeneratedAt))
	set("A4", "Contracts")
	set("B4", len(book.Rows))

	tableRow := 6
	headers := []string{
		"Contract ID",
		"Client",
		"Company",
		"Total amount",
		"Remaining amount",
		"Signed",
		"Created",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	var totalSum, remainingSum float64
	for i, row := range book.Rows {
		line := tableRow + 1 + i
		set(fmt.Sprintf("A%d", line), row.Contract.ID.String())
		set(fmt.Sprintf("B%d", line), row.ClientName)
		set(fmt.Sprintf("C%d", line), row.CompanyName)
		set(fmt.Sprintf("D%d", line), formatAmount(row.Contract.TotalAmount))
		set(fmt.Sprintf("E%d", line), formatAmount(row.Contract.RemainingAmount))
		set(fmt.Sprintf("F%d", line), formatSigned(row.Contract.Signed))
		set(fmt.Sprintf("G%d", line), formatDate(row.Contract.CreatedAt))
		totalSum += row.Contract.TotalAmount
		remainingSum += row.Contract.RemainingAmount
	}

	summaryLine := tableRow + 2 + len(book.Rows)
	set(fmt.Sprintf("C%d", summaryLine), "Totals")
	set(fmt.Sprintf("D%d", summaryLine), formatAmount(totalSum))
	set(fmt.Sprintf("E%d", summaryLine), formatAmount(remainingSum))

	_ = file.SetColWidth(sheet, "A", "A", 38)
	_ = file.SetColWidth(sheet, "B", "C", 28)
	_ = file.SetColWidth(sheet, "D", "E", 18)
	_ = file.SetColWidth(sheet, "F", "G", 12)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatSigned(signed bool) string {
	if signed {
		return "signed"
	}
	return "unsigned"
}
