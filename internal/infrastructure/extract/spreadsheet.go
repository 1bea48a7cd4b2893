package extract

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/doc-insight/internal/core/domain"
)

// extractSpreadsheet walks every sheet in workbook order, joining cells
// with tabs and rows with newlines. Blank rows are dropped.
func extractSpreadsheet(path string) (string, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return "", domain.WrapError(domain.ErrSheetEmpty, "open workbook", err)
	}
	defer workbook.Close()

	var lines []string
	for _, sheet := range workbook.GetSheetList() {
		rows, err := workbook.GetRows(sheet)
		if err != nil {
			return "", domain.WrapError(domain.ErrSheetEmpty, "read sheet rows", err)
		}
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, "\t"))
			if line != "" {
				lines = append(lines, line)
			}
		}
	}

	if len(lines) == 0 {
		return "", domain.WrapError(domain.ErrSheetEmpty, "extract spreadsheet",
			fmt.Errorf("workbook has no cell text"))
	}
	return strings.Join(lines, "\n"), nil
}
