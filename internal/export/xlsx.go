// Package export renders a board's items as a spreadsheet.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/repository"
	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(
	"[", "", "]", "", ":", "", "*", "", "?", "", "/", "", "\\", "",
)

// SheetName turns a board name into a valid worksheet name.
func SheetName(boardName string) string {
	name := strings.TrimSpace(sheetNameReplacer.Replace(boardName))
	if name == "" {
		return "Board"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}

// WriteBoard writes one sheet: a header row with "Name" followed by the
// visible columns, then one row per item with cells rendered for display.
func WriteBoard(w io.Writer, board *repository.Board, cols []*columns.Column, items []*repository.Item) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(board.Name)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	visible := make([]*columns.Column, 0, len(cols))
	for _, c := range cols {
		if !c.IsHidden {
			visible = append(visible, c)
		}
	}

	header := make([]interface{}, 0, len(visible)+1)
	header = append(header, "Name")
	for _, c := range visible {
		header = append(header, c.Name)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return err
	}

	for i, item := range items {
		row := make([]interface{}, 0, len(visible)+1)
		row = append(row, item.Name)
		for _, c := range visible {
			row = append(row, columns.DisplayCell(c, item.Cells[c.ID]))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if len(visible) > 0 {
		last, err := excelize.ColumnNumberToName(len(visible) + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", last, 20); err != nil {
			return err
		}
	}

	return f.Write(w)
}
