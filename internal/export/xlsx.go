// Package export renders the catalog tree as an XLSX workbook, one sheet per
// learning path.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mindx-labs/coursecms/internal/catalog"
)

var header = []any{
	"Type", "Name", "Year", "Age group", "Language", "Tools", "Category", "URL", "Content", "Objectives",
}

// Workbook builds an XLSX workbook from tree. Row order follows the tree's
// display order, so two exports of the same tree are identical.
func Workbook(tree catalog.Tree) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, path := range tree {
		sheet := sheetName(string(path.Name))
		if i == 0 {
			// Rename the default sheet instead of leaving it empty.
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("create sheet %q: %w", sheet, err)
			}
		}

		if err := writePath(f, sheet, path); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func writePath(f *excelize.File, sheet string, path catalog.LearningPath) error {
	row := 1
	if err := setRow(f, sheet, row, header); err != nil {
		return err
	}
	row++

	for _, course := range path.Courses {
		if err := setRow(f, sheet, row, []any{
			"course", course.Name, course.Year, course.AgeGroup, course.Language,
			strings.Join(course.Tools, ", "), "", "", course.Content, course.Objectives,
		}); err != nil {
			return err
		}
		row++

		for _, doc := range course.Documents {
			if err := setRow(f, sheet, row, documentRow(doc)); err != nil {
				return err
			}
			row++
		}
		for _, level := range course.Levels {
			if err := setRow(f, sheet, row, []any{
				"level", string(level.Name), "", "", "", "", "", "", level.Content, level.Objectives,
			}); err != nil {
				return err
			}
			row++
			for _, doc := range level.Documents {
				if err := setRow(f, sheet, row, documentRow(doc)); err != nil {
					return err
				}
				row++
			}
		}
	}

	for _, doc := range path.Documents {
		if err := setRow(f, sheet, row, documentRow(doc)); err != nil {
			return err
		}
		row++
	}

	return nil
}

func documentRow(doc catalog.Document) []any {
	return []any{"document", doc.Name, "", "", "", "", string(doc.Category), doc.URL, "", ""}
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d on %q: %w", row, sheet, err)
	}
	return nil
}

// sheetName trims a path name to Excel's 31-character sheet name limit.
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
