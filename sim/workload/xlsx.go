package workload

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/plantfloor/floorsim/sim"
)

// Sheet names looked up in a workbook, case-insensitively.
const (
	ArticlesSheet     = "articles"
	WorkstationsSheet = "workstations"
)

// ReadWorkbook parses a workbook holding an articles sheet and a workstations
// sheet. Both use the CSV column layout, one cell per column, header row first.
func ReadWorkbook(r io.Reader) ([]sim.JobSpec, []sim.ResourceSpec, error) {
	xlFile, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = xlFile.Close() }()

	articles, err := sheetByName(xlFile, ArticlesSheet)
	if err != nil {
		return nil, nil, err
	}
	workstations, err := sheetByName(xlFile, WorkstationsSheet)
	if err != nil {
		return nil, nil, err
	}

	var jobs []sim.JobSpec
	err = eachDataRow(xlFile, articles, func(rowNum int, cols []string) error {
		spec, ok := parseArticleRow(cols)
		if !ok {
			logrus.Debugf("sheet %s row %d: skipped, %d cell(s)", articles, rowNum, len(cols))
			return nil
		}
		jobs = append(jobs, spec)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var resources []sim.ResourceSpec
	err = eachDataRow(xlFile, workstations, func(rowNum int, cols []string) error {
		spec, ok, err := parseWorkstationRow(cols)
		if err != nil {
			return fmt.Errorf("sheet %s row %d: %w", workstations, rowNum, err)
		}
		if !ok {
			logrus.Debugf("sheet %s row %d: skipped, %d cell(s)", workstations, rowNum, len(cols))
			return nil
		}
		resources = append(resources, spec)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return jobs, resources, nil
}

func sheetByName(f *excelize.File, want string) (string, error) {
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(strings.TrimSpace(name), want) {
			return name, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found (have %v)", want, f.GetSheetList())
}

// eachDataRow streams a sheet's rows after the header. Row numbers are 1-based
// as shown by spreadsheet tools.
func eachDataRow(f *excelize.File, sheet string, fn func(rowNum int, cols []string) error) error {
	rows, err := f.Rows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read rows of %s: %w", sheet, err)
	}
	defer func() { _ = rows.Close() }()

	rowNum := 0
	for rows.Next() {
		rowNum++
		cols, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, rowNum, err)
		}
		if rowNum == 1 {
			continue
		}
		if len(cols) == 0 {
			continue
		}
		if err := fn(rowNum, cols); err != nil {
			return err
		}
	}
	return rows.Error()
}
