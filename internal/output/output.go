// Package output renders generated test cases as a styled spreadsheet.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dgallion1/testgest/internal/model"
	"github.com/xuri/excelize/v2"
)

// ErrNoTestCases is returned when there is nothing to write.
var ErrNoTestCases = errors.New("no test cases to save")

// SheetName is the worksheet holding the cases.
const SheetName = "TestCases"

// Headers are the spreadsheet columns, in order.
var Headers = []string{
	"Object Type", "Name", "Short Description / Action",
	"Expected Result", "input signal", "output signal",
	"Feature", "Test Group", "Test Case", "Precondition",
}

var columnWidths = []float64{12, 14, 40, 30, 30, 20, 16, 12, 30, 30}

// topic maps a keyword found in a case to its grouping labels.
type topic struct {
	keyword string
	name    string
	feature string
	group   string
}

var topics = []topic{
	{"倒车灯", "外灯控制", "倒车灯功能", "倒车灯"},
	{"门锁", "门锁控制", "门锁功能", "门锁"},
	{"雨刮", "雨刮控制", "雨刮功能", "雨刮"},
	{"电源", "电源管理", "电源管理功能", "电源"},
}

var fallbackTopic = topic{name: "功能控制", feature: "其他功能", group: "其他"}

// FunctionName picks the Name column from the case description.
func FunctionName(description string) string {
	for _, t := range topics {
		if strings.Contains(description, t.keyword) {
			return t.name
		}
	}
	return fallbackTopic.name
}

// coverageTopic returns the topic of the first coverage item naming one.
func coverageTopic(coverage []string) topic {
	for _, item := range coverage {
		for _, t := range topics {
			if strings.Contains(item, t.keyword) {
				return t
			}
		}
	}
	return fallbackTopic
}

// Feature picks the Feature column from the coverage list.
func Feature(coverage []string) string { return coverageTopic(coverage).feature }

// TestGroup picks the Test Group column from the coverage list.
func TestGroup(coverage []string) string { return coverageTopic(coverage).group }

// inputSignalText renders signals as "name=value" lines, sorted by name.
func inputSignalText(signals map[string]string) string {
	names := make([]string, 0, len(signals))
	for name := range signals {
		names = append(names, name)
	}
	slices.Sort(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + signals[name]
	}
	return strings.Join(parts, ",\n")
}

// Rows lays out the cases: a Function row, one Test Step row per step and a
// blank separator row for each case.
func Rows(cases []model.TestCase) [][]string {
	var rows [][]string
	for _, tc := range cases {
		name := FunctionName(tc.Description)
		t := coverageTopic(tc.Coverage)
		rows = append(rows, []string{
			"Function",
			name,
			tc.Description,
			strings.Join(tc.Expected, ", "),
			inputSignalText(tc.InputSignal),
			tc.OutputSignal,
			t.feature,
			t.group,
			tc.Description,
			strings.Join(tc.Precondition, "\n"),
		})
		for _, step := range tc.Steps {
			rows = append(rows, []string{
				"Test Step", name, step, "", "", "", t.feature, t.group, tc.Description, "",
			})
		}
		rows = append(rows, nil)
	}
	return rows
}

// Write renders cases as an xlsx workbook to w.
func Write(w io.Writer, cases []model.TestCase) error {
	if len(cases) == 0 {
		return ErrNoTestCases
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := setRow(f, 1, Headers); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("body style: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(Headers))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	rows := Rows(cases)
	for i, row := range rows {
		if row == nil {
			continue
		}
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}
	last := len(rows) + 1
	if err := f.SetCellStyle(SheetName, "A2", fmt.Sprintf("%s%d", lastCol, last), bodyStyle); err != nil {
		return fmt.Errorf("style body: %w", err)
	}

	for i, width := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &vals); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

// FileName is the timestamped output name, TestCases_YYYYMMDD_HHMMSS.xlsx.
func FileName(now time.Time) string {
	return "TestCases_" + now.Format("20060102_150405") + ".xlsx"
}

// SaveFile writes cases into dir under FileName(now) and returns the path.
func SaveFile(dir string, cases []model.TestCase, now time.Time) (string, error) {
	if len(cases) == 0 {
		return "", ErrNoTestCases
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, FileName(now))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}
	if err := Write(out, cases); err != nil {
		out.Close()
		os.Remove(path)
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close output file: %w", err)
	}
	return path, nil
}
