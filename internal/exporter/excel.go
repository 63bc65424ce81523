package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"attendcli/internal/dataprocessing"
	apperrors "attendcli/internal/errors"
	"attendcli/pkg/contracts/domain"
)

// Fixed sheet names. Everything else is one sheet per employee.
const (
	SheetAllRecords = "全部記錄"
	SheetStatistics = "統計資訊"
)

// maxSheetNameLen is the workbook format's hard limit on sheet names.
const maxSheetNameLen = 31

// recordHeaders are the column headers of every record sheet.
var recordHeaders = []string{"日期", "星期", "姓名", "上班時間", "下班時間", "狀態"}

// statisticsHeaders are the column headers of the statistics sheet.
var statisticsHeaders = []string{"員工姓名", "總記錄數", "正常", "遲到", "早退", "未進公司", "外出", "假日"}

// WorkbookExporter writes the attendance record set into a styled workbook:
// an all-records sheet, one sheet per employee, and a statistics sheet.
type WorkbookExporter struct {
	logger *slog.Logger
}

// NewWorkbookExporter creates a new workbook exporter.
func NewWorkbookExporter(logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{logger: logger}
}

// styleSet holds the resolved style IDs for one workbook.
type styleSet struct {
	header  int
	weekend int
	warning int
	plain   int
}

// Export writes records and their statistics to an xlsx file at path. The
// full record set goes in regardless of any UI filter the caller may have
// active.
func (e *WorkbookExporter) Export(ctx context.Context, path string, records []domain.AttendanceRecord, summary *dataprocessing.Summary) error {
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		path += ".xlsx"
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewExportError("failed to create output directory", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := buildStyles(f)
	if err != nil {
		return apperrors.NewExportError("failed to create workbook styles", err)
	}

	// The default sheet becomes the all-records sheet.
	if err := f.SetSheetName(f.GetSheetName(0), SheetAllRecords); err != nil {
		return apperrors.NewExportError("failed to rename default sheet", err)
	}
	if err := e.writeRecordSheet(f, SheetAllRecords, records, styles); err != nil {
		return err
	}

	if err := e.writeStatisticsSheet(f, summary, styles); err != nil {
		return err
	}

	used := map[string]bool{SheetAllRecords: true, SheetStatistics: true}
	for _, emp := range summary.Employees {
		name := uniqueSheetName(emp.Employee, used)
		if _, err := f.NewSheet(name); err != nil {
			return apperrors.NewExportError(fmt.Sprintf("failed to create sheet for %s", emp.Employee), err)
		}

		var own []domain.AttendanceRecord
		for _, r := range records {
			if r.EmployeeName == emp.Employee {
				own = append(own, r)
			}
		}
		if err := e.writeRecordSheet(f, name, own, styles); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewExportError("failed to save workbook", err).WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "workbook exported",
		slog.String("path", path),
		slog.Int("record_count", len(records)),
		slog.Int("sheet_count", len(summary.Employees)+2))

	return nil
}

// writeRecordSheet writes headers plus one row per record, with the weekend
// and warning styling the consumers expect: weekend rows shaded, rows whose
// status carries late/early-leave/off-site in warning text, everything
// bordered. The first column stays frozen while scrolling.
func (e *WorkbookExporter) writeRecordSheet(f *excelize.File, sheet string, records []domain.AttendanceRecord, styles styleSet) error {
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		TopLeftCell: "B1",
		ActivePane:  "topRight",
	}); err != nil {
		return apperrors.NewExportError("failed to freeze pane", err)
	}

	if err := writeRow(f, sheet, 1, recordHeaders, styles.header); err != nil {
		return err
	}

	widths := make([]int, len(recordHeaders))
	for i, h := range recordHeaders {
		widths[i] = len([]rune(h))
	}

	for i, r := range records {
		cells := []string{
			r.Date,
			r.Weekday,
			r.EmployeeName,
			r.CheckIn,
			r.CheckOut,
			domain.StatusLabel(r.Status),
		}

		style := styles.plain
		switch {
		case r.IsWeekend:
			style = styles.weekend
		case domain.StatusContains(r.Status, domain.StatusLate),
			domain.StatusContains(r.Status, domain.StatusEarlyLeave),
			domain.StatusContains(r.Status, domain.StatusOffSite):
			style = styles.warning
		}

		if err := writeRow(f, sheet, i+2, cells, style); err != nil {
			return err
		}

		for c, v := range cells {
			if n := len([]rune(v)); n > widths[c] {
				widths[c] = n
			}
		}
	}

	return setColumnWidths(f, sheet, widths)
}

// writeStatisticsSheet writes per-employee token counts plus a trailing
// total row summing every numeric column.
func (e *WorkbookExporter) writeStatisticsSheet(f *excelize.File, summary *dataprocessing.Summary, styles styleSet) error {
	if _, err := f.NewSheet(SheetStatistics); err != nil {
		return apperrors.NewExportError("failed to create statistics sheet", err)
	}

	if err := writeRow(f, SheetStatistics, 1, statisticsHeaders, styles.header); err != nil {
		return err
	}

	widths := make([]int, len(statisticsHeaders))
	for i, h := range statisticsHeaders {
		widths[i] = len([]rune(h))
	}

	var total dataprocessing.EmployeeSummary
	total.Employee = "總計"

	row := 2
	for _, emp := range summary.Employees {
		cells := statisticsRow(emp)
		if err := writeRow(f, SheetStatistics, row, cells, styles.plain); err != nil {
			return err
		}
		for c, v := range cells {
			if n := len([]rune(v)); n > widths[c] {
				widths[c] = n
			}
		}

		total.Total += emp.Total
		total.Tokens.Normal += emp.Tokens.Normal
		total.Tokens.Late += emp.Tokens.Late
		total.Tokens.EarlyLeave += emp.Tokens.EarlyLeave
		total.Tokens.Absent += emp.Tokens.Absent
		total.Tokens.OffSite += emp.Tokens.OffSite
		total.Tokens.Holiday += emp.Tokens.Holiday
		row++
	}

	if err := writeRow(f, SheetStatistics, row, statisticsRow(total), styles.header); err != nil {
		return err
	}

	return setColumnWidths(f, SheetStatistics, widths)
}

// statisticsRow renders one employee (or the total pseudo-employee) as a row.
func statisticsRow(emp dataprocessing.EmployeeSummary) []string {
	return []string{
		emp.Employee,
		fmt.Sprintf("%d", emp.Total),
		fmt.Sprintf("%d", emp.Tokens.Normal),
		fmt.Sprintf("%d", emp.Tokens.Late),
		fmt.Sprintf("%d", emp.Tokens.EarlyLeave),
		fmt.Sprintf("%d", emp.Tokens.Absent),
		fmt.Sprintf("%d", emp.Tokens.OffSite),
		fmt.Sprintf("%d", emp.Tokens.Holiday),
	}
}

// writeRow writes cells into rowNum (1-based) and applies one style to the
// whole row.
func writeRow(f *excelize.File, sheet string, rowNum int, cells []string, style int) error {
	for c, v := range cells {
		axis, err := excelize.CoordinatesToCellName(c+1, rowNum)
		if err != nil {
			return apperrors.NewExportError("failed to compute cell coordinates", err)
		}
		if err := f.SetCellValue(sheet, axis, v); err != nil {
			return apperrors.NewExportError("failed to write cell", err)
		}
	}

	start, _ := excelize.CoordinatesToCellName(1, rowNum)
	end, _ := excelize.CoordinatesToCellName(len(cells), rowNum)
	if err := f.SetCellStyle(sheet, start, end, style); err != nil {
		return apperrors.NewExportError("failed to style row", err)
	}
	return nil
}

// setColumnWidths sizes each column to its widest content plus margin.
func setColumnWidths(f *excelize.File, sheet string, widths []int) error {
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return apperrors.NewExportError("failed to compute column name", err)
		}
		if err := f.SetColWidth(sheet, col, col, float64(w+5)); err != nil {
			return apperrors.NewExportError("failed to set column width", err)
		}
	}
	return nil
}

// buildStyles creates the four cell styles used across all sheets.
func buildStyles(f *excelize.File) (styleSet, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	var s styleSet
	var err error

	if s.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"D3D3D3"}, Pattern: 1},
		Border: border,
	}); err != nil {
		return s, err
	}

	if s.weekend, err = f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFFF99"}, Pattern: 1},
		Border: border,
	}); err != nil {
		return s, err
	}

	if s.warning, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Color: "FF0000"},
		Border: border,
	}); err != nil {
		return s, err
	}

	if s.plain, err = f.NewStyle(&excelize.Style{
		Border: border,
	}); err != nil {
		return s, err
	}

	return s, nil
}

// sheetNameReplacer strips characters the workbook format forbids in sheet
// names.
var sheetNameReplacer = strings.NewReplacer(
	":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", " ", "]", " ",
)

// uniqueSheetName truncates an employee name to the sheet-name limit and
// disambiguates collisions, marking the result as used.
func uniqueSheetName(name string, used map[string]bool) string {
	name = sheetNameReplacer.Replace(name)
	base := truncateRunes(name, maxSheetNameLen)
	candidate := base
	for n := 2; used[candidate]; n++ {
		suffix := fmt.Sprintf("-%d", n)
		candidate = truncateRunes(base, maxSheetNameLen-len(suffix)) + suffix
	}
	used[candidate] = true
	return candidate
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
