package exporter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"attendcli/internal/dataprocessing"
	apperrors "attendcli/internal/errors"
	"attendcli/pkg/contracts/domain"
)

func sampleRecords() []domain.AttendanceRecord {
	return []domain.AttendanceRecord{
		{Date: "2024-06-03", Weekday: "周一", EmployeeName: "Alice", BadgeID: "7",
			CheckIn: "08:55", CheckOut: "18:10", Status: "normal"},
		{Date: "2024-06-04", Weekday: "周二", EmployeeName: "Alice", BadgeID: "7",
			CheckIn: "09:30", CheckOut: "18:10", Status: "late"},
		{Date: "2024-06-08", Weekday: "周六", IsWeekend: true, EmployeeName: "Alice",
			CheckIn: domain.TimePlaceholder, CheckOut: domain.TimePlaceholder, Status: "absent"},
		{Date: "2024-06-03", Weekday: "周一", EmployeeName: "Bob", BadgeID: "8",
			CheckIn: "10:00", CheckOut: "10:00", Status: "off-site"},
	}
}

func exportSample(t *testing.T, records []domain.AttendanceRecord) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.xlsx")
	summary := dataprocessing.NewSummarizer(slog.Default()).Summarize(context.Background(), records)
	err := NewWorkbookExporter(slog.Default()).Export(context.Background(), path, records, summary)
	require.NoError(t, err)
	return path
}

func TestExportCreatesExpectedSheets(t *testing.T) {
	path := exportSample(t, sampleRecords())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, SheetAllRecords)
	assert.Contains(t, sheets, SheetStatistics)
	assert.Contains(t, sheets, "Alice")
	assert.Contains(t, sheets, "Bob")
	assert.Len(t, sheets, 4)
}

func TestExportAllRecordsSheetContent(t *testing.T) {
	path := exportSample(t, sampleRecords())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetAllRecords)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, recordHeaders, rows[0][:6])
	assert.Equal(t, []string{"2024-06-03", "周一", "Alice", "08:55", "18:10", "正常"}, rows[1][:6])
	// Status labels render in the traditional script.
	assert.Equal(t, "遲到", rows[2][5])
	assert.Equal(t, "未進公司", rows[3][5])
	assert.Equal(t, "外出", rows[4][5])
}

func TestExportPerEmployeeSheetsFiltered(t *testing.T) {
	path := exportSample(t, sampleRecords())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bob")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bob", rows[1][2])
}

func TestExportStatisticsSheet(t *testing.T) {
	path := exportSample(t, sampleRecords())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetStatistics)
	require.NoError(t, err)
	// Header, Alice, Bob, total.
	require.Len(t, rows, 4)

	assert.Equal(t, statisticsHeaders, rows[0][:8])

	alice := rows[1]
	assert.Equal(t, "Alice", alice[0])
	assert.Equal(t, "3", alice[1]) // total
	assert.Equal(t, "1", alice[2]) // normal
	assert.Equal(t, "1", alice[3]) // late
	assert.Equal(t, "1", alice[5]) // absent

	total := rows[3]
	assert.Equal(t, "總計", total[0])
	assert.Equal(t, "4", total[1])
}

func TestExportSheetNameTruncationAndUniqueness(t *testing.T) {
	long := strings.Repeat("甲", 40)
	records := []domain.AttendanceRecord{
		{Date: "2024-06-03", Weekday: "周一", EmployeeName: long, BadgeID: "1",
			CheckIn: "08:00", CheckOut: "18:30", Status: "normal"},
		{Date: "2024-06-03", Weekday: "周一", EmployeeName: strings.Repeat("甲", 35), BadgeID: "2",
			CheckIn: "08:00", CheckOut: "18:30", Status: "normal"},
	}

	path := exportSample(t, records)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	var employeeSheets []string
	for _, s := range f.GetSheetList() {
		if s != SheetAllRecords && s != SheetStatistics {
			employeeSheets = append(employeeSheets, s)
			assert.LessOrEqual(t, len([]rune(s)), maxSheetNameLen)
		}
	}
	require.Len(t, employeeSheets, 2)
	assert.NotEqual(t, employeeSheets[0], employeeSheets[1])
}

func TestExportAppendsExtension(t *testing.T) {
	records := sampleRecords()
	summary := dataprocessing.NewSummarizer(slog.Default()).Summarize(context.Background(), records)
	path := filepath.Join(t.TempDir(), "report")

	err := NewWorkbookExporter(slog.Default()).Export(context.Background(), path, records, summary)
	require.NoError(t, err)

	_, err = excelize.OpenFile(path + ".xlsx")
	assert.NoError(t, err)
}

func TestExportInvalidPath(t *testing.T) {
	records := sampleRecords()
	summary := dataprocessing.NewSummarizer(slog.Default()).Summarize(context.Background(), records)

	// Parent path exists as a file, so the directory cannot be created.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, writeFile(blocker))

	err := NewWorkbookExporter(slog.Default()).Export(context.Background(),
		filepath.Join(blocker, "sub", "out.xlsx"), records, summary)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeExport))
}

func writeFile(path string) error {
	return os.WriteFile(path, []byte("blocker"), 0o644)
}

func TestUniqueSheetName(t *testing.T) {
	used := map[string]bool{SheetAllRecords: true}

	assert.Equal(t, "Alice", uniqueSheetName("Alice", used))
	assert.Equal(t, "Alice-2", uniqueSheetName("Alice", used))
	assert.Equal(t, "Alice-3", uniqueSheetName("Alice", used))

	// Forbidden characters are stripped.
	assert.Equal(t, "A B", uniqueSheetName("A/B", used))
}
