package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"attendcli/internal/config"
	"attendcli/internal/exporter"
	"attendcli/internal/files"
	"attendcli/internal/infrastructure"
	"attendcli/internal/services"
	"attendcli/pkg/contracts/domain"
)

func main() {
	in := flag.String("in", "", "path to the swipe log CSV to analyze")
	out := flag.String("out", "", "output workbook path (defaults to <reports dir>/attendance.xlsx)")
	checkIn := flag.String("checkin", "", "check-in boundary HH:MM (overrides config)")
	checkOut := flag.String("checkout", "", "check-out boundary HH:MM (overrides config)")
	employee := flag.String("employee", "", "print only this employee's records")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: analyzer -in <log.csv> [-out <report.xlsx>] [-employee <name>]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *checkIn != "" {
		cfg.Analysis.CheckInBoundary = *checkIn
	}
	if *checkOut != "" {
		cfg.Analysis.CheckOutBoundary = *checkOut
	}
	workspace := files.NewWorkspace(cfg.Paths)
	if err := workspace.EnsureDirectories(); err != nil {
		slog.Error("failed to prepare directories", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *out == "" {
		*out = workspace.ReportPath("attendance.xlsx")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureTraceID(context.Background())

	service, err := services.NewAnalysisService(logger, cfg.Analysis, exporter.NewWorkbookExporter(logger))
	if err != nil {
		logger.ErrorContext(ctx, "failed to create analysis service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	result, err := service.Load(ctx, *in)
	if err != nil {
		logger.ErrorContext(ctx, "analysis failed",
			slog.String("path", *in),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("analyzed %s (%s): %d rows parsed, %d dropped, %d records, %d employees\n",
		result.SourcePath, result.Encoding,
		result.Stats.Parsed, result.Stats.Dropped,
		result.RecordCount, result.Employees)

	if *employee != "" {
		records, err := service.Records(ctx, *employee)
		if err != nil {
			logger.ErrorContext(ctx, "failed to list records",
				slog.String("employee", *employee),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		printRecords(records)
	}

	summary, err := service.Statistics(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to summarize", slog.String("error", err.Error()))
		os.Exit(1)
	}
	printSummary(summary.Total, summary.ByStatus)

	path, err := service.Export(ctx, *out)
	if err != nil {
		logger.ErrorContext(ctx, "export failed",
			slog.String("path", *out),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("workbook written to %s\n", path)
}

func printRecords(records []domain.AttendanceRecord) {
	for _, r := range records {
		fmt.Printf("%s  %s  %-12s  %5s - %5s  %s\n",
			r.Date, r.Weekday, r.EmployeeName, r.CheckIn, r.CheckOut,
			domain.StatusLabel(r.Status))
	}
}

func printSummary(total int, byStatus map[string]int) {
	fmt.Printf("total records: %d\n", total)

	statuses := make([]string, 0, len(byStatus))
	for status := range byStatus {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	for _, status := range statuses {
		fmt.Printf("  %s: %d\n", domain.StatusLabel(status), byStatus[status])
	}
}
