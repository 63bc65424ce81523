// Package exporter turns an attendance record set into a styled xlsx
// workbook: one all-records sheet, one sheet per employee, and a statistics
// sheet with a trailing total row. It consumes records read-only and never
// mutates the sequence it is given.
package exporter
