// Package shared holds helpers used across the KPI dashboard packages that
// do not belong to a single layer.
//
// The testutil subpackage provides a capturing slog handler for asserting on
// structured logs and excelize-built workbook fixtures for loader tests.
// Production code must not import testutil.
package shared
