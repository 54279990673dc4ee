// Package export renders analyzed receipts as downloadable CSV or XLSX
// files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"recscan/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the per-item row layout shared by both formats.
var columns = []string{
	"Merchant",
	"Date",
	"Item",
	"Quantity",
	"Unit Price",
	"Total Price",
	"Detected Language",
	"Source",
}

// WriteCSV writes a receipt record as CSV rows, one row per line item plus
// a trailing TOTAL row.
func WriteCSV(w io.Writer, record *domain.ReceiptRecord) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, row := range recordRows(record) {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a receipt record as a single-sheet XLSX workbook.
func WriteXLSX(w io.Writer, record *domain.ReceiptRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Receipt"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for col, name := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}

	for i, row := range recordRows(record) {
		for col, val := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

// recordRows flattens a record into per-item rows plus the TOTAL row.
func recordRows(record *domain.ReceiptRecord) [][]string {
	rows := make([][]string, 0, len(record.Items)+1)
	for i := range record.Items {
		item := &record.Items[i]
		rows = append(rows, []string{
			record.MerchantName,
			record.Date,
			item.Name,
			strconv.Itoa(item.Quantity),
			formatMoney(item.UnitPrice),
			formatMoney(item.TotalPrice),
			record.DetectedLanguage,
			string(record.Provenance.Source),
		})
	}
	rows = append(rows, []string{
		record.MerchantName,
		record.Date,
		"TOTAL",
		"",
		"",
		formatMoney(record.TotalAmount),
		record.DetectedLanguage,
		string(record.Provenance.Source),
	})
	return rows
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a merchant name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "receipt"
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition.
// Format: {sanitized_merchant_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(merchantName, ext string) string {
	sanitized := SanitizeFilename(merchantName)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
